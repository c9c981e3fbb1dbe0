// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/33cn/contractcore/feereport"
	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ReportCmd fee report command
func ReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Encode and decode execution fee reports",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		EncodeReportCmd(),
		DecodeReportCmd(),
	)
	return cmd
}

// EncodeReportCmd encode a report payload
func EncodeReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a fee report payload as hex",
		Run:   encodeReport,
	}
	addEncodeReportFlags(cmd)
	return cmd
}

func addEncodeReportFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32P("phase", "p", 0, "phase number")
	cmd.Flags().StringP("entries", "e", "", `entries as "contract:fee,contract:fee"`)
	cmd.MarkFlagRequired("entries")
	cmd.Flags().StringP("datalock", "d", "", "hex data lock, 32 bytes")
}

func encodeReport(cmd *cobra.Command, args []string) {
	phase, _ := cmd.Flags().GetUint32("phase")
	entries, _ := cmd.Flags().GetString("entries")
	lock, _ := cmd.Flags().GetString("datalock")
	r, err := buildReport(phase, entries, lock)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Println(hex.EncodeToString(r.Encode()))
}

func buildReport(phase uint32, entries, lock string) (*feereport.Report, error) {
	r := &feereport.Report{Phase: phase}
	if lock != "" {
		b, err := hex.DecodeString(strings.TrimPrefix(lock, "0x"))
		if err != nil || len(b) != types.DataLockSize {
			return nil, errors.Wrap(types.ErrDataLock, "datalock must be 32 hex bytes")
		}
		copy(r.DataLock[:], b)
	}
	for _, item := range strings.Split(entries, ",") {
		kv := strings.SplitN(strings.TrimSpace(item), ":", 2)
		if len(kv) != 2 {
			return nil, errors.Wrapf(types.ErrInvalidEntry, "entry %q", item)
		}
		idx, err := strconv.ParseUint(kv[0], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidEntry, "contract %q", kv[0])
		}
		fee, err := strconv.ParseUint(kv[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(types.ErrInvalidEntry, "fee %q", kv[1])
		}
		r.Entries = append(r.Entries, feereport.Entry{ContractIndex: uint32(idx), Fee: fee})
	}
	return r, nil
}

// DecodeReportCmd decode a report payload
func DecodeReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a hex fee report payload",
		Args:  cobra.ExactArgs(1),
		Run:   decodeReport,
	}
	return cmd
}

func decodeReport(cmd *cobra.Command, args []string) {
	b, err := hex.DecodeString(strings.TrimPrefix(args[0], "0x"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	r, err := feereport.DecodeReport(b)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	printReport(os.Stdout, r)
}

func printReport(w io.Writer, r *feereport.Report) {
	fmt.Fprintf(w, "phase: %d\ndatalock: %s\n", r.Phase, hex.EncodeToString(r.DataLock[:]))
	table := newTable(w, "contract", "fee(us)", "fee(s)")
	for _, e := range r.Entries {
		table.Append([]string{strconv.FormatUint(uint64(e.ContractIndex), 10), strconv.FormatUint(e.Fee, 10), seconds(e.Fee)})
	}
	table.Render()
}
