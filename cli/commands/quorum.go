// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/33cn/contractcore/feereport"
	"github.com/33cn/contractcore/types"
	"github.com/spf13/cobra"
)

// QuorumCmd resolve a saved collector
func QuorumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quorum",
		Short: "Compute the agreed fees of a saved report collector",
		Run:   quorum,
	}
	addQuorumFlags(cmd)
	return cmd
}

func addQuorumFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("contracts", "c", 0, "number of contracts including the host")
	cmd.MarkFlagRequired("contracts")
	cmd.Flags().IntP("computors", "n", types.NumberOfComputors, "number of computors")
}

func quorum(cmd *cobra.Command, args []string) {
	contracts, _ := cmd.Flags().GetInt("contracts")
	computors, _ := cmd.Flags().GetInt("computors")
	store, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer store.Close()
	data, err := store.Load(feereport.SnapshotName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fees, err := resolveImage(data, contracts, computors)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	printFees(os.Stdout, fees)
}

// resolveImage quorum of a collector image; the roster is irrelevant offline
func resolveImage(data []byte, contracts, computors int) ([]feereport.Fee, error) {
	if computors <= 0 {
		return nil, types.ErrComputorRoster
	}
	c, err := feereport.NewCollector(contracts, make([]types.ID, computors))
	if err != nil {
		return nil, err
	}
	if err := c.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return c.Resolve(nil), nil
}

func printFees(w io.Writer, fees []feereport.Fee) {
	table := newTable(w, "contract", "fee(us)", "fee(s)")
	for _, f := range fees {
		table.Append([]string{strconv.FormatUint(uint64(f.ContractIndex), 10), strconv.FormatUint(f.Amount, 10), seconds(f.Amount)})
	}
	table.Render()
}
