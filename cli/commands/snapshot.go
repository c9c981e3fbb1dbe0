// Copyright Fuzamei Corp. 2018 All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/33cn/contractcore/metering"
	"github.com/33cn/contractcore/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// SnapshotCmd snapshot inspection
func SnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect saved snapshots",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.AddCommand(
		AccumulatorCmd(),
	)
	return cmd
}

// AccumulatorCmd print the accumulator buffers
func AccumulatorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accumulator",
		Short: "Print the execution times of the saved accumulator",
		Run:   accumulator,
	}
	return cmd
}

func accumulator(cmd *cobra.Command, args []string) {
	store, err := openStore(cmd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	defer store.Close()
	data, err := store.Load(metering.SnapshotName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	acc, err := decodeAccumulator(data)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	printAccumulator(os.Stdout, acc)
}

// decodeAccumulator sizes the accumulator from the image length, 16 bytes
// per contract plus the active flag
func decodeAccumulator(data []byte) (*metering.Accumulator, error) {
	if len(data) == 0 || (len(data)-1)%16 != 0 {
		return nil, errors.Wrapf(types.ErrSnapshotSize, "accumulator image of %d bytes", len(data))
	}
	acc := metering.NewAccumulator((len(data)-1)/16, 0)
	if err := acc.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return acc, nil
}

func printAccumulator(w io.Writer, acc *metering.Accumulator) {
	prev, active := acc.PrevPhaseTimes(), acc.ActiveTimes()
	table := newTable(w, "contract", "previous phase", "active phase")
	for i := 1; i < len(prev); i++ {
		table.Append([]string{strconv.Itoa(i), strconv.FormatUint(prev[i], 10), strconv.FormatUint(active[i], 10)})
	}
	table.Render()
}
