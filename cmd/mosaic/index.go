// Copyright 2024 The mosaic-generator Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mosaic "github.com/suryavignesh1304/mosaic-generator"
)

var indexCmd = &cobra.Command{
	Use:   "index <pool-dir>",
	Short: "Show the mean color of each pool image",
	Args:  cobra.ExactArgs(1),
	RunE:  runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	dir, err := expandPath(args[0])
	if err != nil {
		return err
	}
	stride, err := strideFromConfig()
	if err != nil {
		return err
	}
	opts, err := optionsFromConfig()
	if err != nil {
		return err
	}
	pool, err := mosaic.IndexPoolWith(dir, stride, opts)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tR\tG\tB")
	for i, name := range pool.Names {
		c := pool.Colors[i]
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%.2f\n", i, name, c.R, c.G, c.B)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Total: %d tiles of %dx%d pixels\n", pool.Len(), stride, stride)
	return nil
}
