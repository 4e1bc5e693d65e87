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

	"github.com/spf13/cobra"

	mosaic "github.com/suryavignesh1304/mosaic-generator"
)

var composeCmd = &cobra.Command{
	Use:   "compose <source> <pool-dir> <output>",
	Short: "Create a mosaic of the source image",
	Long: `Create a mosaic of the source image with the images in pool-dir as tiles.

The output format is selected by the extension of output: png for ".png",
jpeg otherwise.`,
	Args: cobra.ExactArgs(3),
	RunE: runCompose,
}

func init() {
	rootCmd.AddCommand(composeCmd)
}

func runCompose(cmd *cobra.Command, args []string) error {
	paths := make([]string, len(args))
	for i, arg := range args {
		path, err := expandPath(arg)
		if err != nil {
			return fmt.Errorf("invalid path %s: %w", arg, err)
		}
		paths[i] = path
	}
	stride, err := strideFromConfig()
	if err != nil {
		return err
	}
	opts, err := optionsFromConfig()
	if err != nil {
		return err
	}
	if err := mosaic.ComposeMosaicWith(paths[0], paths[1], paths[2], stride, opts); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Mosaic written to", paths[2])
	return nil
}
