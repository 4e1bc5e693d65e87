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
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	mosaic "github.com/suryavignesh1304/mosaic-generator"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "Create mosaic images from a pool of tile images",
	Long: `mosaic replaces each cell of a source image by the pool image whose average
color is nearest to the average color of the cell.

Examples:
  # Create a mosaic with 30x30 pixel tiles
  mosaic compose input.jpg ~/Pictures/pool output.jpg --stride 30

  # Show the mean colors of the pool images
  mosaic index ~/Pictures/pool

  # Start the HTTP server
  mosaic serve --port 5000`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := viper.BindPFlags(cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		return initLogging()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mosaic.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolP("verbose", "v", false, "report progress")
	flags.IntP("stride", "s", mosaic.DefaultStride, "side length of the tiles in pixels")
	flags.Int("output-width", mosaic.DefaultOutputWidth, "requested width of the mosaic (currently not applied)")
	flags.String("interp", "lanczos3", "interpolation (nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3)")
	flags.String("resizer", "nfnt", "resize engine (nfnt or gift)")
	flags.String("matcher", "linear", "nearest color lookup (linear or kdtree)")
	flags.String("metric", "euclid", "color distance of the linear matcher ("+
		strings.Join(mosaic.GetVectorMetricNames(), ", ")+")")
	flags.String("filter", "jpgpng", "accepted pool files (jpgpng, reference or all)")
	flags.Bool("recursive", false, "include pool images in subdirectories")
	flags.Bool("dedup", false, "skip pool files with identical content")
	flags.IntP("routines", "r", 1, "number of goroutines")
	flags.Int("jpeg-quality", mosaic.DefaultJPGQuality, "jpeg quality between 1 and 100")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Search config in home directory with name ".mosaic" (without extension).
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mosaic")
	}

	viper.SetEnvPrefix("mosaic")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("Using config file")
	}
}

func initLogging() error {
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

// expandPath expands ~ and returns an absolute path.
func expandPath(path string) (string, error) {
	res, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(res)
}

// optionsFromConfig creates the generator options from the current
// configuration.
func optionsFromConfig() (mosaic.Options, error) {
	opts := mosaic.DefaultOptions()
	resizer, err := mosaic.NewResizer(viper.GetString("resizer"), viper.GetString("interp"))
	if err != nil {
		return opts, err
	}
	opts.Resizer = resizer
	matcher, err := mosaic.GetMatcherFactory(viper.GetString("matcher"), viper.GetString("metric"))
	if err != nil {
		return opts, err
	}
	opts.Matcher = matcher
	filter, err := mosaic.GetImageFilter(viper.GetString("filter"))
	if err != nil {
		return opts, err
	}
	opts.Filter = filter
	opts.Recursive = viper.GetBool("recursive")
	opts.Dedup = viper.GetBool("dedup")
	opts.NumRoutines = viper.GetInt("routines")
	if opts.NumRoutines <= 0 {
		return opts, fmt.Errorf("routines must be positive, got %d", opts.NumRoutines)
	}
	opts.JPGQuality = viper.GetInt("jpeg-quality")
	if opts.JPGQuality < 1 || opts.JPGQuality > 100 {
		return opts, fmt.Errorf("jpeg-quality must be a value between 1 and 100, got %d", opts.JPGQuality)
	}
	opts.OutputWidth = viper.GetInt("output-width")
	if viper.GetBool("verbose") {
		opts.Progress = mosaic.LoggerProgress
	}
	return opts, nil
}

func strideFromConfig() (int, error) {
	stride := viper.GetInt("stride")
	if stride <= 0 {
		return -1, fmt.Errorf("stride must be positive, got %d", stride)
	}
	return stride, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
