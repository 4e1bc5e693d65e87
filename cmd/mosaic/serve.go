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
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suryavignesh1304/mosaic-generator/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start an HTTP server that creates mosaics from uploaded images.

POST /generate_mosaic expects a multipart form with the source image "input",
one or more "pool" images and optionally "stride" and "output_width".

Examples:
  # Start server on default port 5000 and serve the frontend from ./dist
  mosaic serve

  # Start server with custom bind address
  mosaic serve --bind 0.0.0.0 --port 8080 --static ./frontend/dist`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("bind", "b", "localhost", "bind address")
	serveCmd.Flags().IntP("port", "p", 5000, "port to listen on")
	serveCmd.Flags().Duration("timeout", 2*time.Minute, "request timeout")
	serveCmd.Flags().String("static", "dist", "directory of the frontend, empty to disable")
	serveCmd.Flags().Int64("max-upload", web.DefaultMaxUpload, "maximal request size in bytes")
	serveCmd.Flags().String("temp-dir", "", "directory for temporary request data")
}

// bindServeFlags binds the server flags to the "server." config keys.
func bindServeFlags(cmd *cobra.Command) error {
	for _, name := range []string{"bind", "port", "timeout", "static", "max-upload", "temp-dir"} {
		if err := viper.BindPFlag("server."+name, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := bindServeFlags(cmd); err != nil {
		return err
	}
	opts, err := optionsFromConfig()
	if err != nil {
		return err
	}
	stride, err := strideFromConfig()
	if err != nil {
		return err
	}
	timeout := viper.GetDuration("server.timeout")

	webContext := web.NewContext()
	webContext.Options = opts
	webContext.Stride = stride
	webContext.OutputWidth = opts.OutputWidth
	webContext.MaxUpload = viper.GetInt64("server.max-upload")
	webContext.TempDir = viper.GetString("server.temp-dir")
	webContext.Timeout = timeout
	if static := viper.GetString("server.static"); static != "" {
		if webContext.StaticDir, err = expandPath(static); err != nil {
			return err
		}
	}

	addr := fmt.Sprintf("%s:%d", viper.GetString("server.bind"), viper.GetInt("server.port"))
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      web.NewRouter(webContext),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Server shutdown error")
		}
	}()

	log.WithField("addr", addr).Info("Starting mosaic server")
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %v", err)
	}
	return nil
}
