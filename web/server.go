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

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	mosaic "github.com/suryavignesh1304/mosaic-generator"
)

var (
	// ErrAlreadyHandled is returned by a HandlerFunc that already wrote the
	// response.
	ErrAlreadyHandled = errors.New("Error was already handled")
)

const (
	// DefaultMaxUpload is the default limit of a request body in bytes.
	DefaultMaxUpload = 64 << 20
)

// Context holds the configuration shared by all handlers. It is never
// modified by a request.
type Context struct {
	// Options are passed to the mosaic generator, the output width of a
	// request replaces Options.OutputWidth.
	Options mosaic.Options

	// Stride is used if a request does not contain a stride.
	Stride int

	// OutputWidth is used if a request does not contain an output width.
	OutputWidth int

	// MaxUpload is the maximal size of a request body in bytes.
	MaxUpload int64

	// TempDir is the directory in which the working directories of requests
	// are created, the default temporary directory if empty.
	TempDir string

	// StaticDir is the directory of the frontend, not served if empty.
	StaticDir string

	// Timeout is the maximal duration of a request, no timeout if ≤ 0.
	Timeout time.Duration
}

// NewContext returns a context with default values.
func NewContext() *Context {
	return &Context{
		Options:     mosaic.DefaultOptions(),
		Stride:      mosaic.DefaultStride,
		OutputWidth: mosaic.DefaultOutputWidth,
		MaxUpload:   DefaultMaxUpload,
	}
}

// HandlerFunc handles a request and returns either an error or data that is
// sent as JSON. If the handler writes the response itself it returns
// ErrAlreadyHandled.
type HandlerFunc func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error)

// ToHTTPFunc converts a HandlerFunc to an http.HandlerFunc.
func ToHTTPFunc(context *Context, handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonData, err := handler(context, w, r)
		switch {
		case err == ErrAlreadyHandled:
		case err != nil:
			log.WithError(err).WithField("request", middleware.GetReqID(r.Context())).
				Error("Error in request")
			WriteError(w, http.StatusInternalServerError, err.Error())
		default:
			WriteJSON(w, http.StatusOK, jsonData)
		}
	}
}

// WriteJSON writes data as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	jData, jErr := json.Marshal(data)
	if jErr != nil {
		log.WithError(jErr).Error("Internal error: Can't marshal json")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jData)
}

// WriteError writes {"error": message} with the given status code.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// HealthHandler reports that the server is running.
func HealthHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return map[string]string{"status": "ok"}, nil
}

// requestLogger logs each request with logrus.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"request":  middleware.GetReqID(r.Context()),
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   ww.Status(),
			"bytes":    ww.BytesWritten(),
			"duration": time.Since(start),
		}).Info("Request handled")
	})
}

// cors allows requests from any origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter returns the handler for all routes: the mosaic endpoint, a health
// check and (if context.StaticDir is set) the frontend files.
func NewRouter(context *Context) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if context.Timeout > 0 {
		r.Use(middleware.Timeout(context.Timeout))
	}
	r.Use(cors)

	r.Get("/health", ToHTTPFunc(context, HealthHandler))
	r.Post("/generate_mosaic", ToHTTPFunc(context, GenerateMosaicHandler))

	if context.StaticDir != "" {
		if fi, err := os.Stat(context.StaticDir); err != nil || !fi.IsDir() {
			log.WithField("dir", context.StaticDir).Warn("Static directory not found, frontend is not served")
		} else {
			r.Handle("/*", http.FileServer(http.Dir(context.StaticDir)))
		}
	}
	return r
}
