// Copyright 2026 The HyperSwitch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command hyperswitchd serves a HyperSwitch spec document as an HTTP API,
// the way the teacher's router/examples mains wrap router.MustNew into a
// graceful-shutdown http.Server (rivaas.dev/router/serve.go).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperswitch/hyperswitch"
	"github.com/hyperswitch/hyperswitch/spec"
)

func main() {
	specPath := flag.String("spec", "", "path to the root HyperSwitch spec document (YAML)")
	addr := flag.String("addr", ":7231", "listen address")
	disableHandlers := flag.Bool("disable-handlers", false, "dry-run the spec without binding host-language handlers")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *specPath == "" {
		logger.Error("missing required -spec flag")
		os.Exit(2)
	}

	root, err := loadYAMLFile(*specPath)
	if err != nil {
		logger.Error("failed to load spec", "error", err)
		os.Exit(1)
	}

	source := spec.NewYAMLSource(filepath.Dir(*specPath), root)

	engine := hyperswitch.MustNew(
		hyperswitch.WithSpec(source),
		hyperswitch.WithAppBasePath(filepath.Dir(*specPath)),
		hyperswitch.WithDisableHandlers(*disableHandlers),
		hyperswitch.WithLogger(slogLogger{logger}),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()
	if err := engine.Start(startCtx); err != nil {
		logger.Error("startup resource phase failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("hyperswitchd listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server exited", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

func loadYAMLFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %q: %w", path, err)
	}
	return doc, nil
}

// slogLogger adapts *slog.Logger to core.Logger (SPEC_FULL.md §4.1),
// mirroring the teacher's own slog-first ambient logging.
type slogLogger struct{ l *slog.Logger }

func (s slogLogger) Debug(msg string, kv ...any) { s.l.Debug(msg, kv...) }
func (s slogLogger) Info(msg string, kv ...any)  { s.l.Info(msg, kv...) }
func (s slogLogger) Warn(msg string, kv ...any)  { s.l.Warn(msg, kv...) }
func (s slogLogger) Error(msg string, kv ...any) { s.l.Error(msg, kv...) }
