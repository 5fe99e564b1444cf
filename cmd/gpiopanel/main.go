// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gpiopanel serves the browser-based GPIO control panel: it wires the
// register-level driver, the Action Program store and executor, and the
// log broadcast sink to an HTTP/websocket command surface.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pinrail/gpio-panel/internal/action"
	"github.com/pinrail/gpio-panel/internal/command"
	"github.com/pinrail/gpio-panel/internal/eventlog"
	"github.com/pinrail/gpio-panel/internal/gpio"
	"github.com/pinrail/gpio-panel/internal/httpapi"
)

const defaultPort = 3000

const configFileName = "config.json"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gpiopanel [port]",
		Short: "Serve the browser-based GPIO control panel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,
	}
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	port := defaultPort
	if len(args) == 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", args[0], err)
		}
		port = p
	}

	log := eventlog.New()
	driver := gpio.NewDriver()
	store := action.NewStore(configFileName)
	store.GpioPinsProvider = driver.Snapshot
	if err := store.Load(); err != nil {
		return fmt.Errorf("loading %s: %w", configFileName, err)
	}
	store.SaveErr = func(err error) {
		log.Errorf(fmt.Sprintf("save %s: %v", configFileName, err))
	}

	surface := command.New(driver, store, log)
	if err := surface.Setup(); err != nil {
		slog.Warn("initial gpio setup failed, continuing unconfigured", "err", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: httpapi.NewRouter(surface),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	surface.StopProgram()
	driver.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gpiopanel: %s.\n", err)
		os.Exit(1)
	}
}
