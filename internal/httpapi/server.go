// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package httpapi is the external collaborator spec.md §1 calls out as
// out of scope for the core: the HTTP routing table and the websocket log
// stream. It is a thin shell around internal/command.Surface.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pinrail/gpio-panel/internal/command"
)

// NewRouter builds the chi router exposing the Command Surface given in
// spec.md §4.6/§6.
func NewRouter(surface *command.Surface) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handlers{surface: surface}

	r.Get("/api/pins", h.listPins)
	r.Post("/api/gpio/setup", h.setup)
	r.Post("/api/gpio/reset", h.reset)
	r.Post("/api/gpio/terminate", h.terminate)
	r.Post("/api/pins/{pin}/toggle", h.togglePin)

	r.Get("/api/actions", h.listActions)
	r.Post("/api/actions", h.addAction)
	r.Delete("/api/actions/{index}", h.deleteAction)

	r.Post("/api/program/start", h.startProgram)
	r.Post("/api/program/stop", h.stopProgram)

	r.Get("/ws/log", h.logStream)

	return r
}
