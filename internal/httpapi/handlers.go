// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pinrail/gpio-panel/internal/action"
	"github.com/pinrail/gpio-panel/internal/command"
	"github.com/pinrail/gpio-panel/internal/gpio"
)

type handlers struct {
	surface *command.Surface
}

// pinView is the UI fragment rendered for a single header position.
type pinView struct {
	Number    int    `json:"number,omitempty"`
	Role      string `json:"role"`
	Label     string `json:"label"`
	Column    string `json:"column"`
	Direction string `json:"direction,omitempty"`
	Level     string `json:"level,omitempty"`
	Pull      string `json:"pull,omitempty"`
	Function  string `json:"function"`
}

func newPinView(p gpio.Pin) pinView {
	v := pinView{
		Number: p.Number,
		Role:   p.Role.String(),
		Label:  p.Label,
		Column: p.Column.String(),
	}
	if p.Role.Controllable() {
		v.Direction = p.Direction.String()
		v.Level = p.Level.String()
		v.Pull = p.Pull.String()
	}
	v.Function = p.Function()
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *handlers) listPins(w http.ResponseWriter, r *http.Request) {
	snapshot := h.surface.Driver.Snapshot()
	views := make([]pinView, len(snapshot))
	for i, p := range snapshot {
		views[i] = newPinView(p)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *handlers) setup(w http.ResponseWriter, r *http.Request) {
	if err := h.surface.Setup(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.surface.Reset(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *handlers) terminate(w http.ResponseWriter, r *http.Request) {
	if err := h.surface.Terminate(); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *handlers) togglePin(w http.ResponseWriter, r *http.Request) {
	pin, err := strconv.Atoi(chi.URLParam(r, "pin"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	level, err := h.surface.TogglePin(pin)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"level": level.String()})
}

func (h *handlers) listActions(w http.ResponseWriter, r *http.Request) {
	actions := h.surface.ListActions()
	type entry struct {
		Index  int    `json:"index"`
		Action action.Action `json:"action"`
		Text   string `json:"text"`
	}
	out := make([]entry, len(actions))
	for i, a := range actions {
		out[i] = entry{Index: i, Action: a, Text: a.String()}
	}
	writeJSON(w, http.StatusOK, out)
}

type addActionRequest struct {
	ActionType string `json:"action_type"`
	Value      int    `json:"value"`
}

func (h *handlers) addAction(w http.ResponseWriter, r *http.Request) {
	var req addActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	idx, err := h.surface.AddAction(req.ActionType, req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"index": idx})
}

func (h *handlers) deleteAction(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.surface.RemoveAction(idx)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type startProgramRequest struct {
	ShouldLoop string `json:"should_loop"`
}

func (h *handlers) startProgram(w http.ResponseWriter, r *http.Request) {
	var req startProgramRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	h.surface.StartProgram(req.ShouldLoop == "true")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *handlers) stopProgram(w http.ResponseWriter, r *http.Request) {
	h.surface.StopProgram()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
