// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package eventlog is the unbounded broadcast sink for log events emitted
// by the Command Surface: every state change is published here and fanned
// out to every subscriber (typically one per connected websocket), with
// slow subscribers dropping their oldest buffered entry rather than
// blocking the producer.
package eventlog

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Kind classifies a log Event.
type Kind uint8

// The two event kinds the Command Surface emits.
const (
	Info Kind = iota
	Error
)

func (k Kind) String() string {
	if k == Error {
		return "Error"
	}
	return "Info"
}

// MarshalJSON renders Kind as its name ("Info"/"Error") rather than its
// numeric value, matching spec.md §4.6's wire shape.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Event is one entry in the log.
type Event struct {
	Kind      Kind
	Message   string
	Wallclock string         // hh:mm:ss, formatted at emission time
	Attrs     map[string]any `json:"attrs,omitempty"`
}

// subscriberQueueLen bounds how many buffered events a slow subscriber
// may fall behind by before the oldest is dropped.
const subscriberQueueLen = 64

// Log is a broadcast sink and an slog.Handler: every record logged through
// Logger() is both rendered to next (a conventional text handler on
// stderr, for the operator's terminal) and fanned out as an Event to every
// broadcast subscriber, carrying the record's structured attributes along
// for the ride. Publish never blocks, and subscribers that fall behind
// lose their oldest unread events rather than stall the producer.
// Grounded on the drop-oldest delivery the teacher's bus package uses for
// slow subscribers, simplified to flat fan-out since there's only ever
// one topic here.
type Log struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}

	now    func() time.Time // overridable by tests
	next   slog.Handler
	logger *slog.Logger
}

// New returns an empty Log with no subscribers, backed by a text handler
// on stderr for the operator-facing half of every logged record.
func New() *Log {
	l := &Log{subs: map[chan Event]struct{}{}, now: time.Now, next: slog.NewTextHandler(os.Stderr, nil)}
	l.logger = slog.New(l)
	return l
}

// Logger returns the slog.Logger backed by this Log. Records logged
// through it reach both stderr and every broadcast subscriber; this is
// the handle the executor and command layers log through so
// that a single call site produces a structured attrs, a human string,
// and a terminal line at once.
func (l *Log) Logger() *slog.Logger { return l.logger }

// Enabled implements slog.Handler; every level is accepted, the broadcast
// consumers decide what they care about.
func (l *Log) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler: it publishes an Event carrying the
// record's attributes, then forwards the record to the stderr handler.
func (l *Log) Handle(ctx context.Context, r slog.Record) error {
	kind := Info
	if r.Level >= slog.LevelError {
		kind = Error
	}
	var attrs map[string]any
	if r.NumAttrs() > 0 {
		attrs = make(map[string]any, r.NumAttrs())
		r.Attrs(func(a slog.Attr) bool {
			attrs[a.Key] = a.Value.Any()
			return true
		})
	}
	l.publish(kind, r.Message, attrs)
	return l.next.Handle(ctx, r)
}

// WithAttrs and WithGroup are unused by this codebase's call sites — every
// caller passes its attrs directly to the logging call rather than
// binding a scoped logger — so both are no-ops that return the receiver.
func (l *Log) WithAttrs([]slog.Attr) slog.Handler { return l }
func (l *Log) WithGroup(string) slog.Handler      { return l }

// Subscribe registers a new channel and returns it along with an
// unsubscribe function. The channel is buffered; unsubscribe removes it
// from the fan-out but never closes it.
func (l *Log) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberQueueLen)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	unsubscribe := func() {
		l.mu.Lock()
		delete(l.subs, ch)
		l.mu.Unlock()
	}
	return ch, unsubscribe
}

// Info publishes an Info-kind event with the current wallclock time.
func (l *Log) Info(message string) { l.logger.Info(message) }

// Errorf publishes an Error-kind event with the current wallclock time.
func (l *Log) Errorf(message string) { l.logger.Error(message) }

func (l *Log) publish(kind Kind, message string, attrs map[string]any) {
	evt := Event{Kind: kind, Message: message, Wallclock: l.now().Format("15:04:05"), Attrs: attrs}
	l.mu.Lock()
	chans := make([]chan Event, 0, len(l.subs))
	for ch := range l.subs {
		chans = append(chans, ch)
	}
	l.mu.Unlock()
	for _, ch := range chans {
		tryDeliver(ch, evt)
	}
}

func trySend(ch chan Event, evt Event) bool {
	select {
	case ch <- evt:
		return true
	default:
		return false
	}
}

func drainOne(ch chan Event) {
	select {
	case <-ch:
	default:
	}
}

func tryDeliver(ch chan Event, evt Event) {
	if trySend(ch, evt) {
		return
	}
	drainOne(ch)
	_ = trySend(ch, evt)
}
