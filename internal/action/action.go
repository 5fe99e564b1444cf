// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package action implements the Action Program's tagged command values:
// their in-memory shape, wire encoding, and display form.
package action

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which variant of Action a value holds.
type Kind uint8

// The seven kinds an Action program can be built from.
const (
	SetHighKind Kind = iota
	SetLowKind
	DelayKind
	WaitForHighKind
	WaitForLowKind
	SetPullUpKind
	SetPullDownKind
)

var kindWireName = [...]string{
	SetHighKind:     "SetHigh",
	SetLowKind:      "SetLow",
	DelayKind:       "Delay",
	WaitForHighKind: "WaitForHigh",
	WaitForLowKind:  "WaitForLow",
	SetPullUpKind:   "SetPullUp",
	SetPullDownKind: "SetPullDown",
}

func (k Kind) String() string {
	if int(k) < len(kindWireName) {
		return kindWireName[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Action is a single step of an Action Program: a kind plus its one
// integer argument. For SetHigh/SetLow/WaitForHigh/WaitForLow/SetPullUp/
// SetPullDown the argument is a pin number, validated at execution time
// rather than here. For Delay it is a millisecond count.
type Action struct {
	Kind  Kind
	Value int
}

// SetHigh, SetLow, Delay, WaitForHigh, WaitForLow, SetPullUp and
// SetPullDown are the constructors for each Action kind.
func SetHigh(pin int) Action      { return Action{Kind: SetHighKind, Value: pin} }
func SetLow(pin int) Action       { return Action{Kind: SetLowKind, Value: pin} }
func Delay(ms int) Action         { return Action{Kind: DelayKind, Value: ms} }
func WaitForHigh(pin int) Action  { return Action{Kind: WaitForHighKind, Value: pin} }
func WaitForLow(pin int) Action   { return Action{Kind: WaitForLowKind, Value: pin} }
func SetPullUp(pin int) Action    { return Action{Kind: SetPullUpKind, Value: pin} }
func SetPullDown(pin int) Action  { return Action{Kind: SetPullDownKind, Value: pin} }

// String renders an Action the way a program listing in the UI would,
// e.g. "SetHigh(17)" or "Delay(250ms)".
func (a Action) String() string {
	if a.Kind == DelayKind {
		return fmt.Sprintf("Delay(%dms)", a.Value)
	}
	return fmt.Sprintf("%s(%d)", a.Kind, a.Value)
}

// MarshalJSON writes the single-key tagged shape spec.md §6 requires,
// e.g. {"SetHigh": 17}.
func (a Action) MarshalJSON() ([]byte, error) {
	if int(a.Kind) >= len(kindWireName) {
		return nil, fmt.Errorf("action: unknown kind %d", a.Kind)
	}
	return json.Marshal(map[string]int{kindWireName[a.Kind]: a.Value})
}

// UnmarshalJSON parses the single-key tagged shape. A payload with zero
// or more than one key, or an unrecognized key, is an error.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("action: expected exactly one key, got %d", len(raw))
	}
	for name, value := range raw {
		for k, wire := range kindWireName {
			if wire == name {
				a.Kind = Kind(k)
				a.Value = value
				return nil
			}
		}
		return fmt.Errorf("action: unknown action kind %q", name)
	}
	return nil
}

// ParseKind maps the external wire names used by add-action
// (set-high, set-low, delay, wait-for-high, wait-for-low, set-pull-up,
// set-pull-down) from spec.md §6 to a Kind.
func ParseKind(actionType string) (Kind, error) {
	switch actionType {
	case "set-high":
		return SetHighKind, nil
	case "set-low":
		return SetLowKind, nil
	case "delay":
		return DelayKind, nil
	case "wait-for-high":
		return WaitForHighKind, nil
	case "wait-for-low":
		return WaitForLowKind, nil
	case "set-pull-up":
		return SetPullUpKind, nil
	case "set-pull-down":
		return SetPullDownKind, nil
	default:
		return 0, fmt.Errorf("action: unknown action_type %q", actionType)
	}
}
