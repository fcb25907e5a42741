// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package credential

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Variant is the presentation of a form.
type Variant string

const (
	VariantModal Variant = "modal"
	VariantPanel Variant = "panel"
)

// Field identifies one of the three inputs of a form.
type Field string

const (
	FieldCurrent Field = "current"
	FieldNext    Field = "new"
	FieldConfirm Field = "confirm"
)

// State is the observable state of a form instance. Field values stay on
// the server and are never rendered.
type State struct {
	Open    bool   `json:"open"`
	Current string `json:"-"`
	Next    string `json:"-"`
	Confirm string `json:"-"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

// Options configures a [Form].
type Options struct {
	Clock      clock.Clock   // Defaults to the wall clock.
	CloseDelay time.Duration // Pause between success and close.
	OnSuccess  func()
	OnClose    func()
}

// Form is one credential-change form instance.
//
// Callbacks always run without the form lock held, so they may call back
// into the form or its host.
type Form struct {
	spec    FieldSpec
	variant Variant
	updater Updater

	clock      clock.Clock
	closeDelay time.Duration
	onSuccess  func()
	onClose    func()

	mu         sync.Mutex
	state      State
	closeTimer *clock.Timer
}

// NewForm builds a closed form for spec.
func NewForm(spec FieldSpec, variant Variant, updater Updater, options Options) *Form {
	form := &Form{
		spec:       spec,
		variant:    variant,
		updater:    updater,
		clock:      options.Clock,
		closeDelay: options.CloseDelay,
		onSuccess:  options.OnSuccess,
		onClose:    options.OnClose,
	}
	if form.clock == nil {
		form.clock = clock.New()
	}
	return form
}

// Spec returns the field specification of the form.
func (f *Form) Spec() FieldSpec { return f.spec }

// Variant returns the presentation of the form.
func (f *Form) Variant() Variant { return f.variant }

// State returns a copy of the current state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Open resets the form to empty fields and shows it. A form that is
// loading or waiting to close is left as is.
func (f *Form) Open() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Loading || f.closeTimer != nil {
		return
	}
	f.state = State{Open: true}
}

// SetField records user input. Input is ignored while a submission runs
// and while a successful form waits to close.
func (f *Form) SetField(field Field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Loading || f.closeTimer != nil {
		return
	}

	switch field {
	case FieldCurrent:
		f.state.Current = value
	case FieldNext:
		f.state.Next = value
	case FieldConfirm:
		f.state.Confirm = value
	}
}

/*
Submit validates the fields and applies the change.

Description: Validation failures set the error and return immediately. A
valid submission sets loading, calls the updater without holding the lock,
and then records the outcome. On success the fields are cleared and the
close sequence is scheduled after the close delay. Loading is always
cleared before Submit returns.

Parameters:
  - ctx: context.Context (Passed to the updater)

Returns:
  - State: The state after the submission settled
*/
func (f *Form) Submit(ctx context.Context) State {
	f.mu.Lock()
	if f.state.Loading || f.closeTimer != nil {
		state := f.state
		f.mu.Unlock()
		return state
	}

	f.state.Error = ""
	f.state.Success = ""
	if err := Validate(f.spec, f.state.Current, f.state.Next, f.state.Confirm); err != nil {
		f.state.Error = err.Error()
		state := f.state
		f.mu.Unlock()
		return state
	}

	change := Change{Kind: f.spec.Kind, Current: f.state.Current, Next: f.state.Next}
	f.state.Loading = true
	f.mu.Unlock()

	err := f.updater.Apply(ctx, change)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Loading = false
	if err != nil {
		f.state.Error = f.spec.FailureMessage()
		return f.state
	}

	f.state.Success = f.spec.SuccessMessage()
	f.state.Current, f.state.Next, f.state.Confirm = "", "", ""
	f.closeTimer = f.clock.AfterFunc(f.closeDelay, f.finish)
	return f.state
}

/*
Cancel dismisses the form.

Description: While a submission is loading, Cancel does nothing and
returns false. A form waiting out its close delay completes immediately.
Otherwise the fields and messages are cleared and onClose runs.

Returns:
  - bool: Whether the form was dismissed
*/
func (f *Form) Cancel() bool {
	f.mu.Lock()
	if f.state.Loading {
		f.mu.Unlock()
		return false
	}

	if f.closeTimer != nil {
		pending := f.closeTimer.Stop()
		f.mu.Unlock()
		if pending {
			f.finish()
		}
		return true
	}

	f.state = State{}
	f.mu.Unlock()

	if f.onClose != nil {
		f.onClose()
	}
	return true
}

// Flush runs a pending close sequence now. It reports whether one was
// pending.
func (f *Form) Flush() bool {
	f.mu.Lock()
	pending := f.closeTimer != nil
	if pending {
		f.closeTimer.Stop()
	}
	f.mu.Unlock()

	// finish runs its sequence once even if the timer fired meanwhile
	if pending {
		f.finish()
	}
	return pending
}

// Stop cancels a pending close without running the callbacks. Hosts call it
// when the form is being discarded.
func (f *Form) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
	}
}

// finish runs the close sequence once: onSuccess, then onClose.
func (f *Form) finish() {
	f.mu.Lock()
	if f.closeTimer == nil {
		f.mu.Unlock()
		return
	}
	f.closeTimer = nil
	f.state = State{}
	f.mu.Unlock()

	if f.onSuccess != nil {
		f.onSuccess()
	}
	if f.onClose != nil {
		f.onClose()
	}
}
