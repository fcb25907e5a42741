// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package credential

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

// ErrSimulatedFailure is returned by a [SimulatedUpdater] configured to fail.
var ErrSimulatedFailure = errors.New("credential: simulated update failure")

// Change is a validated credential update ready to be applied.
type Change struct {
	Kind    Kind
	Current string
	Next    string
}

// Updater applies a credential change to the system of record.
type Updater interface {
	Apply(ctx context.Context, change Change) error
}

// UpdaterFunc adapts an ordinary function to [Updater].
type UpdaterFunc func(ctx context.Context, change Change) error

// Apply calls f(ctx, change).
func (f UpdaterFunc) Apply(ctx context.Context, change Change) error {
	return f(ctx, change)
}

// SimulatedUpdater stands in for a remote update: it waits Delay and then
// succeeds, or fails when Fail is set.
type SimulatedUpdater struct {
	Clock clock.Clock
	Delay time.Duration
	Fail  bool
}

// NewSimulatedUpdater returns an always-succeeding updater on the wall clock.
func NewSimulatedUpdater(delay time.Duration) *SimulatedUpdater {
	return &SimulatedUpdater{Clock: clock.New(), Delay: delay}
}

// Apply waits for the configured delay, honoring ctx cancellation.
func (u *SimulatedUpdater) Apply(ctx context.Context, _ Change) error {
	timer := u.Clock.Timer(u.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	if u.Fail {
		return ErrSimulatedFailure
	}
	return nil
}
