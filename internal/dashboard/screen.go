// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/platform/apperr"
)

// # Screen State

// Toast is a transient notification.
type Toast struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Fields carries the three inputs of a submission.
type Fields struct {
	Current string
	Next    string
	Confirm string
}

// ModalView is the rendered state of one modal.
type ModalView struct {
	Open bool             `json:"open"`
	Form credential.State `json:"form"`
}

// ScreenView is the rendered state of a [Screen].
type ScreenView struct {
	Modals map[credential.Kind]ModalView `json:"modals"`
	Toast  *Toast                        `json:"toast"`
}

// ScreenOptions configures timing and validation of a [Screen].
type ScreenOptions struct {
	Clock             clock.Clock
	CloseDelay        time.Duration
	ToastDuration     time.Duration
	StrictComposition bool
}

// Screen is the dashboard state of one browser profile: the two modal
// forms with their visibility flags, the standalone panel forms, and the
// toast.
type Screen struct {
	clock         clock.Clock
	toastDuration time.Duration

	modals map[credential.Kind]*credential.Form
	panels map[credential.Kind]*credential.Form

	mu         sync.Mutex
	open       map[credential.Kind]bool
	toast      *Toast
	toastTimer *clock.Timer
}

// NewScreen builds a screen whose forms apply changes through updater.
func NewScreen(updater credential.Updater, options ScreenOptions) *Screen {
	if options.Clock == nil {
		options.Clock = clock.New()
	}

	screen := &Screen{
		clock:         options.Clock,
		toastDuration: options.ToastDuration,
		modals:        make(map[credential.Kind]*credential.Form, 2),
		panels:        make(map[credential.Kind]*credential.Form, 2),
		open:          make(map[credential.Kind]bool, 2),
	}

	for _, kind := range credential.Kinds {
		spec := credential.SpecFor(kind, options.StrictComposition)

		screen.modals[kind] = credential.NewForm(spec, credential.VariantModal, updater, credential.Options{
			Clock:      options.Clock,
			CloseDelay: options.CloseDelay,
			OnSuccess:  func() { screen.showToast(spec.ToastMessage()) },
			OnClose:    func() { screen.setOpen(kind, false) },
		})

		screen.panels[kind] = credential.NewForm(spec, credential.VariantPanel, updater, credential.Options{
			Clock:      options.Clock,
			CloseDelay: options.CloseDelay,
		})
	}

	return screen
}

func (screen *Screen) modal(kind credential.Kind) (*credential.Form, error) {
	form, ok := screen.modals[kind]
	if !ok {
		return nil, apperr.NotFound("Modal")
	}
	return form, nil
}

// OpenModal shows the modal of kind with empty fields.
func (screen *Screen) OpenModal(kind credential.Kind) error {
	form, err := screen.modal(kind)
	if err != nil {
		return err
	}

	form.Open()
	screen.setOpen(kind, true)
	return nil
}

// CloseModal dismisses the modal of kind. It reports false while the
// modal's submission is still running.
func (screen *Screen) CloseModal(kind credential.Kind) (bool, error) {
	form, err := screen.modal(kind)
	if err != nil {
		return false, err
	}
	return form.Cancel(), nil
}

/*
SubmitModal fills the modal of kind and submits it.

Parameters:
  - ctx: context.Context (Passed to the updater)
  - kind: credential.Kind
  - fields: Fields

Returns:
  - credential.State: The modal's state after the submission settled
  - error: NotFound for an unknown kind, Conflict when the modal is closed
*/
func (screen *Screen) SubmitModal(ctx context.Context, kind credential.Kind, fields Fields) (credential.State, error) {
	form, err := screen.modal(kind)
	if err != nil {
		return credential.State{}, err
	}

	if !screen.isOpen(kind) {
		return credential.State{}, apperr.Conflict("The form is not open")
	}

	return submit(ctx, form, fields), nil
}

// Panel returns the standalone form of kind.
func (screen *Screen) Panel(kind credential.Kind) (*credential.Form, error) {
	form, ok := screen.panels[kind]
	if !ok {
		return nil, apperr.NotFound("Form")
	}
	return form, nil
}

// SubmitPanel fills the standalone form of kind and submits it. A close
// left pending by an earlier success is completed first, so every POST is
// validated and applied on its own.
func (screen *Screen) SubmitPanel(ctx context.Context, kind credential.Kind, fields Fields) (credential.State, error) {
	form, err := screen.Panel(kind)
	if err != nil {
		return credential.State{}, err
	}

	form.Flush()
	form.Open()
	return submit(ctx, form, fields), nil
}

func submit(ctx context.Context, form *credential.Form, fields Fields) credential.State {
	form.SetField(credential.FieldCurrent, fields.Current)
	form.SetField(credential.FieldNext, fields.Next)
	form.SetField(credential.FieldConfirm, fields.Confirm)
	return form.Submit(ctx)
}

// View renders the modal flags, form states and toast.
func (screen *Screen) View() ScreenView {
	view := ScreenView{Modals: make(map[credential.Kind]ModalView, len(screen.modals))}

	screen.mu.Lock()
	for kind := range screen.modals {
		view.Modals[kind] = ModalView{Open: screen.open[kind]}
	}
	if screen.toast != nil {
		toast := *screen.toast
		view.Toast = &toast
	}
	screen.mu.Unlock()

	for kind, form := range screen.modals {
		modal := view.Modals[kind]
		modal.Form = form.State()
		view.Modals[kind] = modal
	}
	return view
}

// Stop cancels every pending timer without running callbacks.
func (screen *Screen) Stop() {
	for _, form := range screen.modals {
		form.Stop()
	}
	for _, form := range screen.panels {
		form.Stop()
	}

	screen.mu.Lock()
	defer screen.mu.Unlock()
	if screen.toastTimer != nil {
		screen.toastTimer.Stop()
		screen.toastTimer = nil
	}
}

// # Internal State

func (screen *Screen) setOpen(kind credential.Kind, open bool) {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	screen.open[kind] = open
}

func (screen *Screen) isOpen(kind credential.Kind) bool {
	screen.mu.Lock()
	defer screen.mu.Unlock()
	return screen.open[kind]
}

// showToast replaces the current toast and restarts its dismissal timer.
func (screen *Screen) showToast(message string) {
	screen.mu.Lock()
	defer screen.mu.Unlock()

	if screen.toastTimer != nil {
		screen.toastTimer.Stop()
	}

	toast := &Toast{Message: message, ExpiresAt: screen.clock.Now().Add(screen.toastDuration)}
	screen.toast = toast
	screen.toastTimer = screen.clock.AfterFunc(screen.toastDuration, func() {
		screen.mu.Lock()
		defer screen.mu.Unlock()

		// A newer toast owns the slot now
		if screen.toast == toast {
			screen.toast = nil
			screen.toastTimer = nil
		}
	})
}
