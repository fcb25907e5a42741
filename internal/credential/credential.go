// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package credential implements the credential-change form shared by the
password and user ID screens.

One [Form] type serves both credentials. A [FieldSpec] supplies everything
that differs between them (noun, minimum length, composition rule) and a
[Variant] records whether the form is a dashboard modal or a standalone
panel. Validation and submission are identical across variants.

# Lifecycle

	Open -> SetField* -> Submit -> (success) close delay -> onSuccess, onClose
	                            -> (failure) stays open with an error
	Cancel (when not loading) -> onClose
*/
package credential

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
)

// # Field Specifications

// Kind names the credential a form changes.
type Kind string

const (
	KindPassword Kind = "password"
	KindUserID   Kind = "user-id"
)

// Kinds lists every credential a form can change.
var Kinds = []Kind{KindPassword, KindUserID}

// ParseKind maps a route parameter onto a Kind.
func ParseKind(raw string) (Kind, bool) {
	switch Kind(raw) {
	case KindPassword:
		return KindPassword, true
	case KindUserID:
		return KindUserID, true
	}
	return "", false
}

// FieldSpec parameterizes a form for one credential.
type FieldSpec struct {
	Kind      Kind
	Noun      string // Lower-case display name: "password", "user ID".
	MinLength int

	// Composition turns on the strict character-class rule for new values.
	Composition bool
}

// PasswordSpec is the password form. Composition is off unless enabled
// through [FieldSpec.WithComposition].
var PasswordSpec = FieldSpec{Kind: KindPassword, Noun: "password", MinLength: 6}

// UserIDSpec is the user ID form.
var UserIDSpec = FieldSpec{Kind: KindUserID, Noun: "user ID", MinLength: 3}

// WithComposition returns a copy of spec with the composition rule set.
func (spec FieldSpec) WithComposition(enabled bool) FieldSpec {
	spec.Composition = enabled
	return spec
}

// SpecFor returns the spec of kind with the password composition switch applied.
func SpecFor(kind Kind, strictPassword bool) FieldSpec {
	if kind == KindUserID {
		return UserIDSpec
	}
	return PasswordSpec.WithComposition(strictPassword)
}

// # Messages

const MessageAllRequired = "All fields are required"

func (spec FieldSpec) title() string {
	return strings.ToUpper(spec.Noun[:1]) + spec.Noun[1:]
}

// MinLengthMessage is shown when the new value is too short.
func (spec FieldSpec) MinLengthMessage() string {
	return fmt.Sprintf("New %s must be at least %d characters long", spec.Noun, spec.MinLength)
}

// CompositionMessage is shown when the strict composition rule fails.
func (spec FieldSpec) CompositionMessage() string {
	return fmt.Sprintf("New %s must contain an uppercase letter, a number, and a special character", spec.Noun)
}

// MismatchMessage is shown when the confirmation differs from the new value.
func (spec FieldSpec) MismatchMessage() string {
	return fmt.Sprintf("New %ss do not match", spec.Noun)
}

// UnchangedMessage is shown when the new value equals the current one.
func (spec FieldSpec) UnchangedMessage() string {
	return fmt.Sprintf("New %s must be different from current %s", spec.Noun, spec.Noun)
}

// SuccessMessage is shown inside the form after a successful update.
func (spec FieldSpec) SuccessMessage() string {
	return spec.title() + " changed successfully!"
}

// FailureMessage is shown when the update call fails.
func (spec FieldSpec) FailureMessage() string {
	return fmt.Sprintf("Failed to change %s. Please try again.", spec.Noun)
}

// ToastMessage is the dashboard notification after a successful update.
func (spec FieldSpec) ToastMessage() string {
	return spec.title() + " updated successfully"
}

// # Validation

/*
Validate checks a submission and returns the first failing rule.

Rules run in a fixed order and stop at the first failure. Presence comes
first. Reusing the current value is reported before the length rule, so
resubmitting an unchanged short value says so instead of asking for more
characters. Length, composition (when enabled) and the confirmation match
follow. Once new and confirmation agree, they can only equal the current
value through the second rule.

Parameters:
  - spec: FieldSpec
  - current: string
  - next: string
  - confirm: string

Returns:
  - error: apperr.ValidationError carrying the user-facing message, or nil
*/
func Validate(spec FieldSpec, current, next, confirm string) error {
	switch {
	case current == "" || next == "" || confirm == "":
		return apperr.ValidationError(MessageAllRequired)
	case next == current && confirm == current:
		return apperr.ValidationError(spec.UnchangedMessage())
	case utf8.RuneCountInString(next) < spec.MinLength:
		return apperr.ValidationError(spec.MinLengthMessage())
	case spec.Composition && !composed(next):
		return apperr.ValidationError(spec.CompositionMessage())
	case next != confirm:
		return apperr.ValidationError(spec.MismatchMessage())
	}
	return nil
}

func composed(value string) bool {
	var upper, digit, special bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			special = true
		}
	}
	return upper && digit && special
}
