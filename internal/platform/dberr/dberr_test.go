// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), http.StatusNotFound, "NOT_FOUND"},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, http.StatusConflict, "CONFLICT"},
		{"dangling reference", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, http.StatusNotFound, "NOT_FOUND"},
		{"check violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.CheckViolation}), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := apperr.As(dberr.Wrap(tt.err, "User"))
			if assert.NotNil(t, appErr) {
				assert.Equal(t, tt.status, appErr.HTTPStatus)
				assert.Equal(t, tt.code, appErr.Code)
			}
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "User"))
	assert.Equal(t, "User not found", dberr.Wrap(pgx.ErrNoRows, "User").Error())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, dberr.IsUniqueViolation(fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, dberr.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain")))
}
