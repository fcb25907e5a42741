// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/farmreg/internal/platform/constants"
)

func TestNewPoolConfig(t *testing.T) {
	poolConfig, err := newPoolConfig("postgres://farmreg:farmreg@db:5432/farmreg?sslmode=disable")
	require.NoError(t, err)

	assert.Equal(t, int32(maxConns), poolConfig.MaxConns)
	assert.Equal(t, int32(minConns), poolConfig.MinConns)
	assert.Equal(t, "db", poolConfig.ConnConfig.Host)
	assert.Equal(t, constants.AppName, poolConfig.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, poolConfig.AfterConnect)
}

func TestNewPoolConfig_KeepsExplicitApplicationName(t *testing.T) {
	poolConfig, err := newPoolConfig("postgres://db/farmreg?application_name=reporting")
	require.NoError(t, err)

	assert.Equal(t, "reporting", poolConfig.ConnConfig.RuntimeParams["application_name"])
}

func TestNewPoolConfig_InvalidDSN(t *testing.T) {
	_, err := newPoolConfig("postgres://db:notaport/farmreg")
	assert.Error(t, err)
}
