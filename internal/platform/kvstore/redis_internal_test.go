// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kvstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKeyLayout(t *testing.T) {
	assert.Equal(t, "farmreg:profile:p1:token", slotKey("p1", "token"))
	assert.Equal(t, "farmreg:profile:p1:session", sessionKey("p1"))
}
