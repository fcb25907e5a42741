// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/taibuivan/farmreg/internal/dashboard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGreeting_Boundaries(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good Night"},
		{4, "Good Night"},
		{5, "Good Morning"},
		{11, "Good Morning"},
		{12, "Good Afternoon"},
		{16, "Good Afternoon"},
		{17, "Good Evening"},
		{20, "Good Evening"},
		{21, "Good Night"},
		{23, "Good Night"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("hour %d", tt.hour), func(t *testing.T) {
			assert.Equal(t, tt.want, dashboard.Greeting(tt.hour, ""))
		})
	}
}

func TestGreeting_WithName(t *testing.T) {
	assert.Equal(t, "Good Morning, Asha Rao", dashboard.Greeting(9, "Asha Rao"))
	assert.Equal(t, dashboard.Evening, dashboard.BucketFor(18))
}
