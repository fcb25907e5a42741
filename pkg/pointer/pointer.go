// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer builds pointers for optional fields such as patch
// payloads and nullable columns.
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}
