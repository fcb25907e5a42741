// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import (
	"net/url"
	"strings"
)

// List collects every value of key. Repeated parameters (?kyc=a&kyc=b) and
// comma separated ones (?kyc=a,b) are both accepted; blank entries are dropped.
func List(values url.Values, key string) []string {
	var result []string
	for _, raw := range values[key] {
		for _, item := range strings.Split(raw, ",") {
			if clean := strings.TrimSpace(item); clean != "" {
				result = append(result, clean)
			}
		}
	}
	return result
}
