// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dashboard serves the role-specific dashboard screens.

A dashboard greets the signed-in user by time of day, shows the registry
profile with KYC assignments and recent activity, and hosts the password
and user ID change modals. A toast confirms a successful change and
dismisses itself after a fixed duration.

# Architecture

  - Screen: Per-profile state (modal flags, forms, toast).
  - Screens: Bounded registry of Screen instances keyed by profile and account.
  - Handler: Guarded chi routes rendering JSON view models.
*/
package dashboard

// # Greeting

// Bucket is a part of the day.
type Bucket string

const (
	Morning   Bucket = "Morning"
	Afternoon Bucket = "Afternoon"
	Evening   Bucket = "Evening"
	Night     Bucket = "Night"
)

// BucketFor maps an hour of the day (0-23) to its bucket.
func BucketFor(hour int) Bucket {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 17:
		return Afternoon
	case hour >= 17 && hour < 21:
		return Evening
	default:
		return Night
	}
}

// Greeting renders "Good <bucket>, <name>", or "Good <bucket>" without a name.
func Greeting(hour int, name string) string {
	greeting := "Good " + string(BucketFor(hour))
	if name == "" {
		return greeting
	}
	return greeting + ", " + name
}
