// Package models holds the rate limiting domain types.
package models

import (
	"fmt"
	"time"
)

// EndpointClass categorizes endpoints for differentiated rate limiting.
type EndpointClass string

const (
	// ClassBroad applies to every request (15 min window by default).
	ClassBroad EndpointClass = "broad"
	// ClassMutating applies additionally to registration and upload
	// endpoints (1 h window by default).
	ClassMutating EndpointClass = "mutating"
)

// IsValid checks if the endpoint class is one of the supported values.
func (c EndpointClass) IsValid() bool {
	return c == ClassBroad || c == ClassMutating
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
}

// BucketKey builds the store key for an identity and endpoint class.
func BucketKey(identity string, class EndpointClass) string {
	return fmt.Sprintf("ratelimit:%s:%s", class, identity)
}
