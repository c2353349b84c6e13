package models

import (
	"net/http"
	"strings"
	"time"
)

// Class groups endpoints that share a request budget.
type Class string

const (
	// ClassAuth covers login and registration, counted on every method.
	ClassAuth Class = "auth"
	// ClassWrite covers checkout, reviews and subscriptions. Reads are free.
	ClassWrite Class = "write"
)

// Counts reports whether a request with method consumes budget in c.
func (c Class) Counts(method string) bool {
	if c == ClassAuth {
		return true
	}
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// Limit is a sliding-window budget.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Result is the outcome of one check.
type Result struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"`
	Degraded   bool      `json:"-"`
}

// Key builds the bucket key for a client within a class. Colons in the
// identifier are escaped so a crafted value cannot address another bucket.
func Key(class Class, identifier string) string {
	return "ratelimit:" + string(class) + ":" + strings.ReplaceAll(identifier, ":", "_")
}

// ExceededResponse is the 429 body.
type ExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
