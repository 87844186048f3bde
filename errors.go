package stv

import (
	"errors"
	"fmt"
)

// The four disjoint failure categories a count can raise. Exactly one
// sentinel is ever wrapped per error; errors.Is against these still works
// through the usual unwrap chain.
var (
	ErrUsage      = errors.New("usage error")
	ErrProfile    = errors.New("profile error")
	ErrArithmetic = errors.New("arithmetic error")
	ErrElection   = errors.New("election error")
)

// countError pairs a sentinel with a formatted message and exposes Type(),
// mirroring the errTyped interface{ Type() string } convention the caller
// side of this kind of error is expected to switch on.
type countError struct {
	sentinel error
	kind     string
	msg      string
}

func (e countError) Error() string { return e.msg }
func (e countError) Unwrap() error { return e.sentinel }
func (e countError) Type() string  { return e.kind }

func usageErrorf(format string, a ...any) error {
	return countError{ErrUsage, "usage", fmt.Sprintf(format, a...)}
}

func profileErrorf(format string, a ...any) error {
	return countError{ErrProfile, "profile", fmt.Sprintf(format, a...)}
}

func arithmeticErrorf(format string, a ...any) error {
	return countError{ErrArithmetic, "arithmetic", fmt.Sprintf(format, a...)}
}

func electionErrorf(format string, a ...any) error {
	return countError{ErrElection, "election", fmt.Sprintf(format, a...)}
}
