package domain

import "errors"

var (
	ErrUpstreamStatus    = errors.New("upstream returned non-success status")
	ErrUnexpectedPayload = errors.New("unexpected upstream payload")
	ErrCacheMiss         = errors.New("project list not cached")
)
