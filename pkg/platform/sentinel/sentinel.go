package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into outcomes or coded errors.
//
//   - ErrNotFound: no row for the requested key
//   - ErrAlreadyUsed: a unique key is already taken (enforced at write time)
//   - ErrExpired: session or token past its lifetime
//   - ErrUnavailable: backing store temporarily unreachable
//
// Input validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
