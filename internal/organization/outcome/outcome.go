// Package outcome defines the closed set of results a registration can end in.
//
// Outcome is sealed: only this package can add kinds, and every kind is
// dispatched through Visitor. Adding a kind adds a Visitor method, so every
// consumer stops compiling until it handles the new case.
package outcome

import (
	"onboard/internal/organization/models"
)

// Kind names an outcome for logs and metric labels.
type Kind string

const (
	KindRegistered Kind = "registered"
	KindNotFound   Kind = "not_found"
	KindInternal   Kind = "internal"
	KindConflict   Kind = "conflict"
	KindRejected   Kind = "rejected"
)

// Outcome is the terminal result of a registration.
type Outcome interface {
	Kind() Kind
	accept(v visitor)
}

// Visitor handles every outcome kind.
type Visitor[R any] interface {
	Registered(o Registered) R
	NotFound(o NotFound) R
	Internal(o Internal) R
	Conflict(o Conflict) R
	Rejected(o Rejected) R
}

// Registered carries the created organization.
type Registered struct {
	Organization *models.Organization
}

// NotFound means the registry has no record for Code.
type NotFound struct {
	Code string
}

// Internal means registration could not proceed for reasons outside the
// caller's control. Cause stays server-side.
type Internal struct {
	Code  string
	Cause error
}

// Conflict means an organization for Code already exists.
type Conflict struct {
	Code string
}

// Rejected means the caller's input was invalid. Reason is safe to return.
type Rejected struct {
	Reason string
}

func (Registered) Kind() Kind { return KindRegistered }
func (NotFound) Kind() Kind   { return KindNotFound }
func (Internal) Kind() Kind   { return KindInternal }
func (Conflict) Kind() Kind   { return KindConflict }
func (Rejected) Kind() Kind   { return KindRejected }

// visitor erases the result type so Outcome stays non-generic.
type visitor interface {
	registered(o Registered)
	notFound(o NotFound)
	internal(o Internal)
	conflict(o Conflict)
	rejected(o Rejected)
}

func (o Registered) accept(v visitor) { v.registered(o) }
func (o NotFound) accept(v visitor)   { v.notFound(o) }
func (o Internal) accept(v visitor)   { v.internal(o) }
func (o Conflict) accept(v visitor)   { v.conflict(o) }
func (o Rejected) accept(v visitor)   { v.rejected(o) }

type adapter[R any] struct {
	v      Visitor[R]
	result R
}

func (a *adapter[R]) registered(o Registered) { a.result = a.v.Registered(o) }
func (a *adapter[R]) notFound(o NotFound)     { a.result = a.v.NotFound(o) }
func (a *adapter[R]) internal(o Internal)     { a.result = a.v.Internal(o) }
func (a *adapter[R]) conflict(o Conflict)     { a.result = a.v.Conflict(o) }
func (a *adapter[R]) rejected(o Rejected)     { a.result = a.v.Rejected(o) }

// Match dispatches o to the matching Visitor method. It panics on a nil
// outcome.
func Match[R any](o Outcome, v Visitor[R]) R {
	if o == nil {
		panic("outcome: nil outcome")
	}
	a := &adapter[R]{v: v}
	o.accept(a)
	return a.result
}
