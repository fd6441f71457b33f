package service

import (
	"fmt"
	"strings"

	"onboard/internal/organization/models"
	"onboard/pkg/requestcontext"
)

// RepresentativePolicy decides who may be named as legal representative.
type RepresentativePolicy string

const (
	// PolicyAnyRepresentative lets a caller register on behalf of someone else.
	PolicyAnyRepresentative RepresentativePolicy = "any"
	// PolicyCallerIsRepresentative requires the representative to be the caller.
	PolicyCallerIsRepresentative RepresentativePolicy = "caller"
)

// ParseRepresentativePolicy accepts "any" or "caller". Empty means "any".
func ParseRepresentativePolicy(s string) (RepresentativePolicy, error) {
	switch p := RepresentativePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyAnyRepresentative, nil
	case PolicyAnyRepresentative, PolicyCallerIsRepresentative:
		return p, nil
	default:
		return "", fmt.Errorf("unknown representative policy %q", s)
	}
}

// permits reports whether caller may name rep as legal representative.
func (p RepresentativePolicy) permits(caller requestcontext.Caller, rep models.RepresentativeParams) bool {
	if p != PolicyCallerIsRepresentative {
		return true
	}
	return caller.FiscalCode != "" && strings.EqualFold(string(caller.FiscalCode), rep.FiscalCode)
}
