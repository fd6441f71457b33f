package domain

import (
	"regexp"
	"strings"

	dErrors "onboard/pkg/domain-errors"
)

// OrganizationFiscalCode is the 11-digit numeric tax code of a legal entity.
type OrganizationFiscalCode string

// PersonalFiscalCode is the 16-character alphanumeric tax code of a person.
type PersonalFiscalCode string

var (
	organizationFiscalCodePattern = regexp.MustCompile(`^[0-9]{11}$`)
	personalFiscalCodePattern     = regexp.MustCompile(`^[A-Z]{6}[0-9LMNPQRSTUV]{2}[ABCDEHLMPRST][0-9LMNPQRSTUV]{2}[A-Z][0-9LMNPQRSTUV]{3}[A-Z]$`)
)

// ParseOrganizationFiscalCode accepts exactly eleven ASCII digits.
func ParseOrganizationFiscalCode(s string) (OrganizationFiscalCode, error) {
	s = strings.TrimSpace(s)
	if !organizationFiscalCodePattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "organization fiscal code must be 11 digits")
	}
	return OrganizationFiscalCode(s), nil
}

// ParsePersonalFiscalCode accepts a 16-character personal code, upper-casing
// the input first. Omocodia substitutions are allowed in the digit positions.
func ParsePersonalFiscalCode(s string) (PersonalFiscalCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !personalFiscalCodePattern.MatchString(s) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid personal fiscal code")
	}
	return PersonalFiscalCode(s), nil
}

func (c OrganizationFiscalCode) String() string { return string(c) }
func (c PersonalFiscalCode) String() string     { return string(c) }
