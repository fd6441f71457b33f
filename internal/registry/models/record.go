package models

import "strings"

// ContactSlots is the number of labelled contact entries a registry record carries.
const ContactSlots = 5

// ContactKind distinguishes certified institutional mailboxes from ordinary ones.
type ContactKind string

const (
	ContactKindCertified ContactKind = "pec"
	ContactKindOrdinary  ContactKind = "altro"
)

// ParseContactKind maps the registry literal to a kind. Unknown or empty
// literals read as ordinary.
func ParseContactKind(s string) ContactKind {
	if strings.EqualFold(strings.TrimSpace(s), string(ContactKindCertified)) {
		return ContactKindCertified
	}
	return ContactKindOrdinary
}

// Contact is one labelled contact slot of a registry record.
type Contact struct {
	Label   string      `json:"label"`
	Address string      `json:"address"`
	Kind    ContactKind `json:"kind"`
}

// IsEmpty reports whether the slot holds no address.
func (c Contact) IsEmpty() bool {
	return c.Address == ""
}

// IsCertified reports whether the slot holds a certified address.
func (c Contact) IsCertified() bool {
	return !c.IsEmpty() && c.Kind == ContactKindCertified
}

// Manager is the person the registry lists as responsible for the entity.
type Manager struct {
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Title      string `json:"title"`
}

// Record is a read-only snapshot of a public-administration registry entry.
// Code is the registry's unique key.
type Record struct {
	Code                string                `json:"code"`
	FiscalCode          string                `json:"fiscal_code"`
	FiscalCodeValidated bool                  `json:"fiscal_code_validated"`
	Name                string                `json:"name"`
	Manager             Manager               `json:"manager"`
	Contacts            [ContactSlots]Contact `json:"contacts"`
}

// ContactLabel returns the label of the slot at index i (0-based).
func ContactLabel(i int) string {
	return string(rune('1' + i))
}

// Contact returns the slot for label, or false when the label names no slot.
func (r *Record) Contact(label string) (Contact, bool) {
	for _, c := range r.Contacts {
		if c.Label == label {
			return c, true
		}
	}
	return Contact{}, false
}

// HasCertifiedContact reports whether any slot holds a certified address.
func (r *Record) HasCertifiedContact() bool {
	for _, c := range r.Contacts {
		if c.IsCertified() {
			return true
		}
	}
	return false
}

// NormalizeAddress maps the registry's "null" placeholder to empty.
func NormalizeAddress(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

// NewContacts builds the five labelled slots from parallel address/kind
// columns as stored by the registry.
func NewContacts(addresses, kinds [ContactSlots]string) [ContactSlots]Contact {
	var contacts [ContactSlots]Contact
	for i := range contacts {
		addr := NormalizeAddress(addresses[i])
		kind := ContactKindOrdinary
		if addr != "" {
			kind = ParseContactKind(kinds[i])
		}
		contacts[i] = Contact{Label: ContactLabel(i), Address: addr, Kind: kind}
	}
	return contacts
}
