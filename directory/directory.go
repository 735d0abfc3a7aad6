// Package directory defines the contact-lookup boundary used to resolve
// attendee email addresses against the owning application's address book.
package directory

// Contact is a known address-book entry.
type Contact struct {
	DisplayName string
	ID          int64
	Email       string
}

// Directory resolves email addresses to known contacts. Implementations must
// be safe for concurrent reads; lookups are expected to be in-memory or
// cached, not network round-trips.
type Directory interface {
	// LookupByEmail returns the contact for an email address, or false when
	// no match exists.
	LookupByEmail(email string) (*Contact, bool)
}
