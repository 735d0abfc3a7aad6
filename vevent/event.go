// Package vevent converts between internal calendar event records and the
// iCalendar VEVENT wire format (RFC 5545).
//
// Conversion is bidirectional and best-effort: exporting a record always
// produces a VEVENT, importing a VEVENT always produces a (possibly partially
// populated) record. Individual properties are converted independently so
// that one malformed property from a third-party client never fails the
// whole event.
package vevent

import (
	"time"

	"icalbridge/directory"
)

// RFC 5545 participation status tokens (PARTSTAT).
const (
	StatusNeedsAction = "NEEDS-ACTION"
	StatusAccepted    = "ACCEPTED"
	StatusDeclined    = "DECLINED"
	StatusTentative   = "TENTATIVE"
	StatusDelegated   = "DELEGATED"
	StatusCompleted   = "COMPLETED"
	StatusInProcess   = "IN-PROCESS"
)

// RFC 5545 calendar user type (CUTYPE) and role (ROLE) tokens used as
// defaults.
const (
	UserTypeIndividual = "INDIVIDUAL"
	RoleRequired       = "REQ-PARTICIPANT"
	RoleChair          = "CHAIR"
)

// TransparencyOpaque is the only transparency this subsystem emits.
const TransparencyOpaque = "OPAQUE"

// ReminderUnit is the unit of a reminder duration.
type ReminderUnit string

const (
	UnitMinutes ReminderUnit = "minutes"
	UnitHours   ReminderUnit = "hours"
	UnitDays    ReminderUnit = "days"
)

// ReminderAction is the kind of notification a reminder produces.
type ReminderAction string

const (
	// ActionDisplay is a visual-only reminder.
	ActionDisplay ReminderAction = "display"
	// ActionAudioDisplay is a visual reminder with a sound.
	ActionAudioDisplay ReminderAction = "audio-display"
)

// Reminder describes an alarm firing before the event start. A reminder with
// an empty unit or action is invalid and treated as absent.
type Reminder struct {
	Value  int
	Unit   ReminderUnit
	Action ReminderAction
}

// Identity describes the local creator of an event. It is consulted only to
// decide organizer ownership and to synthesize the ORGANIZER line for owned
// events.
type Identity struct {
	Username    string
	DisplayName string
	Email       string
}

// Attendee is one participant of an event.
type Attendee struct {
	// ID is negative for attendees freshly constructed during an import;
	// persisted attendees carry positive ids assigned by the owning
	// application.
	ID int64

	// Contact is set when the attendee's address resolved against the
	// directory; Address is the raw calendar address fallback.
	Contact *directory.Contact
	Address string

	CommonName string
	Role       string
	UserType   string
	// Status is an RFC 5545 PARTSTAT token; empty means no status known.
	Status string
	// RSVP is nil unless the reply-requested flag was explicitly set.
	RSVP *bool

	// ExtraParams is the free-form parameter tail (vendor extensions)
	// preserved for round-trip fidelity, in internal/params form.
	ExtraParams string
}

// Event is the internal calendar event record exchanged with the VEVENT wire
// format. The converter mutates an Event in place when importing and only
// reads it when exporting; it never persists one.
type Event struct {
	UID      string
	Sequence int

	Start    time.Time
	End      time.Time
	AllDay   bool
	Timezone string // IANA identifier; meaningful for timed events only

	Summary      string
	Description  string
	Location     string
	Transparency string

	// RecurrenceRule is RRULE text in wire grammar; empty means the event
	// does not recur.
	RecurrenceRule string
	// ExceptionDates is a comma-joined list of excluded instants normalized
	// to UTC: bare dates (2006-01-02) for all-day events, RFC 3339 Z-suffixed
	// date-times for timed events.
	ExceptionDates string
	// RecurrenceID is set when this record overrides one occurrence of a
	// recurring series.
	RecurrenceID *time.Time

	// Reminder is nil when the event has no alarm.
	Reminder *Reminder

	// Organizer is the raw organizer calendar address as received;
	// OrganizerParams is its preserved parameter tail. Owned, not Organizer,
	// is authoritative for whether the local party may edit the series.
	Organizer       string
	OrganizerParams string
	Owned           bool

	Attendees []*Attendee

	Created      time.Time
	LastModified time.Time

	Creator Identity
}
