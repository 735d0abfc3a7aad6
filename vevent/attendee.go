package vevent

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"

	"icalbridge/directory"
	"icalbridge/internal/params"
)

// RFC 5545 parameters this subsystem models explicitly. Everything else on
// an ATTENDEE or ORGANIZER line goes through the free-form tail.
const (
	paramCommonName = "CN"
	paramUserType   = "CUTYPE"
	paramPartStat   = "PARTSTAT"
	paramRSVP       = "RSVP"
	paramRole       = "ROLE"
	paramEmail      = "EMAIL"
)

// attendeeModeledParams are excluded from the free-form tail on import to
// avoid duplicating explicitly modeled fields.
var attendeeModeledParams = map[string]bool{
	paramCommonName: true,
	paramUserType:   true,
	paramPartStat:   true,
	paramRSVP:       true,
	paramRole:       true,
}

var participationStatuses = map[string]string{
	StatusNeedsAction: StatusNeedsAction,
	StatusAccepted:    StatusAccepted,
	StatusDeclined:    StatusDeclined,
	StatusTentative:   StatusTentative,
	StatusDelegated:   StatusDelegated,
	StatusCompleted:   StatusCompleted,
	StatusInProcess:   StatusInProcess,
}

type attendeeConverter struct {
	dir directory.Directory
}

func (attendeeConverter) name() string { return ical.PropAttendee }

func (c *attendeeConverter) toWire(ev *Event) mo.Option[wireOutput] {
	if len(ev.Attendees) == 0 {
		return mo.None[wireOutput]()
	}

	props := make([]*ical.Prop, 0, len(ev.Attendees))
	for _, att := range ev.Attendees {
		prop := ical.NewProp(ical.PropAttendee)
		prop.Value = calendarAddress(att.Address)

		cn := att.CommonName
		if att.Contact != nil && att.Contact.DisplayName != "" {
			cn = att.Contact.DisplayName
		}
		if cn == "" {
			cn = att.Address
		}
		prop.Params.Set(paramCommonName, cn)

		userType := att.UserType
		if userType == "" {
			userType = UserTypeIndividual
		}
		prop.Params.Set(paramUserType, userType)

		role := att.Role
		if role == "" {
			role = RoleRequired
		}
		prop.Params.Set(paramRole, role)

		if att.RSVP != nil {
			value := "FALSE"
			if *att.RSVP {
				value = "TRUE"
			}
			prop.Params.Set(paramRSVP, value)
		}

		status := att.Status
		if status == "" {
			status = StatusNeedsAction
		}
		prop.Params.Set(paramPartStat, status)

		applyParamTail(prop, att.ExtraParams)

		props = append(props, prop)
	}

	return propsOutput(props...)
}

func (c *attendeeConverter) fromWire(ev *Event, comp *ical.Component, st *importState) bool {
	entries := comp.Props[ical.PropAttendee]
	if len(entries) == 0 {
		return false
	}

	attendees := make([]*Attendee, 0, len(entries))
	for _, prop := range entries {
		address := stripMailto(prop.Value)
		if !validEmail(address) {
			// Non-email calendar addresses are out of scope for contact
			// resolution and are dropped.
			continue
		}

		att := &Attendee{
			ID:      st.nextID(),
			Address: address,
		}
		if contact, ok := c.dir.LookupByEmail(address); ok {
			att.Contact = contact
		}

		att.CommonName = prop.Params.Get(paramCommonName)
		att.Status = participationStatuses[strings.ToUpper(prop.Params.Get(paramPartStat))]
		att.UserType = prop.Params.Get(paramUserType)
		att.Role = prop.Params.Get(paramRole)
		if rsvp := prop.Params.Get(paramRSVP); rsvp != "" {
			value := strings.EqualFold(rsvp, "TRUE")
			att.RSVP = &value
		}
		att.ExtraParams = params.Format(collectParamTail(prop.Params, attendeeModeledParams))

		attendees = append(attendees, att)
	}

	ev.Attendees = attendees
	return true
}

// calendarAddress turns a stored address into a calendar-address value:
// plain email addresses get the mailto: scheme, anything already carrying a
// scheme passes through untouched.
func calendarAddress(address string) string {
	if address == "" || strings.Contains(address, ":") {
		return address
	}
	return "mailto:" + address
}

func stripMailto(value string) string {
	if len(value) >= 7 && strings.EqualFold(value[:7], "mailto:") {
		return value[7:]
	}
	return value
}

// validEmail reports whether address is a bare, syntactically valid email
// address (no display name, no angle brackets).
func validEmail(address string) bool {
	if address == "" || !strings.Contains(address, "@") {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	return err == nil && parsed.Address == address
}

// collectParamTail gathers every parameter not modeled explicitly, in
// deterministic (sorted) order, preserving repeated values.
func collectParamTail(p ical.Params, modeled map[string]bool) []params.Pair {
	names := make([]string, 0, len(p))
	for name := range p {
		if !modeled[strings.ToUpper(name)] {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var pairs []params.Pair
	for _, name := range names {
		for _, value := range p[name] {
			pairs = append(pairs, params.Pair{Name: name, Value: value})
		}
	}
	return pairs
}

// applyParamTail replays a stored free-form tail onto a property.
func applyParamTail(prop *ical.Prop, tail string) {
	for _, pair := range params.Parse(tail) {
		prop.Params[pair.Name] = append(prop.Params[pair.Name], pair.Value)
	}
}
