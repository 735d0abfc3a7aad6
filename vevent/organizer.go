package vevent

import (
	"net/mail"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"

	"icalbridge/internal/params"
)

// mailtoNull is the organizer address emitted for owned events in privacy
// mode and recognized on import as an ownership marker. It is checked
// literally at both sites and never stored as a real address.
const mailtoNull = "mailto:null"

// organizerConverter maps ORGANIZER and derives the authoritative ownership
// flag. An organizer is only meaningful next to a participant list, so
// export emits nothing for events without attendees.
type organizerConverter struct {
	privacy bool
}

func (organizerConverter) name() string { return ical.PropOrganizer }

func (c *organizerConverter) toWire(ev *Event) mo.Option[wireOutput] {
	if len(ev.Attendees) == 0 {
		return mo.None[wireOutput]()
	}

	prop := ical.NewProp(ical.PropOrganizer)
	switch {
	case ev.Owned:
		// Synthesize the organizer from the local creator.
		if ev.Creator.DisplayName != "" {
			prop.Params.Set(paramCommonName, ev.Creator.DisplayName)
		}
		prop.Params.Set(paramUserType, UserTypeIndividual)
		prop.Params.Set(paramRole, RoleChair)
		prop.Params.Set(paramPartStat, StatusAccepted)
		if c.privacy {
			prop.Value = mailtoNull
		} else {
			prop.Value = mailtoAddress(ev.Creator.Email)
		}

	case ev.Organizer != "":
		applyParamTail(prop, ev.OrganizerParams)
		if prop.Params.Get(paramUserType) == "" {
			prop.Params.Set(paramUserType, UserTypeIndividual)
		}
		if prop.Params.Get(paramRole) == "" {
			prop.Params.Set(paramRole, RoleChair)
		}
		if prop.Params.Get(paramPartStat) == "" {
			prop.Params.Set(paramPartStat, StatusAccepted)
		}
		prop.Value = ev.Organizer

	default:
		return mo.None[wireOutput]()
	}

	return propsOutput(prop)
}

func (c *organizerConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	prop := comp.Props.Get(ical.PropOrganizer)
	if prop == nil {
		// Clients commonly omit ORGANIZER for self-authored events.
		ev.Owned = true
		return true
	}

	value := strings.TrimSpace(prop.Value)
	isSentinel := strings.EqualFold(value, mailtoNull)
	cn := prop.Params.Get(paramCommonName)
	email := prop.Params.Get(paramEmail)

	ev.Owned = isSentinel ||
		(cn != "" && cn == ev.Creator.Username) ||
		(email != "" && strings.EqualFold(email, ev.Creator.Email))

	if !isSentinel {
		ev.Organizer = value
	}
	ev.OrganizerParams = params.Format(collectParamTail(prop.Params, nil))

	return true
}

// mailtoAddress builds a mailto calendar address, falling back to the
// mailto:null marker when the email is unusable.
func mailtoAddress(email string) string {
	if email == "" {
		return mailtoNull
	}
	if parsed, err := mail.ParseAddress(email); err != nil || parsed.Address != email {
		return mailtoNull
	}
	return "mailto:" + email
}
