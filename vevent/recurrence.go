package vevent

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"
	"github.com/teambition/rrule-go"

	"icalbridge/timezone"
)

// recurrenceRuleConverter maps RRULE. The rule text is already wire grammar
// internally and passes through unmodified on export. Import always applies:
// an absent or unparsable rule clears any stale recurrence on the record.

type recurrenceRuleConverter struct{}

func (recurrenceRuleConverter) name() string { return ical.PropRecurrenceRule }

func (recurrenceRuleConverter) toWire(ev *Event) mo.Option[wireOutput] {
	if ev.RecurrenceRule == "" {
		return mo.None[wireOutput]()
	}
	prop := ical.NewProp(ical.PropRecurrenceRule)
	prop.Value = ev.RecurrenceRule
	return propsOutput(prop)
}

func (recurrenceRuleConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	rule := ""
	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil {
		rule = strings.TrimSpace(prop.Value)
	}
	if rule != "" {
		if _, err := rrule.StrToRRule(rule); err != nil {
			rule = ""
		}
	}
	ev.RecurrenceRule = rule
	return true
}

// exceptionDatesConverter maps EXDATE against the record's comma-joined,
// UTC-normalized exception list.
type exceptionDatesConverter struct {
	tz *timezone.Resolver
}

func (exceptionDatesConverter) name() string { return ical.PropExceptionDates }

func (c *exceptionDatesConverter) toWire(ev *Event) mo.Option[wireOutput] {
	if ev.RecurrenceRule == "" || ev.ExceptionDates == "" {
		return mo.None[wireOutput]()
	}

	// Entries are grouped by their value form; in practice an event is
	// uniformly all-day or timed, so one group is used.
	var dates, dateTimes []string
	for _, entry := range strings.Split(ev.ExceptionDates, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if t, err := time.Parse(exceptionDateFormat, entry); err == nil {
			dates = append(dates, t.Format(icalDateFormat))
			continue
		}
		if t, err := time.Parse(time.RFC3339, entry); err == nil {
			dateTimes = append(dateTimes, t.UTC().Format(icalDateTimeUTCFormat))
		}
		// Unparsable entries are dropped.
	}

	var props []*ical.Prop
	if len(dates) > 0 {
		prop := ical.NewProp(ical.PropExceptionDates)
		prop.Value = strings.Join(dates, ",")
		prop.Params.Set("VALUE", "DATE")
		props = append(props, prop)
	}
	if len(dateTimes) > 0 {
		prop := ical.NewProp(ical.PropExceptionDates)
		prop.Value = strings.Join(dateTimes, ",")
		props = append(props, prop)
	}
	if len(props) == 0 {
		return mo.None[wireOutput]()
	}
	return propsOutput(props...)
}

func (c *exceptionDatesConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	// Absence clears the exception list: this is an explicit negative
	// confirmation, not a skip.
	var entries []string
	for _, prop := range comp.Props[ical.PropExceptionDates] {
		dateOnly := prop.Params.Get("VALUE") == "DATE"
		loc := c.tz.Fallback()
		if tzid := prop.Params.Get("TZID"); tzid != "" {
			loc = c.tz.Resolve(tzid)
		}

		for _, raw := range strings.Split(prop.Value, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}

			instant, ok := parseExceptionValue(raw, dateOnly, loc)
			if !ok {
				continue
			}

			if ev.AllDay {
				entries = append(entries, utcDay(instant).Format(exceptionDateFormat))
			} else {
				entries = append(entries, instant.UTC().Format(exceptionDateTimeFormat))
			}
		}
	}

	ev.ExceptionDates = strings.Join(entries, ",")
	return true
}

// parseExceptionValue interprets one EXDATE entry as a UTC instant.
func parseExceptionValue(raw string, dateOnly bool, loc *time.Location) (time.Time, bool) {
	if dateOnly || len(raw) == len(icalDateFormat) {
		t, err := time.Parse(icalDateFormat, raw)
		if err != nil {
			return time.Time{}, false
		}
		return utcDay(t), true
	}
	if t, err := time.Parse(icalDateTimeUTCFormat, raw); err == nil {
		return t, true
	}
	t, err := time.ParseInLocation(icalDateTimeFormat, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// recurrenceIDConverter maps RECURRENCE-ID for records that override a
// single occurrence of a series.
type recurrenceIDConverter struct{}

func (recurrenceIDConverter) name() string { return "RECURRENCE-ID" }

func (recurrenceIDConverter) toWire(ev *Event) mo.Option[wireOutput] {
	if ev.RecurrenceID == nil {
		return mo.None[wireOutput]()
	}
	prop := ical.NewProp("RECURRENCE-ID")
	if ev.AllDay {
		prop.SetDate(utcDay(*ev.RecurrenceID))
	} else {
		prop.SetDateTime(ev.RecurrenceID.UTC())
	}
	return propsOutput(prop)
}

func (recurrenceIDConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	prop := comp.Props.Get("RECURRENCE-ID")
	if prop == nil || prop.Value == "" {
		return false
	}
	t, err := prop.DateTime(time.UTC)
	if err != nil {
		return false
	}
	ev.RecurrenceID = &t
	return true
}
