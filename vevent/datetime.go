package vevent

import (
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"

	"icalbridge/timezone"
)

// Wire formats for iCalendar date and date-time values.
const (
	icalDateFormat        = "20060102"
	icalDateTimeUTCFormat = "20060102T150405Z"
	icalDateTimeFormat    = "20060102T150405"
)

// Internal formats for the record's exception-date list.
const (
	exceptionDateFormat     = "2006-01-02"
	exceptionDateTimeFormat = "2006-01-02T15:04:05Z"
)

// utcDay truncates an instant to the UTC calendar day containing it.
func utcDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// parseDateTimeProp interprets a DATE or DATE-TIME property value. Date-only
// values come back anchored at UTC midnight with dateOnly set. For date-time
// values the zone is the embedded Z suffix, the TZID parameter resolved
// through tz, or the resolver's fallback, in that order; tzid reports which
// identifier applied.
func parseDateTimeProp(prop *ical.Prop, tz *timezone.Resolver) (t time.Time, dateOnly bool, tzid string, err error) {
	value := strings.TrimSpace(prop.Value)

	if prop.Params.Get("VALUE") == "DATE" || len(value) == len(icalDateFormat) {
		t, err = time.Parse(icalDateFormat, value)
		if err != nil {
			return time.Time{}, false, "", err
		}
		return utcDay(t), true, "", nil
	}

	if t, err = time.Parse(icalDateTimeUTCFormat, value); err == nil {
		return t, false, "UTC", nil
	}

	loc := tz.Fallback()
	tzid = loc.String()
	if param := prop.Params.Get("TZID"); param != "" {
		loc = tz.Resolve(param)
		tzid = param
	}

	t, err = time.ParseInLocation(icalDateTimeFormat, value, loc)
	if err != nil {
		return time.Time{}, false, "", err
	}
	return t, false, tzid, nil
}

// dtStartConverter maps DTSTART. It is the property that decides the
// record's all-day flag and timezone on import.
type dtStartConverter struct {
	tz *timezone.Resolver
}

func (dtStartConverter) name() string { return ical.PropDateTimeStart }

func (c *dtStartConverter) toWire(ev *Event) mo.Option[wireOutput] {
	return exportEventTime(c.tz, ical.PropDateTimeStart, ev, ev.Start)
}

func (c *dtStartConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	prop := comp.Props.Get(ical.PropDateTimeStart)
	if prop == nil {
		return false
	}

	t, dateOnly, tzid, err := parseDateTimeProp(prop, c.tz)
	if err != nil {
		return false
	}

	ev.Start = t
	ev.AllDay = dateOnly
	if dateOnly {
		ev.Timezone = ""
	} else {
		ev.Timezone = tzid
	}
	return true
}

// dtEndConverter maps DTEND. All-day-ness and timezone stay owned by DTSTART.
type dtEndConverter struct {
	tz *timezone.Resolver
}

func (dtEndConverter) name() string { return ical.PropDateTimeEnd }

func (c *dtEndConverter) toWire(ev *Event) mo.Option[wireOutput] {
	return exportEventTime(c.tz, ical.PropDateTimeEnd, ev, ev.End)
}

func (c *dtEndConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	prop := comp.Props.Get(ical.PropDateTimeEnd)
	if prop == nil {
		return false
	}

	t, _, _, err := parseDateTimeProp(prop, c.tz)
	if err != nil {
		return false
	}

	ev.End = t
	return true
}

// exportEventTime emits one DTSTART/DTEND property: a bare UTC-day date for
// all-day events, a TZID-tagged date-time otherwise.
func exportEventTime(tz *timezone.Resolver, name string, ev *Event, t time.Time) mo.Option[wireOutput] {
	if t.IsZero() {
		return mo.None[wireOutput]()
	}

	prop := ical.NewProp(name)
	if ev.AllDay {
		prop.SetDate(utcDay(t))
	} else {
		prop.SetDateTime(t.In(tz.Resolve(ev.Timezone)))
	}
	return propsOutput(prop)
}
