package vevent

import (
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalICSRoundTrip(t *testing.T) {
	c := testCodec()
	start := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	occurrence := time.Date(2024, 7, 8, 8, 0, 0, 0, time.UTC)
	ev := &Event{
		UID:            "ics-rt-1",
		Sequence:       2,
		Start:          start,
		End:            start.Add(45 * time.Minute),
		Timezone:       "Europe/Berlin",
		Summary:        "Standup",
		Description:    "Daily sync",
		Location:       "Huddle room",
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=MO",
		ExceptionDates: "2024-06-17T08:00:00Z",
		RecurrenceID:   &occurrence,
		Reminder:       &Reminder{Value: 10, Unit: UnitMinutes, Action: ActionDisplay},
		Owned:          true,
		Creator:        testCreator,
		Attendees:      []*Attendee{{Address: "max@example.com", Status: StatusAccepted}},
		Created:        time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		LastModified:   time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
	}

	ics, err := c.MarshalICS(ev)
	require.NoError(t, err)
	assert.Contains(t, ics, "BEGIN:VCALENDAR")
	assert.Contains(t, ics, "BEGIN:VEVENT")
	assert.Contains(t, ics, "BEGIN:VALARM")

	imported, err := c.UnmarshalICS(ics)
	require.NoError(t, err)

	assert.Equal(t, ev.UID, imported.UID)
	assert.Equal(t, ev.Sequence, imported.Sequence)
	assert.True(t, imported.Start.Equal(ev.Start))
	assert.True(t, imported.End.Equal(ev.End))
	assert.Equal(t, "Europe/Berlin", imported.Timezone)
	assert.Equal(t, ev.Summary, imported.Summary)
	assert.Equal(t, ev.Description, imported.Description)
	assert.Equal(t, ev.Location, imported.Location)
	assert.Equal(t, ev.RecurrenceRule, imported.RecurrenceRule)
	assert.Equal(t, ev.ExceptionDates, imported.ExceptionDates)
	require.NotNil(t, imported.RecurrenceID)
	assert.True(t, imported.RecurrenceID.Equal(occurrence))
	require.NotNil(t, imported.Reminder)
	assert.Equal(t, *ev.Reminder, *imported.Reminder)
	require.Len(t, imported.Attendees, 1)
	assert.Equal(t, "max@example.com", imported.Attendees[0].Address)
	assert.True(t, imported.Created.Equal(ev.Created))
}

func TestUnmarshalICSErrors(t *testing.T) {
	c := testCodec()

	_, err := c.UnmarshalICS("this is not icalendar")
	assert.Error(t, err)

	_, err = c.UnmarshalICS("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//x//EN\r\nEND:VCALENDAR\r\n")
	assert.Error(t, err, "calendar without a VEVENT cannot be imported")
}

func TestDecodeIsBestEffort(t *testing.T) {
	// A component full of malformed values still imports whatever parses.
	c := testCodec()
	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropUID, "partial-1")
	comp.Props.SetText(ical.PropSummary, "Survives")

	bad := ical.NewProp(ical.PropDateTimeStart)
	bad.Value = "yesterday-ish"
	comp.Props.Set(bad)

	badSeq := ical.NewProp("SEQUENCE")
	badSeq.Value = "NaN"
	comp.Props.Set(badSeq)

	badRule := ical.NewProp(ical.PropRecurrenceRule)
	badRule.Value = "FREQ=NEVERMIND"
	comp.Props.Set(badRule)

	comp.Children = append(comp.Children, alarmComponent("whenever", "DISPLAY"))

	ev := &Event{}
	c.Decode(ev, comp)

	assert.Equal(t, "partial-1", ev.UID)
	assert.Equal(t, "Survives", ev.Summary)
	assert.True(t, ev.Start.IsZero())
	assert.Zero(t, ev.Sequence)
	assert.Empty(t, ev.RecurrenceRule)
	assert.Nil(t, ev.Reminder)
}

func TestDecodeVendorQuirkLines(t *testing.T) {
	// Lightning-style input: floating times, lowercase mailto, vendor
	// X- parameters on ATTENDEE.
	ics := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Mozilla.org/NONSGML Mozilla Calendar V1.1//EN",
		"BEGIN:VEVENT",
		"UID:quirk-1",
		"SUMMARY:Imported",
		"DTSTART;TZID=Europe/Berlin:20240501T140000",
		"DTEND;TZID=Europe/Berlin:20240501T150000",
		"DTSTAMP:20240420T100000Z",
		"ATTENDEE;CN=Max;RSVP=TRUE;X-NUM-GUESTS=0:MAILTO:max@example.com",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	c := testCodec()
	imported, err := c.UnmarshalICS(ics)
	require.NoError(t, err)

	assert.Equal(t, "quirk-1", imported.UID)
	assert.Equal(t, "Europe/Berlin", imported.Timezone)
	assert.True(t, imported.Start.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)))
	require.Len(t, imported.Attendees, 1)
	assert.Equal(t, "max@example.com", imported.Attendees[0].Address)
	assert.Equal(t, "X-NUM-GUESTS=0", imported.Attendees[0].ExtraParams)
}

func TestEncodeCalendarWrapping(t *testing.T) {
	c := testCodec(WithProductID("-//Example//Suite//EN"))
	cal := c.EncodeCalendar(&Event{UID: "wrap-1"})

	assert.Equal(t, "2.0", cal.Props.Get(ical.PropVersion).Value)
	assert.Equal(t, "-//Example//Suite//EN", cal.Props.Get(ical.PropProductID).Value)
	require.Len(t, cal.Children, 1)
	assert.Equal(t, ical.CompEvent, cal.Children[0].Name)
}
