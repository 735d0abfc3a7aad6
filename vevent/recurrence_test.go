package vevent

import (
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecurrenceRuleExport(t *testing.T) {
	c := testCodec()

	comp := c.Encode(&Event{RecurrenceRule: "FREQ=WEEKLY;BYDAY=MO"})
	prop := comp.Props.Get(ical.PropRecurrenceRule)
	require.NotNil(t, prop)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", prop.Value)

	comp = c.Encode(&Event{})
	assert.Nil(t, comp.Props.Get(ical.PropRecurrenceRule))
}

func TestRecurrenceRuleImport(t *testing.T) {
	tests := []struct {
		name  string
		rule  string
		prior string
		want  string
	}{
		{
			name: "valid rule applied",
			rule: "FREQ=DAILY;COUNT=10",
			want: "FREQ=DAILY;COUNT=10",
		},
		{
			name:  "absence clears stale rule",
			prior: "FREQ=WEEKLY",
			want:  "",
		},
		{
			name:  "unparsable rule treated as absent",
			rule:  "FREQ=SOMETIMES",
			prior: "FREQ=WEEKLY",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCodec()
			comp := ical.NewComponent(ical.CompEvent)
			if tt.rule != "" {
				prop := ical.NewProp(ical.PropRecurrenceRule)
				prop.Value = tt.rule
				comp.Props.Set(prop)
			}

			ev := &Event{RecurrenceRule: tt.prior}
			c.Decode(ev, comp)
			assert.Equal(t, tt.want, ev.RecurrenceRule)
		})
	}
}

func TestExceptionDatesExportTimed(t *testing.T) {
	c := testCodec()
	ev := &Event{
		RecurrenceRule: "FREQ=MONTHLY",
		ExceptionDates: "2024-01-10T10:00:00Z,2024-02-10T10:00:00Z",
	}

	comp := c.Encode(ev)
	exdates := comp.Props[ical.PropExceptionDates]
	require.Len(t, exdates, 1)
	assert.Equal(t, "20240110T100000Z,20240210T100000Z", exdates[0].Value)
	assert.Empty(t, exdates[0].Params.Get("VALUE"))
}

func TestExceptionDatesExportAllDay(t *testing.T) {
	c := testCodec()
	ev := &Event{
		AllDay:         true,
		RecurrenceRule: "FREQ=WEEKLY",
		ExceptionDates: "2024-01-10,2024-01-17",
	}

	comp := c.Encode(ev)
	exdates := comp.Props[ical.PropExceptionDates]
	require.Len(t, exdates, 1)
	assert.Equal(t, "20240110,20240117", exdates[0].Value)
	assert.Equal(t, "DATE", exdates[0].Params.Get("VALUE"))
}

func TestExceptionDatesExportPreconditions(t *testing.T) {
	c := testCodec()

	// No recurrence means no EXDATE even with exceptions stored.
	comp := c.Encode(&Event{ExceptionDates: "2024-01-10T10:00:00Z"})
	assert.Empty(t, comp.Props[ical.PropExceptionDates])

	// No exceptions means no EXDATE.
	comp = c.Encode(&Event{RecurrenceRule: "FREQ=DAILY"})
	assert.Empty(t, comp.Props[ical.PropExceptionDates])
}

func TestExceptionDatesRoundTrip(t *testing.T) {
	c := testCodec()
	ev := &Event{
		UID:            "exdate-rt",
		Start:          time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC),
		Timezone:       "UTC",
		RecurrenceRule: "FREQ=MONTHLY",
		ExceptionDates: "2024-01-10T10:00:00Z,2024-02-10T10:00:00Z",
	}

	imported := &Event{}
	c.Decode(imported, c.Encode(ev))

	assert.Equal(t, "2024-01-10T10:00:00Z,2024-02-10T10:00:00Z", imported.ExceptionDates)
}

func TestExceptionDatesImport(t *testing.T) {
	tests := []struct {
		name   string
		allDay bool
		value  string
		params map[string]string
		want   string
	}{
		{
			name:  "utc date-times",
			value: "20240110T100000Z,20240210T100000Z",
			want:  "2024-01-10T10:00:00Z,2024-02-10T10:00:00Z",
		},
		{
			name:   "tzid date-times normalized to utc",
			value:  "20240110T110000",
			params: map[string]string{"TZID": "Europe/Berlin"},
			want:   "2024-01-10T10:00:00Z",
		},
		{
			name:   "date values on all-day event",
			allDay: true,
			value:  "20240110,20240117",
			params: map[string]string{"VALUE": "DATE"},
			want:   "2024-01-10,2024-01-17",
		},
		{
			name:  "unparsable entries dropped",
			value: "garbage,20240110T100000Z",
			want:  "2024-01-10T10:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCodec()
			comp := ical.NewComponent(ical.CompEvent)
			prop := ical.NewProp(ical.PropExceptionDates)
			prop.Value = tt.value
			for k, v := range tt.params {
				prop.Params.Set(k, v)
			}
			comp.Props.Set(prop)

			ev := &Event{AllDay: tt.allDay}
			c.Decode(ev, comp)
			assert.Equal(t, tt.want, ev.ExceptionDates)
		})
	}
}

func TestExceptionDatesImportAbsenceClears(t *testing.T) {
	c := testCodec()
	ev := &Event{ExceptionDates: "2024-01-10T10:00:00Z"}
	c.Decode(ev, ical.NewComponent(ical.CompEvent))
	assert.Empty(t, ev.ExceptionDates)
}

func TestRecurrenceIDRoundTrip(t *testing.T) {
	c := testCodec()
	occurrence := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	ev := &Event{
		UID:          "override-1",
		Start:        occurrence.Add(time.Hour),
		Timezone:     "UTC",
		RecurrenceID: &occurrence,
	}

	comp := c.Encode(ev)
	prop := comp.Props.Get("RECURRENCE-ID")
	require.NotNil(t, prop)
	assert.Equal(t, "20240305T090000Z", prop.Value)

	imported := &Event{}
	c.Decode(imported, comp)
	require.NotNil(t, imported.RecurrenceID)
	assert.True(t, imported.RecurrenceID.Equal(occurrence))
}
