package vevent

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-ical"

	"icalbridge/directory"
	"icalbridge/timezone"
)

// Codec converts event records to and from VEVENT components. It owns the
// ordered list of property converters and applies all of them in each
// direction; per-property failures are independent and never abort the
// conversion.
//
// A Codec is stateless per call and safe for concurrent use once built.
type Codec struct {
	converters []converter
	tz         *timezone.Resolver
	dir        directory.Directory
	privacy    bool
	productID  string
	logger     *slog.Logger
}

// Option represents a configuration option for the Codec
type Option func(*Codec)

// WithTimezoneResolver sets the resolver used to tag and interpret
// date-time values
func WithTimezoneResolver(tz *timezone.Resolver) Option {
	return func(c *Codec) {
		if tz != nil {
			c.tz = tz
		}
	}
}

// WithDirectory sets the contact directory attendee addresses are resolved
// against on import
func WithDirectory(dir directory.Directory) Option {
	return func(c *Codec) {
		if dir != nil {
			c.dir = dir
		}
	}
}

// WithPrivacyMode makes owned events export the organizer address as the
// mailto:null marker instead of the creator's email
func WithPrivacyMode(privacy bool) Option {
	return func(c *Codec) {
		c.privacy = privacy
	}
}

// WithProductID sets the PRODID used when wrapping events into calendars
func WithProductID(id string) Option {
	return func(c *Codec) {
		if id != "" {
			c.productID = id
		}
	}
}

// WithLogger sets the logger for the codec
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCodec creates a Codec with the given options applied.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		dir:       noDirectory{},
		productID: "-//icalbridge//Calendar Interchange//EN",
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tz == nil {
		c.tz = timezone.NewResolver()
	}

	// Order only matters on import: DTSTART decides the all-day flag
	// before EXDATE normalizes against it, and DTSTAMP may seed the
	// modification time before LAST-MODIFIED overrides it.
	c.converters = []converter{
		&dtStartConverter{tz: c.tz},
		&dtEndConverter{tz: c.tz},
		uidConverter{},
		summaryConverter{},
		descriptionConverter{},
		locationConverter{},
		transparencyConverter{},
		sequenceConverter{},
		recurrenceRuleConverter{},
		&exceptionDatesConverter{tz: c.tz},
		recurrenceIDConverter{},
		&attendeeConverter{dir: c.dir},
		&organizerConverter{privacy: c.privacy},
		alarmConverter{},
		createdConverter{},
		dtStampConverter{},
		lastModifiedConverter{},
	}

	return c
}

// Encode converts a record into a VEVENT component. The record is only read.
func (c *Codec) Encode(ev *Event) *ical.Component {
	comp := ical.NewComponent(ical.CompEvent)

	for _, conv := range c.converters {
		out, ok := conv.toWire(ev).Get()
		if !ok {
			c.logger.Debug("property not exported",
				"property", conv.name())
			continue
		}
		for _, prop := range out.props {
			comp.Props.Add(prop)
		}
		comp.Children = append(comp.Children, out.components...)
	}

	return comp
}

// Decode populates a record from a VEVENT component, mutating it in place.
// Fields whose wire property is missing or malformed keep their prior value;
// partially applied results are not rolled back.
func (c *Codec) Decode(ev *Event, comp *ical.Component) {
	st := newImportState()

	for _, conv := range c.converters {
		applied := conv.fromWire(ev, comp, st)
		c.logger.Debug("property imported",
			"property", conv.name(),
			"applied", applied)
	}
}

// EncodeCalendar wraps the encoded VEVENT into a VCALENDAR with the required
// VERSION and PRODID properties.
func (c *Codec) EncodeCalendar(ev *Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, c.productID)
	cal.Children = append(cal.Children, c.Encode(ev))
	return cal
}

// MarshalICS serializes a record as iCalendar text.
func (c *Codec) MarshalICS(ev *Event) (string, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(c.EncodeCalendar(ev)); err != nil {
		return "", fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.String(), nil
}

// UnmarshalICS decodes iCalendar text and imports its first VEVENT into a
// fresh record. Use Decode directly to import into a pre-existing record
// (for example one carrying the creator identity used for ownership
// detection).
func (c *Codec) UnmarshalICS(ics string) (*Event, error) {
	cal, err := ical.NewDecoder(strings.NewReader(ics)).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	for _, child := range cal.Children {
		if child.Name == ical.CompEvent {
			ev := &Event{}
			c.Decode(ev, child)
			return ev, nil
		}
	}

	return nil, fmt.Errorf("no event found in calendar")
}

// noDirectory is the default directory: every lookup misses.
type noDirectory struct{}

func (noDirectory) LookupByEmail(string) (*directory.Contact, bool) {
	return nil, false
}
