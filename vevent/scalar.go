package vevent

import (
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/samber/mo"
)

// The scalar converters follow the plain one-property contract: emit when
// the record has a value, apply when the wire carries one.

type uidConverter struct{}

func (uidConverter) name() string { return ical.PropUID }

func (uidConverter) toWire(ev *Event) mo.Option[wireOutput] {
	uid := ev.UID
	if uid == "" {
		uid = uuid.New().String()
	}
	prop := ical.NewProp(ical.PropUID)
	prop.SetText(uid)
	return propsOutput(prop)
}

func (uidConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	prop := comp.Props.Get(ical.PropUID)
	if prop == nil || prop.Value == "" {
		return false
	}
	ev.UID = prop.Value
	return true
}

type summaryConverter struct{}

func (summaryConverter) name() string { return ical.PropSummary }

func (summaryConverter) toWire(ev *Event) mo.Option[wireOutput] {
	return exportText(ical.PropSummary, ev.Summary)
}

func (summaryConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	return importText(comp, ical.PropSummary, &ev.Summary)
}

type descriptionConverter struct{}

func (descriptionConverter) name() string { return ical.PropDescription }

func (descriptionConverter) toWire(ev *Event) mo.Option[wireOutput] {
	return exportText(ical.PropDescription, ev.Description)
}

func (descriptionConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	return importText(comp, ical.PropDescription, &ev.Description)
}

type locationConverter struct{}

func (locationConverter) name() string { return ical.PropLocation }

func (locationConverter) toWire(ev *Event) mo.Option[wireOutput] {
	return exportText(ical.PropLocation, ev.Location)
}

func (locationConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	return importText(comp, ical.PropLocation, &ev.Location)
}

// transparencyConverter always exports OPAQUE; the subsystem never produces
// transparent events.

type transparencyConverter struct{}

func (transparencyConverter) name() string { return "TRANSP" }

func (transparencyConverter) toWire(_ *Event) mo.Option[wireOutput] {
	prop := ical.NewProp("TRANSP")
	prop.SetText(TransparencyOpaque)
	return propsOutput(prop)
}

func (transparencyConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	prop := comp.Props.Get("TRANSP")
	if prop == nil || prop.Value == "" {
		return false
	}
	ev.Transparency = prop.Value
	return true
}

type sequenceConverter struct{}

func (sequenceConverter) name() string { return "SEQUENCE" }

func (sequenceConverter) toWire(ev *Event) mo.Option[wireOutput] {
	prop := ical.NewProp("SEQUENCE")
	prop.Value = strconv.Itoa(ev.Sequence)
	return propsOutput(prop)
}

func (sequenceConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	prop := comp.Props.Get("SEQUENCE")
	if prop == nil {
		return false
	}
	seq, err := strconv.Atoi(prop.Value)
	if err != nil || seq < 0 {
		return false
	}
	ev.Sequence = seq
	return true
}

type createdConverter struct{}

func (createdConverter) name() string { return ical.PropCreated }

func (createdConverter) toWire(ev *Event) mo.Option[wireOutput] {
	return exportUTCStamp(ical.PropCreated, ev.Created)
}

func (createdConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	return importUTCStamp(comp, ical.PropCreated, &ev.Created)
}

// dtStampConverter emits DTSTAMP from the modification time, falling back to
// the current time since the property is mandatory on the wire. On import it
// seeds the modification time; lastModifiedConverter runs afterwards and
// overrides it when LAST-MODIFIED is present.

type dtStampConverter struct{}

func (dtStampConverter) name() string { return ical.PropDateTimeStamp }

func (dtStampConverter) toWire(ev *Event) mo.Option[wireOutput] {
	stamp := ev.LastModified
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return exportUTCStamp(ical.PropDateTimeStamp, stamp)
}

func (dtStampConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	return importUTCStamp(comp, ical.PropDateTimeStamp, &ev.LastModified)
}

type lastModifiedConverter struct{}

func (lastModifiedConverter) name() string { return ical.PropLastModified }

func (lastModifiedConverter) toWire(ev *Event) mo.Option[wireOutput] {
	return exportUTCStamp(ical.PropLastModified, ev.LastModified)
}

func (lastModifiedConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	return importUTCStamp(comp, ical.PropLastModified, &ev.LastModified)
}

func exportText(name, value string) mo.Option[wireOutput] {
	if value == "" {
		return mo.None[wireOutput]()
	}
	prop := ical.NewProp(name)
	prop.SetText(value)
	return propsOutput(prop)
}

func importText(comp *ical.Component, name string, dst *string) bool {
	prop := comp.Props.Get(name)
	if prop == nil {
		return false
	}
	text, err := prop.Text()
	if err != nil {
		return false
	}
	*dst = text
	return true
}

func exportUTCStamp(name string, t time.Time) mo.Option[wireOutput] {
	if t.IsZero() {
		return mo.None[wireOutput]()
	}
	prop := ical.NewProp(name)
	prop.SetDateTime(t.UTC())
	return propsOutput(prop)
}

func importUTCStamp(comp *ical.Component, name string, dst *time.Time) bool {
	prop := comp.Props.Get(name)
	if prop == nil {
		return false
	}
	t, err := prop.DateTime(time.UTC)
	if err != nil {
		return false
	}
	*dst = t.UTC()
	return true
}
