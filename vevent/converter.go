package vevent

import (
	"github.com/emersion/go-ical"
	"github.com/samber/mo"
)

// wireOutput is what one converter contributes to a VEVENT on export: zero
// or more properties and zero or more child components (VALARM).
type wireOutput struct {
	props      []*ical.Prop
	components []*ical.Component
}

// converter maps one iCalendar property to and from the event record. Both
// directions are total: toWire returns None when the record lacks the data
// for its property, fromWire degrades to "not applied" on missing or
// malformed wire input and leaves the record's prior value untouched.
type converter interface {
	name() string
	toWire(ev *Event) mo.Option[wireOutput]
	fromWire(ev *Event, comp *ical.Component, st *importState) bool
}

func propsOutput(props ...*ical.Prop) mo.Option[wireOutput] {
	return mo.Some(wireOutput{props: props})
}

func componentOutput(comp *ical.Component) mo.Option[wireOutput] {
	return mo.Some(wireOutput{components: []*ical.Component{comp}})
}

// firstSyntheticID is where the per-import counter for unresolved attendees
// starts; it decreases so synthetic ids never collide with persisted
// positive ids.
const firstSyntheticID int64 = -1

// importState carries state scoped to a single import call, so converters
// stay pure across invocations.
type importState struct {
	nextSyntheticID int64
}

func newImportState() *importState {
	return &importState{nextSyntheticID: firstSyntheticID}
}

func (st *importState) nextID() int64 {
	id := st.nextSyntheticID
	st.nextSyntheticID--
	return id
}
