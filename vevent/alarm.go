package vevent

import (
	"fmt"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"
)

const (
	propAction  = "ACTION"
	propTrigger = "TRIGGER"

	actionAudio   = "AUDIO"
	actionDisplay = "DISPLAY"
)

// defaultReminderMinutes is the import fallback when a VALARM carries a
// zero-length trigger duration.
const defaultReminderMinutes = 15

// alarmConverter maps the event's reminder to a VALARM block. The trigger is
// negative: the alarm fires before the event. Weeks are never emitted.
type alarmConverter struct{}

func (alarmConverter) name() string { return ical.CompAlarm }

func (alarmConverter) toWire(ev *Event) mo.Option[wireOutput] {
	if ev.Reminder == nil {
		return mo.None[wireOutput]()
	}

	var trigger string
	switch ev.Reminder.Unit {
	case UnitDays:
		trigger = fmt.Sprintf("-P%dD", ev.Reminder.Value)
	case UnitHours:
		trigger = fmt.Sprintf("-PT%dH", ev.Reminder.Value)
	case UnitMinutes:
		trigger = fmt.Sprintf("-PT%dM", ev.Reminder.Value)
	default:
		return mo.None[wireOutput]()
	}

	var action string
	switch ev.Reminder.Action {
	case ActionAudioDisplay:
		action = actionAudio
	case ActionDisplay:
		action = actionDisplay
	default:
		return mo.None[wireOutput]()
	}

	alarm := ical.NewComponent(ical.CompAlarm)
	prop := ical.NewProp(propTrigger)
	prop.Value = trigger
	alarm.Props.Add(prop)
	alarm.Props.SetText(propAction, action)

	return componentOutput(alarm)
}

func (alarmConverter) fromWire(ev *Event, comp *ical.Component, _ *importState) bool {
	// Only the first alarm block is consumed.
	var alarm *ical.Component
	for _, child := range comp.Children {
		if child.Name == ical.CompAlarm {
			alarm = child
			break
		}
	}
	if alarm == nil {
		return false
	}

	trigger := alarm.Props.Get(propTrigger)
	if trigger == nil {
		return false
	}
	weeks, days, hours, minutes, ok := parseTriggerDuration(trigger.Value)
	if !ok {
		return false
	}

	// Weeks collapse into days before classification by the coarsest
	// non-zero unit.
	days += weeks * 7

	reminder := &Reminder{Action: ActionDisplay}
	switch {
	case days > 0:
		reminder.Value, reminder.Unit = days, UnitDays
	case hours > 0:
		reminder.Value, reminder.Unit = hours, UnitHours
	case minutes > 0:
		reminder.Value, reminder.Unit = minutes, UnitMinutes
	default:
		reminder.Value, reminder.Unit = defaultReminderMinutes, UnitMinutes
	}

	if action := alarm.Props.Get(propAction); action != nil && action.Value == actionAudio {
		reminder.Action = ActionAudioDisplay
	}

	ev.Reminder = reminder
	return true
}

// parseTriggerDuration extracts the components of an ISO 8601 duration
// trigger value such as "-P2W1DT3H15M". The sign is irrelevant for
// classification and discarded; absolute (date-time) triggers fail the
// parse.
func parseTriggerDuration(value string) (weeks, days, hours, minutes int, ok bool) {
	s := strings.TrimSpace(value)
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "+")
	if !strings.HasPrefix(s, "P") {
		return 0, 0, 0, 0, false
	}
	s = s[1:]

	inTime := false
	num := 0
	hasNum := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
			hasNum = true
		case r == 'T':
			if hasNum {
				return 0, 0, 0, 0, false
			}
			inTime = true
		default:
			if !hasNum {
				return 0, 0, 0, 0, false
			}
			switch {
			case r == 'W' && !inTime:
				weeks = num
			case r == 'D' && !inTime:
				days = num
			case r == 'H' && inTime:
				hours = num
			case r == 'M' && inTime:
				minutes = num
			case r == 'S' && inTime:
				// Seconds are below reminder granularity.
			default:
				return 0, 0, 0, 0, false
			}
			num = 0
			hasNum = false
		}
	}
	if hasNum {
		return 0, 0, 0, 0, false
	}
	return weeks, days, hours, minutes, true
}
