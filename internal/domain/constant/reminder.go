package constant

// ReminderKind identifies which of the two reminders an interview row's
// flag pair refers to.
type ReminderKind int

const (
	// Reminder24Hour is the reminder sent roughly one day before the interview.
	Reminder24Hour ReminderKind = iota
	// Reminder3Hour is the reminder sent roughly three hours before the interview.
	Reminder3Hour
)

// Window bounds in fractional hours before the interview start. The
// windows are ±30 minutes wide so a 10-minute trigger cadence with jitter
// cannot skip past them.
const (
	Window24LowerHours = 23.5
	Window24UpperHours = 24.5
	Window3LowerHours  = 2.5
	Window3UpperHours  = 3.5
)

// Late-creation guard thresholds (hours until start at creation time).
const (
	Suppress24HourBelow = 3.0
	Suppress3HourBelow  = 1.0
)

func (k ReminderKind) Int() int {
	return int(k)
}

// Label returns the short name used in logs and report error strings.
func (k ReminderKind) Label() string {
	switch k {
	case Reminder24Hour:
		return "24h"
	case Reminder3Hour:
		return "3h"
	default:
		return "unknown"
	}
}
