package clock

import "time"

// Clock supplies the current instant in the organizational timezone.
// Reminder windows and the late-creation guard are computed against it.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type orgClock struct {
	loc *time.Location
}

// New creates a Clock fixed to the given location.
func New(loc *time.Location) Clock {
	return &orgClock{loc: loc}
}

func (c *orgClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *orgClock) Location() *time.Location {
	return c.loc
}

// Fixed returns a Clock frozen at t. Tests use this to pin the window
// evaluation instant.
func Fixed(t time.Time) Clock {
	return &fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

func (c *fixedClock) Location() *time.Location {
	return c.t.Location()
}
