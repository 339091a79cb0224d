package insight

import (
	"time"
)

// WindowKind selects how the entry window for a run is computed
type WindowKind int

const (
	// WindowRecencyCount takes the most recent Count entries
	WindowRecencyCount WindowKind = iota
	// WindowRecencyDuration takes all entries within the last Span
	WindowRecencyDuration
	// WindowRollingRank takes entries within Span up to Cap, but never
	// fewer than Floor even if that means reaching further back
	WindowRollingRank
	// WindowFixedPriorWeek takes the calendar week (Sunday through
	// Saturday) immediately preceding the current one
	WindowFixedPriorWeek
)

// WindowSpec parameterizes the window selector for one insight type
type WindowSpec struct {
	Kind  WindowKind
	Count int           // recency-count
	Span  time.Duration // recency-duration, rolling-rank
	Cap   int           // rolling-rank upper bound
	Floor int           // rolling-rank lower bound
}

// WeekMoment is a point within a calendar week: weekday plus time of day
type WeekMoment struct {
	Day    time.Weekday
	Hour   int
	Minute int
}

func (m WeekMoment) minuteOfWeek() int {
	return int(m.Day)*24*60 + m.Hour*60 + m.Minute
}

// ActivityWindow restricts generation to a recurring calendar window,
// inclusive at both ends. A window whose end precedes its start wraps
// around the Saturday/Sunday boundary.
type ActivityWindow struct {
	Start WeekMoment
	End   WeekMoment
}

// Contains reports whether t falls inside the window
func (w ActivityWindow) Contains(t time.Time) bool {
	mow := int(t.Weekday())*24*60 + t.Hour()*60 + t.Minute()
	start := w.Start.minuteOfWeek()
	end := w.End.minuteOfWeek()
	if start <= end {
		return mow >= start && mow <= end
	}
	return mow >= start || mow <= end
}

// Policy is the static per-type configuration the orchestrator runs under.
// Intervals are coarse-grained: staleness comparisons count whole elapsed
// hours, not exact durations.
type Policy struct {
	Identifier   string
	Interval     time.Duration
	MinEntries   int
	Window       WindowSpec
	Dependencies []string
	Activity     *ActivityWindow
	Strategy     Strategy
}
