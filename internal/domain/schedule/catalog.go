package schedule

import (
	"fmt"
	"regexp"
	"strings"
)

// SlotID identifies a bookable time-of-day slot in 24-hour "HH:MM" form.
// Zero-padding guarantees that lexicographic order equals chronological order,
// which the catalog and the availability engine rely on for filtering.
type SlotID string

var slotIDPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// WellFormed reports whether the identifier is syntactically a valid slot.
// It says nothing about catalog membership.
func (s SlotID) WellFormed() bool {
	return slotIDPattern.MatchString(string(s))
}

func (s SlotID) String() string {
	return string(s)
}

// BreakWindow is a half-open [Start, End) range of slot identifiers excluded
// from the catalog, e.g. a lunch break.
type BreakWindow struct {
	Start SlotID
	End   SlotID
}

func (w BreakWindow) contains(s SlotID) bool {
	return w.Start <= s && s < w.End
}

// CatalogConfig defines the daily slot grid.
type CatalogConfig struct {
	StartHour       int
	EndHour         int
	IntervalMinutes int
	Breaks          []BreakWindow
}

// DefaultCatalogConfig mirrors the clinic's standing hours: 09:00-18:00 at
// 30-minute intervals with a lunch break from 13:00 to 14:00.
func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		StartHour:       9,
		EndHour:         18,
		IntervalMinutes: 30,
		Breaks:          []BreakWindow{{Start: "13:00", End: "14:00"}},
	}
}

func (c CatalogConfig) Validate() error {
	if c.StartHour < 0 || c.EndHour > 24 || c.StartHour >= c.EndHour {
		return fmt.Errorf("%w: start hour %d must precede end hour %d", ErrInvalidCatalogConfig, c.StartHour, c.EndHour)
	}
	if c.IntervalMinutes <= 0 || c.IntervalMinutes > 60 {
		return fmt.Errorf("%w: interval %d minutes out of range", ErrInvalidCatalogConfig, c.IntervalMinutes)
	}
	closing := hourMinuteSlot(c.EndHour%24, 0)
	if c.EndHour == 24 {
		closing = "24:00" // sentinel above any well-formed slot
	}
	opening := hourMinuteSlot(c.StartHour, 0)
	for _, w := range c.Breaks {
		if !w.Start.WellFormed() || !w.End.WellFormed() {
			return fmt.Errorf("%w: malformed break window %s-%s", ErrInvalidCatalogConfig, w.Start, w.End)
		}
		if w.Start >= w.End {
			return fmt.Errorf("%w: empty break window %s-%s", ErrInvalidCatalogConfig, w.Start, w.End)
		}
		if w.Start < opening || w.End > closing {
			return fmt.Errorf("%w: break window %s-%s outside business hours", ErrInvalidCatalogConfig, w.Start, w.End)
		}
	}
	return nil
}

// Generate materializes the full ordered slot grid for a day. The sequence is
// deterministic for a given config: hours run from StartHour up to but not
// including EndHour, stepping by IntervalMinutes within each hour, and any
// identifier falling inside a break window is skipped. When the interval does
// not divide 60 evenly the trailing partial interval of each hour is dropped
// rather than spilling into the next hour.
func (c CatalogConfig) Generate() []SlotID {
	slots := make([]SlotID, 0, (c.EndHour-c.StartHour)*(60/c.IntervalMinutes+1))

	for hour := c.StartHour; hour < c.EndHour; hour++ {
		for minute := 0; minute < 60; minute += c.IntervalMinutes {
			slot := hourMinuteSlot(hour, minute)
			if c.excluded(slot) {
				continue
			}
			slots = append(slots, slot)
		}
	}
	return slots
}

func (c CatalogConfig) excluded(s SlotID) bool {
	for _, w := range c.Breaks {
		if w.contains(s) {
			return true
		}
	}
	return false
}

// IsValid reports catalog membership for a candidate identifier. Malformed
// input is rejected rather than treated as an error.
func (c CatalogConfig) IsValid(candidate SlotID) bool {
	if !candidate.WellFormed() {
		return false
	}
	for _, s := range c.Generate() {
		if s == candidate {
			return true
		}
	}
	return false
}

func hourMinuteSlot(hour, minute int) SlotID {
	return SlotID(fmt.Sprintf("%02d:%02d", hour, minute))
}

// ParseBreakWindows parses "HH:MM-HH:MM" range specs, as found in
// configuration, into break windows.
func ParseBreakWindows(specs []string) ([]BreakWindow, error) {
	windows := make([]BreakWindow, 0, len(specs))
	for _, spec := range specs {
		start, end, ok := strings.Cut(strings.TrimSpace(spec), "-")
		if !ok {
			return nil, fmt.Errorf("%w: break spec %q", ErrInvalidCatalogConfig, spec)
		}
		w := BreakWindow{Start: SlotID(start), End: SlotID(end)}
		if !w.Start.WellFormed() || !w.End.WellFormed() {
			return nil, fmt.Errorf("%w: break spec %q", ErrInvalidCatalogConfig, spec)
		}
		windows = append(windows, w)
	}
	return windows, nil
}
