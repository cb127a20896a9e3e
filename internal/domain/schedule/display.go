package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSlot renders a slot identifier for display, e.g. "09:00" -> "9:00 AM".
func FormatSlot(s SlotID) string {
	if !s.WellFormed() {
		return string(s)
	}
	parts := strings.SplitN(string(s), ":", 2)
	hour, _ := strconv.Atoi(parts[0])

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour
	switch {
	case hour > 12:
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, parts[1], period)
}

// SlotGroups buckets slots into the day periods the booking UI renders.
type SlotGroups struct {
	Morning   []SlotID `json:"morning"`
	Afternoon []SlotID `json:"afternoon"`
	Evening   []SlotID `json:"evening"`
}

// GroupByPeriod splits slots into morning (before 12:00), afternoon
// (12:00-16:59) and evening (17:00 onward) buckets, preserving order.
func GroupByPeriod(slots []SlotID) SlotGroups {
	g := SlotGroups{
		Morning:   []SlotID{},
		Afternoon: []SlotID{},
		Evening:   []SlotID{},
	}
	for _, s := range slots {
		switch {
		case s < "12:00":
			g.Morning = append(g.Morning, s)
		case s < "17:00":
			g.Afternoon = append(g.Afternoon, s)
		default:
			g.Evening = append(g.Evening, s)
		}
	}
	return g
}
