package rules

import (
	"strconv"
	"strings"

	"github.com/sumitgk2003/SSD-Skill-Swap-G20-sub000/internal/domain/model"
)

// ParseClock converts an "HH:MM" string to minutes since midnight.
// It accepts exactly two colon-separated numeric fields with minutes in
// 0..59; anything else reports false.
func ParseClock(value string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 2 {
		return 0, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}

	return hours*60 + minutes, true
}

// SlotsOverlap reports whether two weekly slots share a half-open interval
// on the same day: max(startA, startB) < min(endA, endB). Touching slots
// (09:00-10:00 vs 10:00-11:00) do not overlap. A slot with a malformed
// clock string never overlaps anything; the pair is skipped, not an error.
// Clock values are compared raw, without timezone normalization.
func SlotsOverlap(a, b model.AvailabilitySlot) bool {
	if a.DayOfWeek != b.DayOfWeek {
		return false
	}

	startA, ok := ParseClock(a.Start)
	if !ok {
		return false
	}
	endA, ok := ParseClock(a.End)
	if !ok {
		return false
	}
	startB, ok := ParseClock(b.Start)
	if !ok {
		return false
	}
	endB, ok := ParseClock(b.End)
	if !ok {
		return false
	}

	start := startA
	if startB > start {
		start = startB
	}
	end := endA
	if endB < end {
		end = endB
	}

	return start < end
}

// AnyOverlap reports whether any slot in as overlaps any slot in bs.
func AnyOverlap(as, bs []model.AvailabilitySlot) bool {
	for _, a := range as {
		for _, b := range bs {
			if SlotsOverlap(a, b) {
				return true
			}
		}
	}
	return false
}

// ValidSlot checks the structural shape of a slot on the profile-update
// path. Start < end is deliberately not enforced.
func ValidSlot(slot model.AvailabilitySlot) bool {
	if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
		return false
	}
	if _, ok := ParseClock(slot.Start); !ok {
		return false
	}
	if _, ok := ParseClock(slot.End); !ok {
		return false
	}
	return true
}
