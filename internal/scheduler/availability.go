package scheduler

import "github.com/noah-isme/aularium-api/internal/models"

// AvailabilityPolicy decides how a teacher without any configured
// availability is treated.
type AvailabilityPolicy string

const (
	// PolicyBlock treats missing availability as unavailable.
	PolicyBlock AvailabilityPolicy = "block"
	// PolicyAllow treats a teacher with no availability map as unconstrained.
	// A missing day inside a configured map still blocks.
	PolicyAllow AvailabilityPolicy = "allow"
)

// ParsePolicy maps a configuration value to a policy, defaulting to block.
func ParsePolicy(raw string) AvailabilityPolicy {
	if AvailabilityPolicy(raw) == PolicyAllow {
		return PolicyAllow
	}
	return PolicyBlock
}

// AvailabilityResult is the outcome of an availability lookup.
type AvailabilityResult struct {
	Available        bool
	Unconfigured     bool
	UnconfiguredDay  bool
	UnavailableHours []models.ClockTime
}

// CheckAvailability reports whether the teacher declared every hour mark
// covered by [start, end) on day.
func CheckAvailability(teacher *models.Teacher, day models.Weekday, start, end models.ClockTime, policy AvailabilityPolicy) AvailabilityResult {
	if teacher == nil {
		return AvailabilityResult{Available: true}
	}
	marks := HourMarks(start, end)

	if !teacher.Availability.Configured() {
		if policy == PolicyAllow {
			return AvailabilityResult{Available: true, Unconfigured: true}
		}
		return AvailabilityResult{Unconfigured: true, UnconfiguredDay: true, UnavailableHours: marks}
	}

	hours, ok := teacher.Availability.Day(day)
	if !ok {
		return AvailabilityResult{UnconfiguredDay: true, UnavailableHours: marks}
	}

	var missing []models.ClockTime
	for _, mark := range marks {
		if !hours[mark] {
			missing = append(missing, mark)
		}
	}
	if len(missing) > 0 {
		return AvailabilityResult{UnavailableHours: missing}
	}
	return AvailabilityResult{Available: true}
}
