// Package points holds the leveling policy: the rule that turns a
// cumulative energy-point total into a level number.
//
// It is deliberately a tiny, dependency-free package. The policy is a
// pure function, so both the service layer and the tests can call it
// without dragging in storage or HTTP concerns.
package points

// PointsPerLevel is how many energy points one level spans.
const PointsPerLevel = 1000

// LevelFor maps a cumulative point total to a level.
//
// Level 1 covers 0–999 points, level 2 covers 1000–1999, and so on:
// floor(total/1000) + 1. Deductions can drive a user's total negative;
// a negative total still maps to level 1. Note that the stored level on
// a user never decreases — the award path only raises it (see
// service.PointsService) — so LevelFor is the floor of what a user can
// display, not necessarily the value on the record.
func LevelFor(total int) int {
	if total < 0 {
		return 1
	}
	return total/PointsPerLevel + 1
}
