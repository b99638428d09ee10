// Package rules contains the pure calculation logic for game mechanics.
// This package is PURE and must NOT import any infrastructure packages.
package rules

// EscapeChance computes the probability that a restrained pet breaks free on
// a single struggle roll. Each completed grooming step lowers the chance by
// reductionPerStep, floored at zero.
func EscapeChance(baseChance float64, reductionPerStep float64, completedSteps int) float64 {
	chance := baseChance - float64(completedSteps)*reductionPerStep
	if chance < 0 {
		return 0
	}
	return chance
}

// MischiefThreshold returns the match-ending mischief value for a given
// number of pets. Three or more pets fill the meter faster, so they need more.
func MischiefThreshold(petCount int) int {
	if petCount >= 3 {
		return 1000
	}
	return 800
}

// AlertTriggerValue returns the mischief value at which the salon goes on
// alert, offset points before the losing threshold.
func AlertTriggerValue(threshold int, offset int) int {
	return threshold - offset
}

// GroomerSpeedMultiplier combines the carry penalty and the alert bonus.
// Both factors apply multiplicatively to the groomer's base move speed.
func GroomerSpeedMultiplier(isCarrying bool, isAlertActive bool, carryFactor float64, alertBonus float64) float64 {
	m := 1.0
	if isCarrying {
		m *= carryFactor
	}
	if isAlertActive {
		m *= 1.0 + alertBonus
	}
	return m
}
