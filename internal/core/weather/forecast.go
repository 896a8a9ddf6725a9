package weather

import "time"

// MaxForecastDays is the number of distinct calendar days kept from a forecast feed
const MaxForecastDays = 5

// SelectFiveDays keeps the first sample of each calendar day, in feed order,
// until MaxForecastDays distinct days have been collected. Days are computed in loc.
func SelectFiveDays(samples []ForecastSample, loc *time.Location) []ForecastSample {
	if loc == nil {
		loc = time.UTC
	}

	selected := make([]ForecastSample, 0, MaxForecastDays)
	seen := make(map[time.Time]struct{}, MaxForecastDays)

	for _, sample := range samples {
		if len(seen) == MaxForecastDays {
			break
		}
		day := sample.Date(loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		selected = append(selected, sample)
	}

	return selected
}
