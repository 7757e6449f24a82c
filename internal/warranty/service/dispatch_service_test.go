package service

import (
	"testing"
)

func TestDispatchScore(t *testing.T) {
	cases := []struct {
		name            string
		rating          float64
		avgResponseDays float64
		availableTechs  int
		want            float64
	}{
		{"top center", 5, 1, 3, 100},
		{"typical center", 4.5, 2, 3, 81},
		{"no available technicians", 2.5, 3, 0, 30},
		{"sub-day response clamped to one day", 4, 0.5, 2, 92},
		{"rounded to one decimal", 4.2, 3, 0, 43.6},
		{"unrated center with techs", 0, 5, 1, 36},
	}
	for _, tc := range cases {
		if got := dispatchScore(tc.rating, tc.avgResponseDays, tc.availableTechs); got != tc.want {
			t.Errorf("%s: dispatchScore(%v, %v, %d) = %v, want %v",
				tc.name, tc.rating, tc.avgResponseDays, tc.availableTechs, got, tc.want)
		}
	}
}
