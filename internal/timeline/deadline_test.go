package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBusinessDaysLeft(t *testing.T) {
	tests := []struct {
		name     string
		today    string
		deadline string
		want     int
	}{
		{name: "deadline is today", today: "2024-01-10", deadline: "2024-01-10", want: 0},
		{name: "deadline passed", today: "2024-01-10", deadline: "2024-01-01", want: 0},
		{name: "saturday to monday skips sunday", today: "2024-01-06", deadline: "2024-01-08", want: 1},
		{name: "sunday to monday counts nothing", today: "2024-01-07", deadline: "2024-01-08", want: 0},
		{name: "saturday to sunday counts saturday", today: "2024-01-06", deadline: "2024-01-07", want: 1},
		{name: "two full weeks", today: "2024-01-08", deadline: "2024-01-22", want: 12},
		{name: "across month end", today: "2024-01-30", deadline: "2024-02-02", want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BusinessDaysLeft(day(tt.today), day(tt.deadline), time.Sunday)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBusinessDaysLeft_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2024, 1, 8, 23, 59, 0, 0, time.Local)
	assert.Equal(t, 1, BusinessDaysLeft(today, day("2024-01-09"), time.Sunday))
}

func TestBusinessDaysLeft_ConfigurableWeekday(t *testing.T) {
	// Monday 2024-01-08 .. Monday 2024-01-15, excluding Friday.
	assert.Equal(t, 6, BusinessDaysLeft(day("2024-01-08"), day("2024-01-15"), time.Friday))
}

func TestBusinessDaysLeft_Monotonic(t *testing.T) {
	today := day("2024-01-03")
	prev := 0
	for i := 0; i < 60; i++ {
		d := today.AddDate(0, 0, i)
		got := BusinessDaysLeft(today, d, time.Sunday)
		require.GreaterOrEqual(t, got, prev, "deadline %s", d.Format("2006-01-02"))
		prev = got
	}
}

func TestBusinessDaysLeft_NeverNegative(t *testing.T) {
	today := day("2024-03-15")
	for i := 1; i < 400; i += 7 {
		assert.Equal(t, 0, BusinessDaysLeft(today, today.AddDate(0, 0, -i), time.Sunday))
	}
}

func TestDaysLeft(t *testing.T) {
	today := day("2024-01-06")
	assert.Nil(t, DaysLeft(today, "", time.Sunday))
	assert.Nil(t, DaysLeft(today, "2024-13-01", time.Sunday))
	assert.Nil(t, DaysLeft(today, "soon", time.Sunday))

	got := DaysLeft(today, "2024-01-08", time.Sunday)
	require.NotNil(t, got)
	assert.Equal(t, 1, *got)

	got = DaysLeft(today, "2023-12-01", time.Sunday)
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)
}
