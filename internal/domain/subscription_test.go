package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePlanType(t *testing.T) {
	plan, err := ParsePlanType("Weekly")
	require.NoError(t, err)
	require.Equal(t, PlanWeekly, plan)

	plan, err = ParsePlanType("Monthly")
	require.NoError(t, err)
	require.Equal(t, PlanMonthly, plan)

	_, err = ParsePlanType("weekly")
	require.Error(t, err)

	_, err = ParsePlanType("Yearly")
	require.Error(t, err)
}

func TestPlanPrice(t *testing.T) {
	require.Equal(t, 70.0, PlanWeekly.PlanPrice())
	require.Equal(t, 240.0, PlanMonthly.PlanPrice())
}

func TestEndDateWeekly(t *testing.T) {
	// 2024-01-01 is a Monday; six delivery days later, skipping Sunday the
	// 7th, lands on Monday the 8th.
	end, err := EndDate("2024-01-01", PlanWeekly)
	require.NoError(t, err)
	require.Equal(t, "2024-01-08", end)
}

func TestEndDateMonthly(t *testing.T) {
	end, err := EndDate("2024-01-01", PlanMonthly)
	require.NoError(t, err)
	require.Equal(t, "2024-01-29", end)
}

func TestEndDateStartingBeforeSunday(t *testing.T) {
	// 2024-03-02 is a Saturday, so the walk immediately skips Sunday the 3rd.
	end, err := EndDate("2024-03-02", PlanWeekly)
	require.NoError(t, err)
	require.Equal(t, "2024-03-09", end)
}

func TestEndDateNeverLandsOnSunday(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")

		for _, plan := range []PlanType{PlanWeekly, PlanMonthly} {
			end, err := EndDate(day, plan)
			require.NoError(t, err)

			parsed, err := time.Parse("2006-01-02", end)
			require.NoError(t, err)
			require.NotEqual(t, time.Sunday, parsed.Weekday(), "start %s plan %s", day, plan)
			require.True(t, parsed.After(start.AddDate(0, 0, i)))
		}
	}
}

func TestEndDateInvalidStart(t *testing.T) {
	_, err := EndDate("01/02/2024", PlanWeekly)
	require.Error(t, err)

	_, err = EndDate("", PlanMonthly)
	require.Error(t, err)
}

func TestValidCityQuarter(t *testing.T) {
	for _, q := range CityQuarters {
		require.True(t, ValidCityQuarter(q))
	}

	require.False(t, ValidCityQuarter("North"))
	require.False(t, ValidCityQuarter(""))
	require.False(t, ValidCityQuarter("downtown"))
}
