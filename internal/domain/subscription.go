package domain

import (
	"fmt"
	"time"
)

type PlanType string

const (
	PlanWeekly  PlanType = "Weekly"
	PlanMonthly PlanType = "Monthly"
)

func ParsePlanType(s string) (PlanType, error) {
	switch PlanType(s) {
	case PlanWeekly, PlanMonthly:
		return PlanType(s), nil
	}

	return "", fmt.Errorf("unknown subscription plan %q", s)
}

// PlanPrice is fixed per plan and never taken from the client.
func (p PlanType) PlanPrice() float64 {
	if p == PlanMonthly {
		return 240
	}

	return 70
}

// deliveryDays is the number of days covered by a plan. Sundays are skipped,
// Saturdays deliver (the free Saturday tiffin), so a week buys 6 days and a
// month 24.
func (p PlanType) deliveryDays() int {
	if p == PlanMonthly {
		return 24
	}

	return 6
}

// CityQuarters are the delivery zones used to group subscription deliveries
// for routing.
var CityQuarters = []string{"Downtown", "NE", "NW", "SE", "SW"}

func ValidCityQuarter(q string) bool {
	for _, known := range CityQuarters {
		if known == q {
			return true
		}
	}

	return false
}

type Subscription struct {
	ID              int64    `json:"id" db:"id"`
	UserID          int64    `json:"userId" db:"user_id"`
	PlanType        PlanType `json:"planType" db:"plan_type"`
	Price           float64  `json:"price" db:"price"`
	UserName        string   `json:"userName" db:"user_name"`
	UserPhone       string   `json:"userPhone" db:"user_phone"`
	AddressLine1    string   `json:"addressLine1" db:"address_line1"`
	City            string   `json:"city" db:"city"`
	Province        string   `json:"province" db:"province"`
	Zipcode         string   `json:"zipcode" db:"zipcode"`
	CityQuarter     string   `json:"cityQuarter" db:"city_quarter"`
	MealPreferences string   `json:"mealPreferences" db:"meal_preferences"`
	StartDate       string   `json:"startDate" db:"start_date"`
	EndDate         string   `json:"endDate" db:"end_date"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

const dateLayout = "2006-01-02"

// EndDate walks forward from start one calendar day at a time, counting every
// non-Sunday toward the plan's delivery days, and returns the date the last
// counted day lands on. The result is always a non-Sunday.
func EndDate(start string, plan PlanType) (string, error) {
	date, err := time.Parse(dateLayout, start)
	if err != nil {
		return "", fmt.Errorf("invalid start date %q: %w", start, err)
	}

	remaining := plan.deliveryDays()
	for remaining > 0 {
		date = date.AddDate(0, 0, 1)
		if date.Weekday() != time.Sunday {
			remaining--
		}
	}

	return date.Format(dateLayout), nil
}
