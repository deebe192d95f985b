package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Money is an amount in minor currency units (paise). Two decimal places, no float rounding.
type Money int64

// ParseMoney parses "12", "12.5" or "12.50". Signs, exponents and more than
// two decimals are rejected.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("parse money: empty amount")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !allDigits(whole) {
		return 0, fmt.Errorf("parse money %q: expected a non-negative decimal amount", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}

	var minor int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 || !allDigits(frac) {
			return 0, fmt.Errorf("parse money %q: expected at most 2 decimal digits", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		minor = int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}
	if units > (math.MaxInt64-minor)/100 {
		return 0, fmt.Errorf("parse money %q: amount too large", s)
	}
	return Money(units*100 + minor), nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// String formats the amount with exactly two decimals.
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders money as a decimal string so clients never see float noise.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// EnvDecode lets go-envconfig read amounts such as TRACKING_CROSSING_CALL_COST=2.50.
func (m *Money) EnvDecode(val string) error {
	parsed, err := ParseMoney(val)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Multiply returns the amount times n.
func (m Money) Multiply(n int) Money {
	return m * Money(n)
}

// PeriodKey is the calendar-month key ("2025-10") usage is accounted under.
func PeriodKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// UsagePeriod aggregates paid provider calls for one calendar month.
// CallLimit is advisory: an admin may reset counters or raise it externally.
type UsagePeriod struct {
	Period    string    `json:"period" bson:"_id"`
	Calls     int64     `json:"current_month_usage" bson:"current_month_usage"`
	Cost      Money     `json:"current_month_cost" bson:"current_month_cost"`
	CallLimit int64     `json:"monthly_api_limit" bson:"monthly_api_limit"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Exhausted reports whether no paid call is left this period.
func (u *UsagePeriod) Exhausted() bool {
	return u.Calls >= u.CallLimit
}

// Remaining returns how many calls are left, never negative.
func (u *UsagePeriod) Remaining() int64 {
	if u.Calls >= u.CallLimit {
		return 0
	}
	return u.CallLimit - u.Calls
}
