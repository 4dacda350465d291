package domain

import (
	"time"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
)

// Date is a calendar day without a time zone.
type Date struct {
	t time.Time
}

func ParseDate(value string) (Date, error) {
	t, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

func DateOf(t time.Time) Date {
	return Date{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format(constants.DateLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
