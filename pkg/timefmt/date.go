package timefmt

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brightsmile/scheduling-api/pkg/errors"
)

const isoDateLayout = "2006-01-02"

// DateOnly is a calendar date without time-of-day. It marshals to the ISO
// YYYY-MM-DD form and round-trips losslessly through it.
type DateOnly struct {
	t time.Time
}

// NewDateOnly truncates t to midnight in its own location.
func NewDateOnly(t time.Time) DateOnly {
	y, m, d := t.Date()
	return DateOnly{t: time.Date(y, m, d, 0, 0, 0, 0, t.Location())}
}

// ParseDateOnly parses a YYYY-MM-DD string in the given location. A nil
// location means local time.
func ParseDateOnly(s string, loc *time.Location) (DateOnly, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(isoDateLayout, s, loc)
	if err != nil {
		return DateOnly{}, errors.NewFormat(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s))
	}
	return DateOnly{t: t}, nil
}

func (d DateOnly) String() string {
	return d.t.Format(isoDateLayout)
}

// Time returns midnight of the date in its location.
func (d DateOnly) Time() time.Time {
	return d.t
}

func (d DateOnly) IsZero() bool {
	return d.t.IsZero()
}

func (d DateOnly) AddDays(n int) DateOnly {
	return NewDateOnly(d.t.AddDate(0, 0, n))
}

// Before, After and Equal compare calendar days by their ISO form, so two
// dates in different locations that name the same wall-clock day are equal.
func (d DateOnly) Before(o DateOnly) bool {
	return d.String() < o.String()
}

func (d DateOnly) After(o DateOnly) bool {
	return d.String() > o.String()
}

func (d DateOnly) Equal(o DateOnly) bool {
	return d.String() == o.String()
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Value stores the ISO form in the database.
func (d DateOnly) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *DateOnly) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDateOnly(v)
		return nil
	case string:
		parsed, err := ParseDateOnly(v, nil)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into DateOnly", src)
	}
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDateOnly(s, nil)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
