package model

import (
    "database/sql/driver"
    "fmt"
    "strings"
    "time"
)

// DateLayout is the ISO-8601 calendar date format used on the wire.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, normalized to UTC midnight.
type Date struct{ time.Time }

// NewDate truncates t to its calendar date.
func NewDate(t time.Time) Date {
    y, m, d := t.Date()
    return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
    t, err := time.Parse(DateLayout, strings.TrimSpace(s))
    if err != nil {
        return Date{}, err
    }
    return Date{t}, nil
}

func (d Date) String() string {
    if d.IsZero() {
        return ""
    }
    return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
    if d.IsZero() {
        return []byte("null"), nil
    }
    return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
    s := strings.Trim(string(b), `"`)
    if s == "" || s == "null" {
        *d = Date{}
        return nil
    }
    parsed, err := ParseDate(s)
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}

// Scan reads a DATE column.  With parseTime=true the driver hands over a
// time.Time; raw bytes are accepted as a fallback.
func (d *Date) Scan(src any) error {
    switch v := src.(type) {
    case time.Time:
        *d = NewDate(v)
        return nil
    case []byte:
        return d.UnmarshalJSON(v)
    case string:
        return d.UnmarshalJSON([]byte(v))
    case nil:
        *d = Date{}
        return nil
    }
    return fmt.Errorf("model.Date: cannot scan %T", src)
}

func (d Date) Value() (driver.Value, error) {
    if d.IsZero() {
        return nil, nil
    }
    return d.Format(DateLayout), nil
}
