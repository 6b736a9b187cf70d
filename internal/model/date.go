package model

import (
    "database/sql/driver"
    "fmt"
    "time"
)

// Date is a civil calendar date: a (year, month, day) triple with no time
// of day and no timezone. Event dates are calendar-day resources, so all
// availability arithmetic happens on this type. Converting through a
// zoned time.Time and back must reproduce the identical day, which is why
// the type never stores an offset.
//
// Fields:
//  Year  – four-digit year.
//  Month – 1..12.
//  Day   – 1..31.
type Date struct {
    Year  int        // calendar year
    Month time.Month // calendar month (1..12)
    Day   int        // day of month
}

// DateOf extracts the civil date from a time.Time using its own location.
// Only the Y/M/D components are read; the wall-clock time and offset are
// discarded.
func DateOf(t time.Time) Date {
    y, m, d := t.Date()
    return Date{Year: y, Month: m, Day: d}
}

// Today returns the current civil date in UTC.
func Today() Date { return DateOf(time.Now().UTC()) }

// ParseDate parses a date in YYYY-MM-DD form. Inputs carrying a time
// component (RFC3339 timestamps from older clients) are accepted by
// truncating at the first 10 characters.
func ParseDate(s string) (Date, error) {
    if len(s) > 10 {
        s = s[:10]
    }
    t, err := time.Parse("2006-01-02", s)
    if err != nil {
        return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
    }
    return DateOf(t), nil
}

// IsZero reports whether the date is the zero value.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
    return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// time converts to a time.Time at UTC midnight. Internal helper used for
// day arithmetic; time.Date normalizes out-of-range components, which is
// exactly what AddDays relies on.
func (d Date) time() time.Time {
    return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n civil days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
    return DateOf(d.time().AddDate(0, 0, n))
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool { return d.time().After(other.time()) }

// InMonth reports whether the date falls inside the given month/year window.
func (d Date) InMonth(month time.Month, year int) bool {
    return d.Year == year && d.Month == month
}

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
    return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts quoted YYYY-MM-DD strings as well as full
// timestamps (the date part is kept, the rest ignored).
func (d *Date) UnmarshalJSON(b []byte) error {
    s := string(b)
    if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
        return fmt.Errorf("invalid date literal %s", s)
    }
    parsed, err := ParseDate(s[1 : len(s)-1])
    if err != nil {
        return err
    }
    *d = parsed
    return nil
}

// Value implements driver.Valuer so a Date can be written to a DATE column.
func (d Date) Value() (driver.Value, error) { return d.String(), nil }

// Scan implements sql.Scanner. The mysql driver returns DATE columns as
// time.Time when parseTime=true; strings and byte slices are handled for
// drivers that do not parse.
func (d *Date) Scan(src interface{}) error {
    switch v := src.(type) {
    case time.Time:
        *d = DateOf(v)
        return nil
    case []byte:
        parsed, err := ParseDate(string(v))
        if err != nil {
            return err
        }
        *d = parsed
        return nil
    case string:
        parsed, err := ParseDate(v)
        if err != nil {
            return err
        }
        *d = parsed
        return nil
    case nil:
        *d = Date{}
        return nil
    }
    return fmt.Errorf("cannot scan %T into Date", src)
}
