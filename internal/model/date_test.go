package model

import (
    "encoding/json"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

func TestParseDateRoundTrip(t *testing.T) {
    d, err := ParseDate("2025-03-10")
    assert.NoError(t, err)
    assert.Equal(t, 2025, d.Year)
    assert.Equal(t, time.March, d.Month)
    assert.Equal(t, 10, d.Day)
    assert.Equal(t, "2025-03-10", d.String())
}

func TestParseDateTruncatesTimestamp(t *testing.T) {
    // Timestamps serialized by JS clients carry a time suffix; only the
    // civil day matters.
    d, err := ParseDate("2025-03-10T00:00:00.000Z")
    assert.NoError(t, err)
    assert.Equal(t, "2025-03-10", d.String())
}

func TestParseDateRejectsGarbage(t *testing.T) {
    _, err := ParseDate("10/03/2025")
    assert.Error(t, err)
    _, err = ParseDate("")
    assert.Error(t, err)
}

func TestAddDaysAcrossMonthAndYear(t *testing.T) {
    d, _ := ParseDate("2025-01-30")
    assert.Equal(t, "2025-02-01", d.AddDays(2).String())

    d, _ = ParseDate("2025-12-31")
    assert.Equal(t, "2026-01-01", d.AddDays(1).String())

    // Leap day.
    d, _ = ParseDate("2024-02-28")
    assert.Equal(t, "2024-02-29", d.AddDays(1).String())
}

func TestAddDaysThenSubtractReproducesDay(t *testing.T) {
    d, _ := ParseDate("2025-06-15")
    assert.Equal(t, d, d.AddDays(40).AddDays(-40))
}

func TestBeforeAfter(t *testing.T) {
    a, _ := ParseDate("2025-03-10")
    b, _ := ParseDate("2025-03-11")
    assert.True(t, a.Before(b))
    assert.True(t, b.After(a))
    assert.False(t, a.Before(a))
    assert.False(t, a.After(a))
}

func TestInMonth(t *testing.T) {
    d, _ := ParseDate("2025-03-31")
    assert.True(t, d.InMonth(time.March, 2025))
    assert.False(t, d.InMonth(time.April, 2025))
    assert.False(t, d.InMonth(time.March, 2024))
}

func TestDateJSONRoundTrip(t *testing.T) {
    d, _ := ParseDate("2025-03-10")
    raw, err := json.Marshal(d)
    assert.NoError(t, err)
    assert.Equal(t, `"2025-03-10"`, string(raw))

    var back Date
    assert.NoError(t, json.Unmarshal(raw, &back))
    assert.Equal(t, d, back)
}
