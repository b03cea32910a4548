package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Frequency 描述习惯的执行周期
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// Frequencies lists the accepted values in display order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// ParseFrequency accepts any casing and surrounding whitespace.
func ParseFrequency(raw string) (Frequency, error) {
	candidate := Frequency(strings.ToUpper(strings.TrimSpace(raw)))
	if !candidate.Valid() {
		return "", fmt.Errorf("unsupported frequency %q", raw)
	}
	return candidate, nil
}

// Valid reports whether f is one of the enumerated frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

func (f Frequency) String() string {
	return string(f)
}

// UnmarshalText rejects values outside the enumeration so a malformed body or
// patch never produces a habit with an unknown frequency.
func (f *Frequency) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*f = ""
		return nil
	}
	parsed, err := ParseFrequency(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Value implements driver.Valuer.
func (f Frequency) Value() (driver.Value, error) {
	return string(f), nil
}

// Scan implements sql.Scanner.
func (f *Frequency) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = ""
	case string:
		*f = Frequency(v)
	case []byte:
		*f = Frequency(string(v))
	default:
		return fmt.Errorf("scan frequency: unsupported type %T", src)
	}
	return nil
}
