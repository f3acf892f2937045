package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time or zone component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &ValidationError{
			Field:   "date",
			Value:   s,
			Message: "invalid date format, expected YYYY-MM-DD",
		}
	}
	return DateOf(t), nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// MarshalJSON renders the date as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &ValidationError{Field: "date", Value: string(data), Message: "date must be a string"}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeatherForecastSummary enumerates the canonical summary labels.
type WeatherForecastSummary int

const (
	SummaryHot WeatherForecastSummary = iota
	SummaryCold
	SummaryFreezing
	SummaryScorching
	SummaryBurning
)

var summaryNames = []string{"Hot", "Cold", "Freezing", "Scorching", "Burning"}

func (s WeatherForecastSummary) String() string {
	if s < 0 || int(s) >= len(summaryNames) {
		return fmt.Sprintf("WeatherForecastSummary(%d)", int(s))
	}
	return summaryNames[s]
}

// MarshalText renders the summary by name.
func (s WeatherForecastSummary) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(summaryNames) {
		return nil, fmt.Errorf("invalid summary value %d", int(s))
	}
	return []byte(summaryNames[s]), nil
}

// UnmarshalText parses a summary name case-insensitively.
func (s *WeatherForecastSummary) UnmarshalText(text []byte) error {
	for i, name := range summaryNames {
		if strings.EqualFold(name, string(text)) {
			*s = WeatherForecastSummary(i)
			return nil
		}
	}
	return &ValidationError{Field: "summary", Value: string(text), Message: "unknown summary"}
}

// WeatherForecast is one forecast record.
// Identity is assigned by the store and never changes afterwards.
type WeatherForecast struct {
	Date         Date
	TemperatureC int     `validate:"gte=-273,lte=1000"`
	Summary      *string `validate:"omitempty,max=64"`
	ID           int
}

// TemperatureF derives Fahrenheit from Celsius.
// The division is done in floating point and truncated toward zero, so 25°C is 76°F.
func (f WeatherForecast) TemperatureF() int {
	return 32 + int(float64(f.TemperatureC)/0.5556)
}

// SummaryText returns the summary or the empty string when absent.
func (f WeatherForecast) SummaryText() string {
	if f.Summary == nil {
		return ""
	}
	return *f.Summary
}

// Clone returns a copy that shares no memory with f.
func (f WeatherForecast) Clone() WeatherForecast {
	if f.Summary != nil {
		s := *f.Summary
		f.Summary = &s
	}
	return f
}

type weatherForecastJSON struct {
	Date         Date    `json:"date"`
	TemperatureC int     `json:"temperatureC"`
	TemperatureF int     `json:"temperatureF"`
	Summary      *string `json:"summary"`
	ID           int     `json:"id"`
}

// MarshalJSON renders {date, temperatureC, temperatureF, summary, id}.
func (f WeatherForecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(weatherForecastJSON{
		Date:         f.Date,
		TemperatureC: f.TemperatureC,
		TemperatureF: f.TemperatureF(),
		Summary:      f.Summary,
		ID:           f.ID,
	})
}

// UnmarshalJSON ignores temperatureF, which is always derived.
func (f *WeatherForecast) UnmarshalJSON(data []byte) error {
	var raw weatherForecastJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = WeatherForecast{
		Date:         raw.Date,
		TemperatureC: raw.TemperatureC,
		Summary:      raw.Summary,
		ID:           raw.ID,
	}
	return nil
}

// Link is a hypermedia link attached to a resource representation.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// WeatherForecastResource wraps a forecast with its links.
type WeatherForecastResource struct {
	WeatherForecast WeatherForecast `json:"weatherForecast"`
	Links           []Link          `json:"links"`
}

// PostModel is the create request body.
type PostModel struct {
	TemperatureC int     `json:"temperatureC" validate:"gte=-273,lte=1000"`
	Summary      *string `json:"summary" validate:"omitempty,max=64"`
}

// PutModel is the replace request body.
type PutModel struct {
	WeatherForecast *WeatherForecast `json:"weatherForecast" validate:"required"`
}

// Validate rejects a replacement without a date, which would otherwise be
// stored as a zero date that ParseDate cannot read back.
func (m PutModel) Validate() error {
	if m.WeatherForecast != nil && m.WeatherForecast.Date.IsZero() {
		return &ValidationError{Field: "weatherForecast.date", Message: "date is required"}
	}
	return nil
}

// PatchModel is the partial update request body.
type PatchModel struct {
	TemperatureC int `json:"temperatureC" validate:"gte=-273,lte=1000"`
}

// DeleteOutcome is the three-way result of a delete request.
type DeleteOutcome int

const (
	OutcomeNoContent DeleteOutcome = iota
	OutcomeNotFound
	OutcomeBadRequest
)

func (o DeleteOutcome) String() string {
	switch o {
	case OutcomeNoContent:
		return "NoContentSuccess"
	case OutcomeNotFound:
		return "NotFound"
	case OutcomeBadRequest:
		return "BadRequest"
	default:
		return "Unknown"
	}
}

// ValidationError represents a request shape error
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsTransient returns false as validation errors are permanent
func (e *ValidationError) IsTransient() bool {
	return false
}
