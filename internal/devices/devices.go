// package devices normalizes loosely typed IoT sensor payloads into typed view models
package devices

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/desertthunder/sfx/internal/shared"
)

// Type identifies a sensor family.
type Type string

const (
	PeopleCounter Type = "people_counter"
	LiquidLevel   Type = "liquid_level"
	Capture       Type = "capture"
	DoorWindow    Type = "door_window"
	ToiletPaper   Type = "toilet_paper"
	AirSensor     Type = "air_sensor"
)

// Types lists every supported [Type].
var Types = []Type{PeopleCounter, LiquidLevel, Capture, DoorWindow, ToiletPaper, AirSensor}

// Payload is a raw device report as received from the dashboard API.
//
// Value and History entries are left untyped; normalizers read them field by field.
type Payload struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	Type    Type             `json:"type"`
	Value   map[string]any   `json:"value"`
	History []map[string]any `json:"history,omitempty"`
}

// Device is a normalized payload. Value holds one of the *Value types in this package.
//
// History is []AirReading for air sensors and the raw history for every other type.
type Device struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    Type   `json:"type"`
	Value   any    `json:"value"`
	History any    `json:"history,omitempty"`
}

type PeopleCounterValue struct {
	In        float64 `json:"in"`
	Out       float64 `json:"out"`
	Battery   float64 `json:"battery"`
	UpdatedAt string  `json:"updatedAt"`
}

// Level is a liquid level bucket.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

type LiquidLevelValue struct {
	Level     Level   `json:"level"`
	Battery   float64 `json:"battery"`
	UpdatedAt string  `json:"updatedAt"`
}

type CaptureValue struct {
	Status    string  `json:"status"`
	Battery   float64 `json:"battery"`
	Distance  float64 `json:"distance"`
	UpdatedAt string  `json:"updatedAt"`
}

type DoorWindowValue struct {
	Status    string  `json:"status"`
	Battery   float64 `json:"battery"`
	Deployed  string  `json:"deployed"`
	UpdatedAt string  `json:"updatedAt"`
}

type ToiletPaperValue struct {
	Percent   float64 `json:"percent"`
	Battery   float64 `json:"battery"`
	Distance  float64 `json:"distance"`
	UpdatedAt string  `json:"updatedAt"`
}

// AirReading is an air sensor sample. Missing or non-numeric measurements are nil.
type AirReading struct {
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	CO2         *float64 `json:"co2"`
	UpdatedAt   string   `json:"updatedAt"`
}

func (r AirReading) empty() bool {
	return r.Temperature == nil && r.Humidity == nil && r.CO2 == nil
}

// EnsureNumber returns v as a float64 when it is a finite number, otherwise def.
//
// Strings are never parsed: "12" yields def.
func EnsureNumber(v any, def float64) float64 {
	if f, ok := number(v); ok {
		return f
	}
	return def
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func optionalNumber(v any) *float64 {
	if f, ok := number(v); ok {
		return &f
	}
	return nil
}

// truthy mirrors loose boolean coercion of decoded JSON: nil, false, 0, NaN and "" are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	default:
		if f, ok := number(v); ok {
			return f != 0
		}
		if f, isFloat := v.(float64); isFloat && math.IsNaN(f) {
			return false
		}
		return true
	}
}

func str(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// NormalizePeopleCounter reads in, out and battery counters, defaulting each to 0.
func NormalizePeopleCounter(p Payload) Device {
	return device(p, PeopleCounterValue{
		In:        EnsureNumber(p.Value["in"], 0),
		Out:       EnsureNumber(p.Value["out"], 0),
		Battery:   EnsureNumber(p.Value["battery"], 0),
		UpdatedAt: str(p.Value["updatedAt"]),
	})
}

// NormalizeLiquidLevel keeps a known level and falls back to high otherwise.
func NormalizeLiquidLevel(p Payload) Device {
	level := LevelHigh
	switch l := Level(str(p.Value["level"])); l {
	case LevelHigh, LevelMedium, LevelLow:
		level = l
	}
	return device(p, LiquidLevelValue{
		Level:     level,
		Battery:   EnsureNumber(p.Value["battery"], 0),
		UpdatedAt: str(p.Value["updatedAt"]),
	})
}

// NormalizeCapture reports "occupied" for any truthy status and "vacant" otherwise.
func NormalizeCapture(p Payload) Device {
	status := "vacant"
	if truthy(p.Value["status"]) {
		status = "occupied"
	}
	return device(p, CaptureValue{
		Status:    status,
		Battery:   EnsureNumber(p.Value["battery"], 0),
		Distance:  EnsureNumber(p.Value["distance"], 0),
		UpdatedAt: str(p.Value["updatedAt"]),
	})
}

// NormalizeDoorWindow reports "open" only for status "open".
//
// A zero or missing battery is replaced by the most recent history entry (by _time) that
// carries a numeric battery. Deployed defaults to "00".
func NormalizeDoorWindow(p Payload) Device {
	status := "closed"
	if str(p.Value["status"]) == "open" {
		status = "open"
	}

	battery := EnsureNumber(p.Value["battery"], 0)
	if battery == 0 {
		if b, ok := latestBattery(p.History); ok {
			battery = b
		}
	}

	deployed := "00"
	if d := p.Value["deployed"]; truthy(d) {
		if s, ok := d.(string); ok {
			deployed = s
		} else {
			deployed = fmt.Sprint(d)
		}
	}

	return device(p, DoorWindowValue{
		Status:    status,
		Battery:   battery,
		Deployed:  deployed,
		UpdatedAt: str(p.Value["updatedAt"]),
	})
}

// latestBattery returns the battery of the newest history record carrying one.
// Records with an unparsable _time sort as oldest; ties keep the earlier record.
func latestBattery(history []map[string]any) (float64, bool) {
	var (
		best   float64
		bestAt time.Time
		found  bool
	)
	for _, rec := range history {
		b, ok := number(rec["battery"])
		if !ok {
			continue
		}
		at, _ := ParseTime(str(rec["_time"]))
		if !found || at.After(bestAt) {
			best, bestAt, found = b, at, true
		}
	}
	return best, found
}

// NormalizeToiletPaper reads percent, battery and distance, defaulting each to 0.
func NormalizeToiletPaper(p Payload) Device {
	return device(p, ToiletPaperValue{
		Percent:   EnsureNumber(p.Value["percent"], 0),
		Battery:   EnsureNumber(p.Value["battery"], 0),
		Distance:  EnsureNumber(p.Value["distance"], 0),
		UpdatedAt: str(p.Value["updatedAt"]),
	})
}

// NormalizeAirSensor maps the current reading and its history.
//
// History entries take updatedAt, falling back to _time, and are dropped when all three
// measurements are missing.
func NormalizeAirSensor(p Payload) Device {
	history := make([]AirReading, 0, len(p.History))
	for _, rec := range p.History {
		r := airReading(rec)
		if r.UpdatedAt == "" {
			r.UpdatedAt = str(rec["_time"])
		}
		if r.empty() {
			continue
		}
		history = append(history, r)
	}

	return Device{
		ID:      p.ID,
		Name:    p.Name,
		Type:    p.Type,
		Value:   airReading(p.Value),
		History: history,
	}
}

func airReading(m map[string]any) AirReading {
	return AirReading{
		Temperature: optionalNumber(m["temperature"]),
		Humidity:    optionalNumber(m["humidity"]),
		CO2:         optionalNumber(m["co2"]),
		UpdatedAt:   str(m["updatedAt"]),
	}
}

func device(p Payload, value any) Device {
	d := Device{ID: p.ID, Name: p.Name, Type: p.Type, Value: value}
	if len(p.History) > 0 {
		d.History = p.History
	}
	return d
}

var normalizers = map[Type]func(Payload) Device{
	PeopleCounter: NormalizePeopleCounter,
	LiquidLevel:   NormalizeLiquidLevel,
	Capture:       NormalizeCapture,
	DoorWindow:    NormalizeDoorWindow,
	ToiletPaper:   NormalizeToiletPaper,
	AirSensor:     NormalizeAirSensor,
}

// Normalize dispatches p to the normalizer for its type.
func Normalize(p Payload) (Device, error) {
	fn, ok := normalizers[p.Type]
	if !ok {
		return Device{}, fmt.Errorf("%w: %q (device %d)", shared.ErrUnknownDevice, p.Type, p.ID)
	}
	return fn(p), nil
}

// NormalizeAll normalizes every payload, stopping at the first unknown type.
func NormalizeAll(payloads []Payload) ([]Device, error) {
	out := make([]Device, 0, len(payloads))
	for _, p := range payloads {
		d, err := Normalize(p)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// DecodePayloads decodes either a single payload object or an array of payloads.
func DecodePayloads(data []byte) ([]Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty device payload", shared.ErrInvalidInput)
	}

	if trimmed[0] == '[' {
		var payloads []Payload
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}
		return payloads, nil
	}

	var p Payload
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	return []Payload{p}, nil
}
