package devices

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

// ParseTime parses the timestamp formats seen in device reports.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Describe renders a one-line status for d, with the update time relative to now.
func Describe(d Device, now time.Time) string {
	var parts []string
	var updatedAt string

	switch v := d.Value.(type) {
	case PeopleCounterValue:
		parts = append(parts,
			fmt.Sprintf("in %s", humanize.Comma(int64(v.In))),
			fmt.Sprintf("out %s", humanize.Comma(int64(v.Out))),
			battery(v.Battery))
		updatedAt = v.UpdatedAt
	case LiquidLevelValue:
		parts = append(parts, "level "+string(v.Level), battery(v.Battery))
		updatedAt = v.UpdatedAt
	case CaptureValue:
		parts = append(parts, v.Status, battery(v.Battery), "distance "+humanize.Ftoa(v.Distance))
		updatedAt = v.UpdatedAt
	case DoorWindowValue:
		parts = append(parts, v.Status, battery(v.Battery), "deployed "+v.Deployed)
		updatedAt = v.UpdatedAt
	case ToiletPaperValue:
		parts = append(parts, humanize.Ftoa(v.Percent)+"% left", battery(v.Battery))
		updatedAt = v.UpdatedAt
	case AirReading:
		parts = append(parts,
			measurement("temp", v.Temperature, "°C"),
			measurement("humidity", v.Humidity, "%"),
			measurement("co2", v.CO2, "ppm"))
		if h, ok := d.History.([]AirReading); ok && len(h) > 0 {
			parts = append(parts, fmt.Sprintf("%d samples", len(h)))
		}
		updatedAt = v.UpdatedAt
	}

	line := fmt.Sprintf("%s (%s): %s", d.Name, d.Type, strings.Join(parts, ", "))
	if t, ok := ParseTime(updatedAt); ok {
		line += ", updated " + humanize.RelTime(t, now, "ago", "from now")
	}
	return line
}

func battery(v float64) string {
	return "battery " + humanize.Ftoa(v) + "%"
}

func measurement(label string, v *float64, unit string) string {
	if v == nil {
		return label + " n/a"
	}
	return label + " " + humanize.Ftoa(*v) + unit
}
