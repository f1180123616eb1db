// Package devices turns heterogeneous sensor reports into uniform, typed values for display.
//
// Each [Type] has a named normalizer; [Normalize] dispatches on the payload type and returns
// [shared.ErrUnknownDevice] for anything else. Normalizers never fail: missing or malformed
// fields fall back to documented defaults via [EnsureNumber] and the per-type rules below.
//
//   - people_counter : in, out and battery default to 0
//   - liquid_level : level outside high/medium/low becomes high
//   - capture : any truthy status is "occupied", otherwise "vacant"
//   - door_window : only "open" is open; a zero battery falls back to history; deployed defaults to "00"
//   - toilet_paper : percent, battery and distance default to 0
//   - air_sensor : temperature, humidity and co2 are nil when absent; empty history samples are dropped
package devices
