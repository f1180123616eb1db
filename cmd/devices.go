package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/desertthunder/sfx/internal/devices"
	"github.com/urfave/cli/v3"
)

// DevicesNormalize reads raw sensor payloads and prints them normalized.
//
// The path argument may be omitted or "-" to read from stdin.
func (r *Runner) DevicesNormalize(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")

	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(r.input)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read payloads: %w", err)
	}

	payloads, err := devices.DecodePayloads(data)
	if err != nil {
		return err
	}

	normalized, err := devices.NormalizeAll(payloads)
	if err != nil {
		return err
	}
	r.logger.Debug("normalized devices", "count", len(normalized))

	if cmd.Bool("json") {
		return r.writeJSON(normalized, cmd.Bool("pretty"))
	}

	now := time.Now()
	for _, d := range normalized {
		if err := r.writePlain("%s\n", devices.Describe(d, now)); err != nil {
			return err
		}
	}
	return nil
}
