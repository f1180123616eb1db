// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for local configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml populated with defaults",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// playlistCommand handles playlist fetching and exports
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "fetch",
				Usage: "Fetch a playlist by ID or share link and list its tracks",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "playlist",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistFetch,
			},
			{
				Name:  "export",
				Usage: "Export the track lists of one or more playlists to files",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "id",
						Usage:    "Playlist ID or share link (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (text, csv, markdown, json, yaml, table)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: sfx_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent file writers",
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Playlist fetches per second",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// analyzeCommand fetches, enriches and filters a playlist in one pass
func analyzeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"filter"},
		Usage:   "Fetch a playlist, extract track facets and print the filtered list",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "style",
				Usage: "Keep tracks with this style (repeatable, any match)",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Keep tracks with this tag (repeatable, any match)",
			},
			&cli.StringSliceFlag{
				Name:  "lang",
				Usage: "Keep tracks in this language (repeatable, any match)",
			},
			&cli.IntFlag{
				Name:  "bpm-min",
				Usage: "Lowest BPM to keep",
			},
			&cli.IntFlag{
				Name:  "bpm-max",
				Usage: "Highest BPM to keep",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, csv, markdown, json, yaml, table)",
			},
			&cli.BoolFlag{
				Name:  "copy",
				Usage: "Copy the filtered list to the clipboard",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "options",
				Usage: "Also print the available filter values",
			},
		},
		Action: r.Analyze,
	}
}

// apiCommand handles direct upstream API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the upstream music API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET to the upstream API, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
						Value: true,
					},
				},
				Action: r.APIGet,
			},
		},
	}
}

// devicesCommand handles sensor payload normalization
func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "IoT sensor payload tools",
		Commands: []*cli.Command{
			{
				Name:  "normalize",
				Usage: "Normalize raw device payloads read from a file or stdin",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output normalized JSON instead of summaries",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.DevicesNormalize,
			},
		},
	}
}

// serveCommand starts the HTTP API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the playlist analysis HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist analysis.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist analysis",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist",
			},
		},
		Action: r.TUI,
	}
}
