// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show applied and pending migrations",
				Action: r.SetupStatus,
			},
		},
	}
}

// searchCommand runs one aggregated catalog search.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search the track catalog and print every merged result",
		ArgsUsage: "QUERY",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Do not store fetched tracks in the local track cache",
			},
		},
		Action: r.Search,
	}
}

// serveCommand starts the HTTP API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the catalog search proxy and ticket API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the ticket list in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// ticketsCommand handles stored ticket operations
func ticketsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tickets",
		Aliases: []string{"t"},
		Usage:   "List, inspect and export saved tickets",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved tickets",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tickets to return",
						Value: 100,
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Only tickets for this artist",
					},
					&cli.StringFlag{
						Name:  "search",
						Usage: "Case-insensitive concert name filter",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TicketsList,
			},
			{
				Name:      "show",
				Usage:     "Show a ticket and its setlist",
				ArgsUsage: "ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TicketsShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete a ticket",
				ArgsUsage: "ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TicketsDelete,
			},
			{
				Name:      "export",
				Usage:     "Export one ticket, or all of them with --all",
				ArgsUsage: "[ID]",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "dir",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: current directory, or setlist_export_<epoch> with --all)",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every saved ticket and write a manifest",
					},
					&cli.BoolFlag{
						Name:  "covers",
						Usage: "Download the first song's cover for markdown exports",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers for --all",
						Value: 5,
					},
				},
				Action: r.TicketsExport,
			},
		},
	}
}

// cacheCommand inspects the local track cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect catalog tracks cached by searches",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Only tracks by this artist",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
		},
	}
}

// tuiCommand launches the interactive ticket form
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "Create or edit a ticket interactively",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "edit",
				Usage: "ID of a saved ticket to edit",
			},
			&cli.StringFlag{
				Name:  "remote",
				Usage: "Base URL of a running `setlist serve` to search and save through",
			},
		},
		Action: r.TUI,
	}
}

// apiCommand handles direct calls to a running server
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to a running setlist server",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints the response",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output compact JSON",
					},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "path",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
		},
	}
}
