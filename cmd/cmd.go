// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// initCommand writes a starter configuration file
func initCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "init",
		Usage:  "Create a starter config.toml",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Init,
	}
}

// syncCommand resolves and reconciles playlists into the library
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Resolve a source playlist against the library and sync a target playlist",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringSliceFlag{
				Name:     "source",
				Aliases:  []string{"s"},
				Usage:    "Source playlist reference (Spotify ID/URL or file path); repeatable",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Source adapter: spotify or file",
				Value: "spotify",
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Target playlist name (defaults to the source playlist's name)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Compute the plan without applying it",
			},
			&cli.BoolFlag{
				Name:  "non-interactive",
				Usage: "Skip low-confidence matches instead of prompting",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the run summary as JSON",
			},
		},
		Action: r.Sync,
	}
}

// resolveCommand resolves a single track reference for debugging
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve a single \"Title - Artist\" reference against the library",
		ArgsUsage: "<title - artist>",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output ranked candidates as JSON",
			},
		},
		Action: r.Resolve,
	}
}

// libraryCommand handles direct library queries
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "Query the local media library",
		Commands: []*cli.Command{
			{
				Name:      "artists",
				Usage:     "Search library artists by name",
				ArgsUsage: "<name>",
				Flags:     []cli.Flag{configFlag()},
				Action:    r.LibraryArtists,
			},
			{
				Name:      "search",
				Usage:     "Library-wide track search by title",
				ArgsUsage: "<title>",
				Flags:     []cli.Flag{configFlag()},
				Action:    r.LibrarySearch,
			},
			{
				Name:   "playlists",
				Usage:  "List library playlists",
				Flags:  []cli.Flag{configFlag()},
				Action: r.LibraryPlaylists,
			},
		},
	}
}

// cacheCommand manages the lookup cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the library lookup cache",
		Commands: []*cli.Command{
			{
				Name:   "clear",
				Usage:  "Drop all cached lookups",
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheClear,
			},
		},
	}
}
