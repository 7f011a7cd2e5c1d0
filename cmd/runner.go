package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/calegray/syncopate/internal/library"
	"github.com/calegray/syncopate/internal/shared"
	"github.com/calegray/syncopate/internal/sources"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	logger *log.Logger
	output io.Writer
	input  io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Logger *log.Logger
	Output io.Writer
	Input  io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	return &Runner{logger: opts.Logger, output: opts.Output, input: opts.Input}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		initCommand, syncCommand, resolveCommand, libraryCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// loadConfig reads the config file named by the command's --config flag,
// falling back to defaults when the file is absent.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if _, err := os.Stat(path); err != nil {
		r.logger.Debug("config file not found, using defaults", "path", path)
		return shared.DefaultConfig()
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "err", err)
		return shared.DefaultConfig()
	}
	return config
}

// openLibrary builds and authenticates the Subsonic library adapter, with
// the sqlite lookup cache attached when configured.
func (r *Runner) openLibrary(ctx context.Context, config *shared.Config) (*library.SubsonicLibrary, error) {
	sub := config.Credentials.Subsonic
	if sub.URL == "" {
		return nil, fmt.Errorf("%w: subsonic url", shared.ErrMissingConfig)
	}

	var cache *library.LookupCache
	if config.Cache.Path != "" {
		db, err := shared.NewDatabase(config.Cache.Path)
		if err != nil {
			r.logger.Warn("lookup cache unavailable", "err", err)
		} else {
			shared.ConfigureDatabase(db, config.Cache.MaxOpenConns, config.Cache.MaxIdleConns)
			if cache, err = library.NewLookupCache(db); err != nil {
				r.logger.Warn("lookup cache unavailable", "err", err)
				cache = nil
			}
		}
	}

	lib := library.NewSubsonicLibrary(library.SubsonicOpts{
		URL:               sub.URL,
		Username:          sub.Username,
		Password:          sub.Password,
		RequestsPerSecond: sub.RequestsPerSecond,
		Cache:             cache,
		Logger:            r.logger,
	})
	if err := lib.Authenticate(ctx); err != nil {
		return nil, err
	}
	return lib, nil
}

// openSource builds the source adapter named by --from.
func (r *Runner) openSource(ctx context.Context, config *shared.Config, kind string) (sources.Source, error) {
	switch kind {
	case "spotify":
		creds := config.Credentials.Spotify
		src := sources.NewSpotifySource(creds.ClientID, creds.ClientSecret)
		if err := src.Authenticate(ctx); err != nil {
			return nil, err
		}
		return src, nil
	case "file":
		return sources.NewFileSource(), nil
	default:
		return nil, fmt.Errorf("%w: unknown source %q", shared.ErrInvalidFlag, kind)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
