// Package commands implements the folio command line.
package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/folio/internal/config"
)

// Global carries state shared by all commands.
type Global struct {
	Logger *slog.Logger
	// Out receives command output, Err receives logs.
	Out io.Writer
	Err io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"folio.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site"`
	Check   CheckCmd   `cmd:"" help:"Parse and validate content without writing output"`
	Tags    TagsCmd    `cmd:"" help:"List tags and how many documents use them"`
	Plugins PluginsCmd `cmd:"" help:"Show the enabled plugins in execution order"`
	Serve   ServeCmd   `cmd:"" help:"Build, serve locally, and rebuild on changes"`
	New     NewCmd     `cmd:"" help:"Create a content document with front matter for its category"`
	Init    InitCmd    `cmd:"" help:"Create a configuration file and example content"`
}

// AfterApply runs after flag parsing; sets up logging until the
// configuration is loaded.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(os.Stderr, level, config.LogFormatText))
	return nil
}

// setup loads the configuration and switches logging to its level and
// format. -v wins over logging.level.
func (g *Global) setup(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level.SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = newLogger(g.errOut(), level, cfg.Logging.Format)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) errOut() io.Writer {
	if g.Err == nil {
		return os.Stderr
	}
	return g.Err
}

// absPath resolves a flag path against the working directory.
func absPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
