package mansion

import (
	"log/slog"

	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/config"
	"github.com/cpltasks/cpltasks/hostinfo"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

type DoCommand func(ctx *Context)

type Context struct {
	App      *kingpin.Application
	Commands map[string]DoCommand

	// VersionString is the complete version string
	VersionString string

	// Version is just the version number, as a string
	Version string

	// The git commit hash
	Commit string

	// Quiet silences all output
	Quiet bool

	// Verbose enables chatty output
	Verbose bool

	// JSON enables JSON-lines output
	JSON bool

	// ConfigPath is the path to the optional TOML config file
	ConfigPath string

	config *config.Config
	host   *hostinfo.Info
	logger *slog.Logger
}

func NewContext(app *kingpin.Application) *Context {
	return &Context{
		App:      app,
		Commands: make(map[string]DoCommand),
	}
}

func (ctx *Context) Register(clause *kingpin.CmdClause, do DoCommand) {
	ctx.Commands[clause.FullCommand()] = do
}

func (ctx *Context) Must(err error) {
	if err != nil {
		if ctx.Verbose || ctx.JSON {
			comm.Dief("%+v", err)
		} else {
			comm.Dief("%s", err)
		}
	}
}

// Config returns the configuration, reading it on first use.
func (ctx *Context) Config() *config.Config {
	if ctx.config == nil {
		c, err := config.Load(ctx.ConfigPath)
		ctx.Must(err)
		ctx.config = c
		if ctx.ConfigPath != "" {
			comm.Debugf("Using config %s", ctx.ConfigPath)
		}
	}
	return ctx.config
}

// SetConfig replaces the configuration, for callers that don't
// read it from a file.
func (ctx *Context) SetConfig(c *config.Config) {
	ctx.config = c
}

// Host returns what was detected about the running system, with
// the overrides of the config file applied.
func (ctx *Context) Host() *hostinfo.Info {
	if ctx.host == nil {
		info, err := hostinfo.Detect(comm.NewStateConsumer(), ctx.Config().Host)
		ctx.Must(err)
		ctx.host = info
	}
	return ctx.host
}

// Logger returns a structured logger writing through comm
func (ctx *Context) Logger() *slog.Logger {
	if ctx.logger == nil {
		level := slog.LevelInfo
		if ctx.Verbose {
			level = slog.LevelDebug
		}
		if ctx.Quiet {
			level = slog.LevelWarn
		}
		ctx.logger = slog.New(comm.NewSlogHandler(level))
	}
	return ctx.logger
}
