package main

import (
	"log"
	"os"

	"github.com/cpltasks/cpltasks/buildinfo"
	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/mansion"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app = kingpin.New("cpltasks", "Catalogs the control panel task links of a Windows host")
)

var appArgs = struct {
	json       *bool
	quiet      *bool
	verbose    *bool
	timestamps *bool
	config     *string
	panic      *bool
}{
	app.Flag("json", "Enable machine-readable JSON-lines output").Short('j').Bool(),
	app.Flag("quiet", "Hide progress indicators & other extra info").Short('q').Bool(),
	app.Flag("verbose", "Display as much extra info as possible").Short('v').Bool(),
	app.Flag("timestamps", "Prefix all output by timestamps (for logging purposes)").Bool(),
	app.Flag("config", "Path to a cpltasks.toml config file").Envar("CPLTASKS_CONFIG").String(),
	app.Flag("panic", "Panic instead of exiting on errors, to get a stack trace").Hidden().Bool(),
}

func main() {
	ctx := mansion.NewContext(app)
	registerCommands(ctx)

	app.HelpFlag.Short('h')
	app.Version(buildinfo.VersionString)
	app.VersionFlag.Short('V')

	cmd, err := app.Parse(os.Args[1:])
	if *appArgs.timestamps {
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	} else {
		log.SetFlags(0)
	}

	ctx.Version = buildinfo.Version
	ctx.VersionString = buildinfo.VersionString
	ctx.Commit = buildinfo.Commit
	ctx.Quiet = *appArgs.quiet
	ctx.Verbose = *appArgs.verbose
	ctx.JSON = *appArgs.json
	ctx.ConfigPath = *appArgs.config

	comm.Configure(*appArgs.quiet, *appArgs.verbose, *appArgs.json, *appArgs.panic)

	fullCmd := kingpin.MustParse(cmd, err)
	do, ok := ctx.Commands[fullCmd]
	if !ok {
		comm.Dief("Unknown command: %s", fullCmd)
	}
	do(ctx)
}
