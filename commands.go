package main

import (
	"github.com/cpltasks/cpltasks/cmd/dumpxml"
	"github.com/cpltasks/cpltasks/cmd/generate"
	"github.com/cpltasks/cpltasks/cmd/ls"
	"github.com/cpltasks/cpltasks/cmd/probe"
	"github.com/cpltasks/cpltasks/cmd/resolve"
	"github.com/cpltasks/cpltasks/cmd/search"
	"github.com/cpltasks/cpltasks/cmd/version"
	"github.com/cpltasks/cpltasks/mansion"
)

// Each of these specify their own arguments and flags in
// their own package.
func registerCommands(ctx *mansion.Context) {
	// documented commands

	generate.Register(ctx)
	ls.Register(ctx)
	search.Register(ctx)
	version.Register(ctx)

	// advanced commands

	resolve.Register(ctx)
	dumpxml.Register(ctx)
	probe.Register(ctx)
}
