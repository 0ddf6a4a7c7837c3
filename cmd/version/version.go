package version

import (
	"log"
	"time"

	"github.com/cpltasks/cpltasks/buildinfo"
	"github.com/cpltasks/cpltasks/catalog"
	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/mansion"
)

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("version", "Prints the current version of cpltasks")
	ctx.Register(cmd, do)
}

type VersionData struct {
	Version       string     `json:"version"`
	BuiltAt       *time.Time `json:"builtAt"`
	Commit        string     `json:"commit"`
	VersionString string     `json:"versionString"`
	SchemaVersion string     `json:"schemaVersion"`
}

func do(ctx *mansion.Context) {
	if ctx.JSON {
		comm.Result(VersionData{
			Version:       buildinfo.Version,
			BuiltAt:       buildinfo.BuildTime(),
			Commit:        buildinfo.Commit,
			VersionString: buildinfo.VersionString,
			SchemaVersion: catalog.SchemaVersion,
		})
	} else {
		log.Printf("%s (catalog schema %s)", buildinfo.VersionString, catalog.SchemaVersion)
	}
}
