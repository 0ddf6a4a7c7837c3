package dumpxml

import (
	"io/ioutil"
	"os"

	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/config"
	"github.com/cpltasks/cpltasks/mansion"
	"github.com/cpltasks/cpltasks/mui"
	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

var args = struct {
	out    *string
	module *string
	id     *int
	loader *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("dump-xml", "Write the raw task list document, as embedded in its module")
	args.out = cmd.Flag("out", "File to write to (defaults to stdout)").Short('o').String()
	args.module = cmd.Flag("module", "Module that embeds the task list").String()
	args.id = cmd.Flag("resource-id", "Resource id of the task list").Int()
	args.loader = cmd.Flag("loader", "How to read modules").Enum(config.LoaderNative, config.LoaderPE)
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	tl := ctx.Config().TaskList
	if *args.module != "" {
		tl.Module = *args.module
	}
	if *args.id != 0 {
		tl.ResourceID = *args.id
	}

	resolver, err := ctx.Resolver(*args.loader)
	ctx.Must(err)

	doc, err := Do(resolver, tl)
	ctx.Must(err)

	if *args.out == "" {
		_, err = os.Stdout.Write(doc)
		ctx.Must(errors.WithStack(err))
		return
	}

	err = ioutil.WriteFile(*args.out, doc, 0644)
	ctx.Must(errors.WithStack(err))
	comm.Statf("Wrote %s (%s)", *args.out, humanize.IBytes(uint64(len(doc))))
}

// Do reads the raw task list document described by `tl`.
func Do(resolver *mui.Resolver, tl config.TaskList) ([]byte, error) {
	err := tl.Validate()
	if err != nil {
		return nil, errors.WithMessage(err, "task_list")
	}
	return resolver.LoadResource(tl.Module, tl.ResourceType, uint32(tl.ResourceID))
}
