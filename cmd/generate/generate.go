package generate

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/cpltasks/cpltasks/catalog"
	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/config"
	"github.com/cpltasks/cpltasks/hostinfo"
	"github.com/cpltasks/cpltasks/mansion"
	"github.com/cpltasks/cpltasks/mui"
	"github.com/cpltasks/cpltasks/tasklist"
	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
	"github.com/skratchdot/open-golang/open"
)

var args = struct {
	dir          *string
	module       *string
	resourceType *string
	resourceID   *int
	loader       *string
	open         *bool
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("generate", "Write the catalog of control panel task links to a JSON file")
	args.dir = cmd.Flag("dir", "Directory to write the catalog into (defaults to the config's, or the current directory)").Short('d').String()
	args.module = cmd.Flag("module", "Module that embeds the task list").String()
	args.resourceType = cmd.Flag("resource-type", "Resource type of the task list").Hidden().String()
	args.resourceID = cmd.Flag("resource-id", "Resource id of the task list").Int()
	args.loader = cmd.Flag("loader", "How to read modules").Enum(config.LoaderNative, config.LoaderPE)
	args.open = cmd.Flag("open", "Open the catalog once written").Bool()
	ctx.Register(cmd, do)
}

type Result struct {
	Path  string `json:"path"`
	Items int    `json:"items"`
}

func do(ctx *mansion.Context) {
	cfg := ctx.Config()
	ctx.Must(applyFlags(cfg))

	resolver, err := ctx.Resolver(cfg.Loader)
	ctx.Must(err)

	fixups, err := cfg.AllFixups()
	ctx.Must(err)

	startTime := time.Now()
	comm.StartProgress()
	res, err := Do(&Params{
		Resolver: resolver,
		Host:     ctx.Host(),
		TaskList: cfg.TaskList,
		Fixups:   fixups,
		Dir:      cfg.Output.Dir,
		Now:      startTime,
		Consumer: comm.NewStateConsumer(),
	})
	comm.EndProgress()
	ctx.Must(err)

	ctx.Logger().Info("catalog written",
		"path", res.Path,
		"items", res.Items,
		"duration", time.Since(startTime),
	)

	comm.ResultOrPrint(res, func() {
		comm.Notice("Catalog written", Summary(res, ctx.Host()))
	})

	if *args.open {
		ctx.Must(errors.WithStack(open.Start(res.Path)))
	}
}

// applyFlags overrides config values with the ones given on the
// command line, then validates the result again.
func applyFlags(cfg *config.Config) error {
	if *args.dir != "" {
		cfg.Output.Dir = *args.dir
	}
	if *args.module != "" {
		cfg.TaskList.Module = *args.module
	}
	if *args.resourceType != "" {
		cfg.TaskList.ResourceType = *args.resourceType
	}
	if *args.resourceID != 0 {
		cfg.TaskList.ResourceID = *args.resourceID
	}
	if *args.loader != "" {
		cfg.Loader = *args.loader
	}
	return errors.WithMessage(cfg.Validate(), "invalid flags")
}

// Summary lists what went into a written catalog, one line each.
func Summary(res *Result, info *hostinfo.Info) []string {
	return []string{
		res.Path,
		fmt.Sprintf("%d task links", res.Items),
		fmt.Sprintf("Windows build %s, %s", info.WindowsVersion, info.Language),
	}
}

type Params struct {
	Resolver *mui.Resolver
	Host     *hostinfo.Info
	TaskList config.TaskList
	Fixups   []tasklist.Fixup
	Dir      string
	Now      time.Time
	Consumer *state.Consumer
}

// Do reads the task list, resolves every task, and writes the catalog.
// Nothing is written unless every task resolved.
func Do(params *Params) (*Result, error) {
	if params.Resolver == nil || params.Host == nil {
		return nil, errors.New("generate: resolver and host must be set")
	}

	consumer := params.Consumer
	if consumer == nil {
		consumer = &state.Consumer{}
	}

	tl := params.TaskList
	err := tl.Validate()
	if err != nil {
		return nil, errors.WithMessage(err, "task_list")
	}

	doc, err := params.Resolver.LoadResource(tl.Module, tl.ResourceType, uint32(tl.ResourceID))
	if err != nil {
		return nil, errors.WithMessage(err, "while reading task list")
	}
	consumer.Infof("Read task list from %s (%s)", tl.Module, humanize.IBytes(uint64(len(doc))))

	consumer.ProgressLabel("Resolving task links")
	interpreter := &tasklist.Interpreter{
		Resolver: params.Resolver,
		Fixups:   params.Fixups,
		Consumer: consumer,
	}
	links, err := interpreter.Parse(doc)
	if err != nil {
		return nil, err
	}

	c := catalog.New(params.Host, links)
	path := filepath.Join(params.Dir, catalog.FileName(c, params.Now))
	err = catalog.Write(path, c)
	if err != nil {
		return nil, err
	}

	return &Result{
		Path:  path,
		Items: len(c.Items),
	}, nil
}
