package probe

import (
	"os"
	"sort"

	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/config"
	"github.com/cpltasks/cpltasks/mansion"
	"github.com/cpltasks/cpltasks/mui"
	"github.com/cpltasks/cpltasks/peres"
	humanize "github.com/dustin/go-humanize"
	"github.com/itchio/pelican"
	"github.com/itchio/wharf/eos"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

var args = struct {
	path *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("probe", "(Advanced) Show the architecture, version and task list of a module")
	args.path = cmd.Arg("path", "The module to analyze, e.g. %SystemRoot%\\System32\\shell32.dll").Required().String()
	ctx.Register(cmd, do)
}

type Info struct {
	Path              string            `json:"path"`
	Size              int64             `json:"size"`
	Arch              string            `json:"arch"`
	VersionProperties map[string]string `json:"versionProperties"`
	// TaskListSize is the size of the task list resource, zero if
	// the module has none
	TaskListSize int `json:"taskListSize"`
}

func do(ctx *mansion.Context) {
	path := mui.ExpandVariables(*args.path, mui.NewEnvironment(os.Environ()))

	info, err := Do(path, ctx.Config().TaskList, comm.NewStateConsumer())
	ctx.Must(err)

	comm.ResultOrPrint(info, func() {
		comm.Opf("%s (%s, %s)", info.Path, humanize.IBytes(uint64(info.Size)), info.Arch)

		var keys []string
		for k := range info.VersionProperties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			comm.Logf("  %s: %s", k, info.VersionProperties[k])
		}

		if info.TaskListSize > 0 {
			comm.Statf("Task list found (%s)", humanize.IBytes(uint64(info.TaskListSize)))
		} else {
			comm.Warnf("No task list in this module")
		}
	})
}

// Do probes the module at `path` and looks for the task list resource
// described by `tl`.
func Do(path string, tl config.TaskList, consumer *state.Consumer) (*Info, error) {
	f, err := eos.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	stats, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	props, err := pelican.Probe(f, &pelican.ProbeParams{
		Consumer: consumer,
	})
	if err != nil {
		return nil, errors.WithMessage(err, "while probing "+path)
	}

	info := &Info{
		Path:              path,
		Size:              stats.Size(),
		Arch:              string(props.Arch),
		VersionProperties: props.VersionProperties,
	}

	im, err := peres.NewImage(path, f)
	if err != nil {
		return nil, err
	}
	doc, ok, err := im.Resource(peres.ParseKey(tl.ResourceType), peres.IntKey(uint32(tl.ResourceID)), nil)
	if err != nil {
		return nil, err
	}
	if ok {
		info.TaskListSize = len(doc)
	}
	return info, nil
}
