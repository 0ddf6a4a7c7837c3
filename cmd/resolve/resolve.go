package resolve

import (
	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/config"
	"github.com/cpltasks/cpltasks/mansion"
	"github.com/cpltasks/cpltasks/mui"
)

var args = struct {
	refs   *[]string
	loader *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("resolve", "Print the strings indirect references point to, e.g. @%SystemRoot%\\system32\\shell32.dll,-24231")
	args.refs = cmd.Arg("refs", "Indirect string references").Required().Strings()
	args.loader = cmd.Flag("loader", "How to read modules").Enum(config.LoaderNative, config.LoaderPE)
	ctx.Register(cmd, do)
}

type Resolved struct {
	Ref    string `json:"ref"`
	Module string `json:"module"`
	ID     uint32 `json:"id"`
	Value  string `json:"value"`
}

func do(ctx *mansion.Context) {
	resolver, err := ctx.Resolver(*args.loader)
	ctx.Must(err)

	for _, ref := range *args.refs {
		res, err := Do(resolver, ref)
		ctx.Must(err)

		comm.ResultOrPrint(res, func() {
			comm.Logf("%s", res.Value)
		})
	}
}

// Do resolves a single reference.
func Do(resolver *mui.Resolver, ref string) (*Resolved, error) {
	parsed, err := mui.ParseRef(ref)
	if err != nil {
		return nil, err
	}

	value, err := resolver.Resolve(ref)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		Ref:    ref,
		Module: mui.ExpandVariables(parsed.Module, resolver.Environment),
		ID:     parsed.ID,
		Value:  value,
	}, nil
}
