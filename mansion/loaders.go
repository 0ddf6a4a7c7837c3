package mansion

import (
	"github.com/cpltasks/cpltasks/comm"
	"github.com/cpltasks/cpltasks/config"
	"github.com/cpltasks/cpltasks/hostinfo"
	"github.com/cpltasks/cpltasks/mui"
	"github.com/cpltasks/cpltasks/peres"
	"github.com/cpltasks/cpltasks/winres"
	"github.com/pkg/errors"
)

// NewLoader returns the module loader called `name`, "native" or "pe".
func NewLoader(name string, info *hostinfo.Info) (mui.Loader, error) {
	consumer := comm.NewStateConsumer()

	switch name {
	case config.LoaderNative:
		l, err := winres.NewLoader(consumer)
		if err != nil {
			return nil, err
		}
		return l, nil
	case config.LoaderPE:
		return &peres.Loader{
			Languages:   info.LanguageIDs(),
			MUIDirs:     info.MUIDirs(),
			SearchPaths: info.SystemDirs(),
			Consumer:    consumer,
		}, nil
	default:
		return nil, errors.Errorf("unknown loader %q (expected %s or %s)", name, config.LoaderNative, config.LoaderPE)
	}
}

// Resolver returns a string resolver using the loader called `loaderName`,
// or the configured one if it's empty.
func (ctx *Context) Resolver(loaderName string) (*mui.Resolver, error) {
	if loaderName == "" {
		loaderName = ctx.Config().Loader
	}

	info := ctx.Host()
	loader, err := NewLoader(loaderName, info)
	if err != nil {
		return nil, err
	}

	return &mui.Resolver{
		Loader:      loader,
		Environment: info.Environment,
		Consumer:    comm.NewStateConsumer(),
	}, nil
}
