//go:build !windows
// +build !windows

package winres

import (
	"github.com/cpltasks/cpltasks/mui"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

type Loader struct{}

func NewLoader(consumer *state.Consumer) (*Loader, error) {
	return nil, errors.New("the native loader needs Windows, use --loader=pe")
}

func (l *Loader) Open(path string) (mui.Module, error) {
	return nil, errors.WithStack(&mui.ResourceLoadError{
		Module: path,
		Err:    errors.New("native loader unavailable"),
	})
}
