//go:build !windows
// +build !windows

package hostinfo

import (
	"os"

	"github.com/cpltasks/cpltasks/mui"
	"github.com/itchio/wharf/state"
)

// Probe only knows the environment outside of Windows, everything
// else has to come from the config file.
func Probe(consumer *state.Consumer) (*Info, error) {
	consumer.Debugf("Not running on Windows, host information must be configured")
	return &Info{
		Environment: mui.NewEnvironment(os.Environ()),
	}, nil
}

func langID(name string) uint16 {
	return 0
}
