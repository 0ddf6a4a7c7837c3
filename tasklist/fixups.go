package tasklist

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// A Transform rewrites the raw command of a task.
type Transform func(command string) string

// Fixup patches the command of the task with this exact
// resolved name. Some built-in entries ship with broken data.
type Fixup struct {
	Name      string
	Transform Transform
}

// StripDoubledPercent removes one leading '%' from commands that
// start with "%%".
func StripDoubledPercent(command string) string {
	if strings.HasPrefix(command, "%%") {
		return command[1:]
	}
	return command
}

// Transforms are the transforms fixups can refer to by name,
// e.g. from a config file.
var Transforms = map[string]Transform{
	"strip-doubled-percent": StripDoubledPercent,
}

// TransformNames lists the keys of Transforms, sorted.
func TransformNames() []string {
	var names []string
	for name := range Transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewFixup looks up a named transform.
func NewFixup(name string, transform string) (Fixup, error) {
	t, ok := Transforms[transform]
	if !ok {
		return Fixup{}, errors.Errorf("unknown transform %q (known transforms: %s)", transform, strings.Join(TransformNames(), ", "))
	}
	return Fixup{Name: name, Transform: t}, nil
}

// DefaultFixups returns the fixups for known defects in the
// task list shipped with Windows.
func DefaultFixups() []Fixup {
	return []Fixup{
		// "%%windir%\system32\rundll32.exe %windir%\system32\speech\speechux\SpeechUX.dll,RunWizard UserTraining"
		{Name: "Train the computer to recognise your voice", Transform: StripDoubledPercent},
	}
}

func applyFixups(fixups []Fixup, name string, command string) string {
	for _, f := range fixups {
		if f.Name == name {
			command = f.Transform(command)
		}
	}
	return command
}
