package mui

import (
	"regexp"
	"strings"
)

// UnknownVariable replaces placeholders that have no value
// in the environment.
const UnknownVariable = "UNKNOWN"

// Environment is a snapshot of environment variables. Like on
// Windows, names are case-insensitive.
type Environment map[string]string

// NewEnvironment builds an Environment from `NAME=value` pairs,
// as returned by os.Environ. Entries without '=', and the
// drive-letter pseudo-variables starting with '=', are skipped.
func NewEnvironment(pairs []string) Environment {
	env := make(Environment)
	for _, pair := range pairs {
		i := strings.Index(pair, "=")
		if i <= 0 {
			continue
		}
		env.Set(pair[:i], pair[i+1:])
	}
	return env
}

// Set stores a variable, replacing any variable that differs only by case.
func (e Environment) Set(name string, value string) {
	e[strings.ToUpper(name)] = value
}

// Lookup returns the value of a variable and whether it was set.
func (e Environment) Lookup(name string) (string, bool) {
	v, ok := e[strings.ToUpper(name)]
	return v, ok
}

var variableRe = regexp.MustCompile(`%\w+%`)

// ExpandVariables substitutes every `%NAME%` placeholder in one
// pass. Values are not expanded again, even if they contain
// placeholders themselves.
func ExpandVariables(s string, env Environment) string {
	return variableRe.ReplaceAllStringFunc(s, func(match string) string {
		if v, ok := env.Lookup(match[1 : len(match)-1]); ok {
			return v
		}
		return UnknownVariable
	})
}
