// Package hostinfo captures what the catalog depends on from the
// running system: locale, build number, UI languages and environment.
// It is read once, then passed around explicitly.
package hostinfo

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cpltasks/cpltasks/config"
	"github.com/cpltasks/cpltasks/mui"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
	"golang.org/x/text/language"
)

type Info struct {
	// Language is the display name of the user locale, as in
	// "English_United States"
	Language string `json:"language"`

	// WindowsVersion is "<CurrentBuildNumber>.<UBR>", as in "19045.3803"
	WindowsVersion string `json:"windowsVersion"`

	// UILanguages are the preferred UI languages, most preferred first
	UILanguages []UILanguage `json:"uiLanguages"`

	Environment mui.Environment `json:"-"`
}

type UILanguage struct {
	// Name is a locale name, as in "en-US"
	Name string `json:"name"`
	// ID is the LANGID, zero when unknown
	ID uint16 `json:"id"`
}

// Detect probes the host and applies the overrides of `cfg`.
func Detect(consumer *state.Consumer, cfg config.Host) (*Info, error) {
	if consumer == nil {
		consumer = &state.Consumer{}
	}

	info, err := Probe(consumer)
	if err != nil {
		return nil, err
	}

	err = info.Apply(cfg)
	if err != nil {
		return nil, err
	}

	err = info.Validate()
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Apply overrides the fields that are set in `cfg`.
func (info *Info) Apply(cfg config.Host) error {
	if cfg.Language != "" {
		info.Language = cfg.Language
	}
	if cfg.WindowsVersion != "" {
		info.WindowsVersion = cfg.WindowsVersion
	}

	if len(cfg.UILanguages) > 0 {
		var langs []UILanguage
		for _, name := range cfg.UILanguages {
			tag, err := language.Parse(name)
			if err != nil {
				return errors.Wrapf(err, "invalid UI language %q", name)
			}
			canonical := tag.String()
			langs = append(langs, UILanguage{
				Name: canonical,
				ID:   langID(canonical),
			})
		}
		info.UILanguages = langs
	}

	if info.Environment == nil {
		info.Environment = mui.NewEnvironment(os.Environ())
	}
	return nil
}

// Validate checks that nothing the catalog needs is missing.
func (info *Info) Validate() error {
	var missing []string
	if info.Language == "" {
		missing = append(missing, "language")
	}
	if info.WindowsVersion == "" {
		missing = append(missing, "windows_version")
	}
	if len(missing) > 0 {
		return errors.Errorf("could not determine %s, set it in the [host] section of the config file", strings.Join(missing, " and "))
	}
	return nil
}

// LanguageIDs returns the LANGIDs of the UI languages that have one.
func (info *Info) LanguageIDs() []uint16 {
	var ids []uint16
	for _, l := range info.UILanguages {
		if l.ID != 0 {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

// MUIDirs returns the satellite directories to look into, in order
// of preference. en-US always comes last, as the fallback Windows uses.
func (info *Info) MUIDirs() []string {
	var dirs []string
	seen := make(map[string]bool)
	add := func(name string) {
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			return
		}
		seen[key] = true
		dirs = append(dirs, name)
	}

	for _, l := range info.UILanguages {
		add(l.Name)
	}
	add("en-US")
	return dirs
}

// SystemDirs returns where system modules live, for loaders that
// don't have a search path of their own.
func (info *Info) SystemDirs() []string {
	root, ok := info.Environment.Lookup("SystemRoot")
	if !ok {
		return nil
	}
	return []string{filepath.Join(root, "System32"), root}
}
