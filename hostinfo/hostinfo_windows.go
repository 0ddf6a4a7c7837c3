//go:build windows
// +build windows

package hostinfo

import (
	"strconv"

	"github.com/cpltasks/cpltasks/mui"
	"github.com/cpltasks/cpltasks/syscallex"
	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
	"github.com/winlabs/gowin32"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// Probe reads the locale, the build number and the environment
// of the running system.
func Probe(consumer *state.Consumer) (*Info, error) {
	info := &Info{}

	vars, err := gowin32.GetAllEnvironment()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	info.Environment = make(mui.Environment)
	for name, value := range vars {
		info.Environment.Set(name, value)
	}

	info.Language, err = localeDisplayName()
	if err != nil {
		return nil, errors.WithMessage(err, "while reading user locale")
	}

	info.WindowsVersion, err = windowsVersion(consumer)
	if err != nil {
		return nil, errors.WithMessage(err, "while reading windows version")
	}

	uiLangID := syscallex.GetUserDefaultUILanguage()
	uiLangName, err := syscallex.LCIDToLocaleName(uint32(uiLangID))
	if err != nil {
		consumer.Warnf("Could not name UI language %04x: %s", uiLangID, err.Error())
	} else {
		info.UILanguages = append(info.UILanguages, UILanguage{
			Name: uiLangName,
			ID:   uiLangID,
		})
	}

	consumer.Debugf("Host: %s, build %s, UI languages %v", info.Language, info.WindowsVersion, info.UILanguages)
	return info, nil
}

// localeDisplayName formats the user locale as "<language>_<country>"
// with English names, which is what the C runtime reports.
func localeDisplayName() (string, error) {
	lang, err := syscallex.GetLocaleInfoEx(nil, syscallex.LOCALE_SENGLISHLANGUAGENAME)
	if err != nil {
		return "", errors.WithStack(err)
	}

	country, err := syscallex.GetLocaleInfoEx(nil, syscallex.LOCALE_SENGLISHCOUNTRYNAME)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return lang + "_" + country, nil
}

func windowsVersion(consumer *state.Consumer) (string, error) {
	key, err := gowin32.OpenRegKey(gowin32.RegRootHKLM, currentVersionKey, false)
	if err != nil {
		return "", errors.WithStack(err)
	}
	defer key.Close()

	build, err := key.GetValueString("CurrentBuildNumber")
	if err != nil {
		return "", errors.WithStack(err)
	}

	// UBR only exists since Windows 10
	ubr, err := key.GetValueDWORD("UBR")
	if err != nil {
		consumer.Warnf("No UBR in registry (%s), using 0", err.Error())
		ubr = 0
	}

	return build + "." + strconv.FormatUint(uint64(ubr), 10), nil
}

func langID(name string) uint16 {
	locale, err := gowin32.LocaleFromLocaleName(name, 0)
	if err != nil {
		return 0
	}
	return uint16(locale.Language())
}
