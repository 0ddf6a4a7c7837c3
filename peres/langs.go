package peres

// Language identifiers
const (
	LangNeutral = 0x0000
	LangEnUS    = 0x0409
)

// PrimaryLanguage strips the sublanguage from a LANGID
func PrimaryLanguage(langID uint16) uint16 {
	return langID & 0x3ff
}

// PickLanguage returns the index of the entry of `available` that
// best fits `preferred`, or -1 if `available` is empty. Candidates,
// in order: an exact preferred language, a preferred primary
// language, neutral, en-US, the first entry.
func PickLanguage(available []uint16, preferred []uint16) int {
	if len(available) == 0 {
		return -1
	}

	indexOf := func(match func(uint16) bool) int {
		for i, lang := range available {
			if match(lang) {
				return i
			}
		}
		return -1
	}

	for _, p := range preferred {
		if i := indexOf(func(l uint16) bool { return l == p }); i >= 0 {
			return i
		}
	}
	for _, p := range preferred {
		if i := indexOf(func(l uint16) bool { return PrimaryLanguage(l) == PrimaryLanguage(p) }); i >= 0 {
			return i
		}
	}
	if i := indexOf(func(l uint16) bool { return l == LangNeutral }); i >= 0 {
		return i
	}
	if i := indexOf(func(l uint16) bool { return l == LangEnUS }); i >= 0 {
		return i
	}
	return 0
}
