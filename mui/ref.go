package mui

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Ref is an indirect string reference of the form
// `@<module>,-<id>[;<comment>]`, as found in Windows registry
// values and shell XML documents.
type Ref struct {
	// Module is the module path, before environment expansion
	Module string
	// ID is the string table identifier, string ids are 16-bit
	ID uint32
	// Comment is whatever followed the first ';', if anything
	Comment string
}

var refRe = regexp.MustCompile(`^@([^,]+),-([0-9]+)(;.*)?`)

// ParseRef splits an indirect string reference into its parts.
// Only the start of the reference is matched, trailing garbage
// after the id is ignored.
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)

	if !strings.HasPrefix(s, "@") || !strings.Contains(s, ",-") {
		return nil, errors.WithStack(&MalformedReferenceError{
			Ref:    s,
			Reason: "expected format is '@module,-id'",
		})
	}

	matches := refRe.FindStringSubmatch(s)
	if matches == nil {
		return nil, errors.WithStack(&MalformedReferenceError{
			Ref:    s,
			Reason: "could not parse module and string id",
		})
	}

	id, err := strconv.ParseUint(matches[2], 10, 16)
	if err != nil {
		return nil, errors.WithStack(&MalformedReferenceError{
			Ref:    s,
			Reason: "string id out of range",
		})
	}

	return &Ref{
		Module:  matches[1],
		ID:      uint32(id),
		Comment: strings.TrimPrefix(matches[3], ";"),
	}, nil
}

func (r *Ref) String() string {
	res := "@" + r.Module + ",-" + strconv.FormatUint(uint64(r.ID), 10)
	if r.Comment != "" {
		res += ";" + r.Comment
	}
	return res
}
