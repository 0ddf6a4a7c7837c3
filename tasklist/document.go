package tasklist

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// XML namespaces of the task list shipped in shell32.dll
const (
	ApplicationsNamespace = "http://schemas.microsoft.com/windows/cpltasks/v1"
	TasksNamespace        = "http://schemas.microsoft.com/windows/tasks/v1"
	TasksV2Namespace      = "http://schemas.microsoft.com/windows/tasks/v2"
)

type document struct {
	Applications []applicationElement `xml:"http://schemas.microsoft.com/windows/cpltasks/v1 application"`
}

type applicationElement struct {
	ID    string        `xml:"id,attr"`
	Tasks []taskElement `xml:"http://schemas.microsoft.com/windows/tasks/v1 task"`
}

// Repeated name, command or controlpanel elements are all decoded,
// only the first of each counts.
type taskElement struct {
	ID            string                `xml:"id,attr"`
	Names         []string              `xml:"http://schemas.microsoft.com/windows/tasks/v1 name"`
	Commands      []string              `xml:"http://schemas.microsoft.com/windows/tasks/v1 command"`
	ControlPanels []controlPanelElement `xml:"http://schemas.microsoft.com/windows/tasks/v2 controlpanel"`
	Keywords      []string              `xml:"http://schemas.microsoft.com/windows/tasks/v1 keywords"`
}

type controlPanelElement struct {
	Name *string `xml:"name,attr"`
	Page string  `xml:"page,attr"`
}

func decodeDocument(doc []byte) (*document, error) {
	utf16 := bytes.HasPrefix(doc, []byte{0xff, 0xfe}) || bytes.HasPrefix(doc, []byte{0xfe, 0xff})

	// UTF-16 documents are transcoded to UTF-8 up front, UTF-8 ones
	// just lose their BOM. Without a BOM, bytes go through as-is and
	// the encoding declaration decides.
	r := transform.NewReader(bytes.NewReader(doc), unicode.BOMOverride(transform.Nop))

	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		if utf16 && strings.HasPrefix(strings.ToLower(label), "utf-16") {
			return input, nil
		}
		return charset.NewReaderLabel(label, input)
	}

	d := &document{}
	err := decoder.Decode(d)
	if err != nil {
		return nil, errors.WithStack(&MalformedDocumentError{Err: err})
	}
	return d, nil
}
