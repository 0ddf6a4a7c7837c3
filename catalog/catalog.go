// Package catalog is the JSON file cpltasks produces: every task
// link of the host, with the locale and build it was taken from.
package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cpltasks/cpltasks/hostinfo"
	"github.com/cpltasks/cpltasks/tasklist"
	"github.com/dchest/safefile"
	"github.com/pkg/errors"
)

// SchemaVersion is bumped whenever the file format changes
const SchemaVersion = "0.0.1"

// TimeLayout formats the time part of catalog file names, as in "2021Jun17T093012"
const TimeLayout = "2006Jan02T150405"

type Catalog struct {
	SchemaVersion  string `json:"schema_version"`
	Language       string `json:"language"`
	WindowsVersion string `json:"windows_version"`
	Items          []Item `json:"items"`
}

type Item struct {
	Name     string     `json:"name"`
	Cmd      string     `json:"cmd"`
	Keywords [][]string `json:"keywords"`
}

// New builds a catalog out of task links, sorted by command.
// Links with the same command keep their relative order.
func New(info *hostinfo.Info, links []tasklist.TaskLink) *Catalog {
	c := &Catalog{
		SchemaVersion:  SchemaVersion,
		Language:       info.Language,
		WindowsVersion: info.WindowsVersion,
		Items:          make([]Item, 0, len(links)),
	}

	for _, link := range links {
		keywords := make([][]string, 0, len(link.Keywords))
		for _, group := range link.Keywords {
			if group == nil {
				group = []string{}
			}
			keywords = append(keywords, group)
		}

		c.Items = append(c.Items, Item{
			Name:     link.Name,
			Cmd:      link.Command,
			Keywords: keywords,
		})
	}
	c.Sort()
	return c
}

// Sort orders items by ascending command.
func (c *Catalog) Sort() {
	sort.SliceStable(c.Items, func(i, j int) bool {
		return c.Items[i].Cmd < c.Items[j].Cmd
	})
}

var pathHostile = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// FileName returns the name of the file `c` is written to at time `t`:
// "<time>-<schema version>-<windows version>-<language>.json"
func FileName(c *Catalog, t time.Time) string {
	parts := []string{
		t.Format(TimeLayout),
		c.SchemaVersion,
		c.WindowsVersion,
		c.Language,
	}
	for i, p := range parts {
		parts[i] = pathHostile.Replace(p)
	}
	return strings.Join(parts, "-") + ".json"
}

// Write stores `c` at `path`, creating parent directories as needed.
// The file only appears once it is complete.
func Write(path string, c *Catalog) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return errors.WithStack(err)
	}

	f, err := safefile.Create(path, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	err = enc.Encode(c)
	if err != nil {
		return errors.WithStack(err)
	}

	err = f.Commit()
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Read loads a catalog written by Write.
func Read(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()

	c := &Catalog{}
	err = json.NewDecoder(f).Decode(c)
	if err != nil {
		return nil, errors.Wrapf(err, "while decoding %s", path)
	}

	if c.SchemaVersion != SchemaVersion {
		return nil, errors.Errorf("%s: unsupported schema version %q (expected %q)", path, c.SchemaVersion, SchemaVersion)
	}
	return c, nil
}
