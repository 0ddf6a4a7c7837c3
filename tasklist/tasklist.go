// Package tasklist interprets the control panel task list
// (the XML document shell32.dll embeds) into task links.
package tasklist

import (
	"strings"

	"github.com/itchio/wharf/state"
	"github.com/pkg/errors"
)

// ControlPanelExecutable is the command used for tasks that only
// name a control panel item.
const ControlPanelExecutable = `%SystemRoot%\System32\control.exe`

// TaskLink is a named system action and its search keywords.
type TaskLink struct {
	// Name is the localized display name
	Name string
	// Command is the shell command line, environment variables unexpanded
	Command string
	// Keywords holds one group of synonyms per `keywords` element
	Keywords [][]string
}

// StringResolver resolves indirect string references, see mui.Resolver
type StringResolver interface {
	Resolve(ref string) (string, error)
}

// Interpreter turns a task list document into task links.
type Interpreter struct {
	Resolver StringResolver
	// Fixups are applied to direct commands, keyed by task name
	Fixups   []Fixup
	Consumer *state.Consumer
}

// Parse returns one task link per `application/task` element, in
// document order. The first error aborts the whole parse.
func (in *Interpreter) Parse(doc []byte) ([]TaskLink, error) {
	consumer := in.Consumer
	if consumer == nil {
		consumer = &state.Consumer{}
	}

	d, err := decodeDocument(doc)
	if err != nil {
		return nil, err
	}

	numTasks := 0
	for _, app := range d.Applications {
		numTasks += len(app.Tasks)
	}
	consumer.Debugf("Task list has %d applications, %d tasks", len(d.Applications), numTasks)

	links := make([]TaskLink, 0, numTasks)
	for _, app := range d.Applications {
		for _, task := range app.Tasks {
			link, err := in.interpret(task)
			if err != nil {
				return nil, errors.WithMessage(err, "in task "+task.ID)
			}
			links = append(links, *link)
			consumer.Progress(float64(len(links)) / float64(numTasks))
		}
	}

	return links, nil
}

func (in *Interpreter) interpret(task taskElement) (*TaskLink, error) {
	keywords := make([][]string, 0, len(task.Keywords))
	for _, ref := range task.Keywords {
		s, err := in.Resolver.Resolve(ref)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, SplitKeywords(s))
	}

	nameRef := ""
	if len(task.Names) > 0 {
		nameRef = task.Names[0]
	}
	name, err := in.Resolver.Resolve(nameRef)
	if err != nil {
		return nil, err
	}

	command, err := in.command(task, name)
	if err != nil {
		return nil, err
	}

	return &TaskLink{
		Name:     name,
		Command:  command,
		Keywords: keywords,
	}, nil
}

func (in *Interpreter) command(task taskElement, name string) (string, error) {
	if len(task.Commands) > 0 {
		return applyFixups(in.Fixups, name, task.Commands[0]), nil
	}

	if len(task.ControlPanels) == 0 {
		return "", errors.WithStack(&MissingCommandError{
			Task:   name,
			Reason: "neither command nor controlpanel element",
		})
	}
	cp := task.ControlPanels[0]
	if cp.Name == nil {
		return "", errors.WithStack(&MissingCommandError{
			Task:   name,
			Reason: "controlpanel element has no name",
		})
	}

	return ControlPanelCommand(*cp.Name, cp.Page), nil
}

// ControlPanelCommand builds the command line opening a control
// panel item, and one of its pages if `page` is not empty.
func ControlPanelCommand(name string, page string) string {
	cmd := ControlPanelExecutable + " -name " + name
	if page != "" {
		cmd += " /page " + page
	}
	return cmd
}

// SplitKeywords splits a ';'-separated keyword list, trimming
// whitespace and dropping empty entries.
func SplitKeywords(s string) []string {
	res := []string{}
	for _, kw := range strings.Split(s, ";") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			res = append(res, kw)
		}
	}
	return res
}
