package tasklist_test

import (
	"io/ioutil"
	"path/filepath"
	"sort"
	"testing"

	"github.com/cpltasks/cpltasks/mui"
	"github.com/cpltasks/cpltasks/tasklist"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

const speechTraining = "Train the computer to recognise your voice"

type fakeResolver struct {
	strings  map[string]string
	resolved []string
}

func (r *fakeResolver) Resolve(ref string) (string, error) {
	if _, err := mui.ParseRef(ref); err != nil {
		return "", err
	}
	r.resolved = append(r.resolved, ref)
	s, ok := r.strings[ref]
	if !ok {
		return "", errors.WithStack(&mui.StringNotFoundError{Module: ref})
	}
	return s, nil
}

func newResolver() *fakeResolver {
	return &fakeResolver{
		strings: map[string]string{
			`@%SystemRoot%\system32\shell32.dll,-32001`:          "View advanced system settings",
			`@%SystemRoot%\system32\shell32.dll,-32002`:          "a; b ;c",
			`@%SystemRoot%\system32\shell32.dll,-32003`:          "d;;e",
			`@%SystemRoot%\system32\mmsys.cpl,-300`:              "Manage audio devices",
			`@%SystemRoot%\system32\mmsys.cpl,-301`:              "sound;speakers; ",
			`@%SystemRoot%\system32\mmsys.cpl,-302`:              "Change system sounds",
			`@%SystemRoot%\system32\mmsys.cpl,-303`:              "Adjust system volume",
			`@%SystemRoot%\system32\SpeechUX\SpeechUX.dll,-100`: speechTraining,
			`@%SystemRoot%\system32\SpeechUX\SpeechUX.dll,-101`: "Set up a microphone",
		},
	}
}

func readFixture(t *testing.T, name string) []byte {
	doc, err := ioutil.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return doc
}

func Test_Parse(t *testing.T) {
	in := &tasklist.Interpreter{
		Resolver: newResolver(),
		Fixups:   tasklist.DefaultFixups(),
	}

	links, err := in.Parse(readFixture(t, "tasks.xml"))
	require.NoError(t, err)
	require.EqualValues(t, 6, len(links), "one link per task, categories ignored")

	assert.EqualValues(t, tasklist.TaskLink{
		Name:     "View advanced system settings",
		Command:  `%windir%\system32\rundll32.exe shell32.dll,Control_RunDLL sysdm.cpl`,
		Keywords: [][]string{{"a", "b", "c"}, {"d", "e"}},
	}, links[0], "keywords trimmed, empty entries dropped, order kept")

	assert.EqualValues(t, `%SystemRoot%\System32\control.exe -name Microsoft.Sound /page Playback`, links[1].Command)
	assert.EqualValues(t, [][]string{{"sound", "speakers"}}, links[1].Keywords)

	assert.EqualValues(t, speechTraining, links[2].Name)
	assert.EqualValues(t,
		`%windir%\system32\rundll32.exe %windir%\system32\speech\speechux\SpeechUX.dll,RunWizard UserTraining`,
		links[2].Command, "exactly one percent sign stripped")

	assert.EqualValues(t,
		`%%windir%\system32\rundll32.exe %windir%\system32\speech\speechux\SpeechUX.dll,RunWizard MicTraining`,
		links[3].Command, "other tasks keep their doubled percent sign")

	assert.EqualValues(t, `%SystemRoot%\System32\control.exe -name Microsoft.Sound`, links[4].Command, "no page")
	assert.EqualValues(t, [][]string{}, links[4].Keywords, "no keywords is an empty list")

	assert.EqualValues(t, `%windir%\system32\mmsys.cpl`, links[5].Command, "direct command wins over controlpanel")
}

func Test_ParseWithoutFixups(t *testing.T) {
	in := &tasklist.Interpreter{Resolver: newResolver()}

	links, err := in.Parse(readFixture(t, "tasks.xml"))
	require.NoError(t, err)
	assert.EqualValues(t,
		`%%windir%\system32\rundll32.exe %windir%\system32\speech\speechux\SpeechUX.dll,RunWizard UserTraining`,
		links[2].Command)
}

func Test_ParseMissingCommand(t *testing.T) {
	r := newResolver()
	in := &tasklist.Interpreter{Resolver: r}

	links, err := in.Parse(readFixture(t, "missing-command.xml"))
	assert.Error(t, err)
	assert.True(t, tasklist.IsMissingCommand(err), "missing command error")
	assert.Nil(t, links, "no partial output")
	assert.Contains(t, err.Error(), "Change system sounds")
	assert.Contains(t, err.Error(), "{0BADC0DE-0000-4000-8000-000000000001}")

	for _, ref := range r.resolved {
		assert.NotEqual(t, `@%SystemRoot%\system32\mmsys.cpl,-300`, ref, "siblings after the failing task are never resolved")
	}
}

func Test_ParseControlPanelWithoutName(t *testing.T) {
	doc := []byte(`<applications xmlns="http://schemas.microsoft.com/windows/cpltasks/v1" xmlns:sh="http://schemas.microsoft.com/windows/tasks/v1" xmlns:sh2="http://schemas.microsoft.com/windows/tasks/v2">
  <application><sh:task>
    <sh:name>@%SystemRoot%\system32\mmsys.cpl,-300</sh:name>
    <sh2:controlpanel page="Playback"/>
  </sh:task></application>
</applications>`)

	in := &tasklist.Interpreter{Resolver: newResolver()}
	_, err := in.Parse(doc)
	assert.True(t, tasklist.IsMissingCommand(err))
}

func Test_ParseRepeatedElements(t *testing.T) {
	doc := []byte(`<applications xmlns="http://schemas.microsoft.com/windows/cpltasks/v1" xmlns:sh="http://schemas.microsoft.com/windows/tasks/v1" xmlns:sh2="http://schemas.microsoft.com/windows/tasks/v2">
  <application>
    <sh:task>
      <sh:name>@%SystemRoot%\system32\mmsys.cpl,-300</sh:name>
      <sh:name>@%SystemRoot%\system32\mmsys.cpl,-302</sh:name>
      <sh2:controlpanel name="Microsoft.Sound" page="Playback"/>
      <sh2:controlpanel name="Microsoft.Other"/>
    </sh:task>
    <sh:task>
      <sh:name>@%SystemRoot%\system32\mmsys.cpl,-303</sh:name>
      <sh:command>first.exe</sh:command>
      <sh:command>second.exe</sh:command>
    </sh:task>
  </application>
</applications>`)

	in := &tasklist.Interpreter{Resolver: newResolver()}
	links, err := in.Parse(doc)
	require.NoError(t, err)
	require.EqualValues(t, 2, len(links))

	assert.EqualValues(t, "Manage audio devices", links[0].Name, "first name wins")
	assert.EqualValues(t, `%SystemRoot%\System32\control.exe -name Microsoft.Sound /page Playback`, links[0].Command,
		"first controlpanel wins, attributes are not merged")
	assert.EqualValues(t, "first.exe", links[1].Command, "first command wins")
}

func Test_ParseResolveErrors(t *testing.T) {
	in := &tasklist.Interpreter{Resolver: newResolver()}

	_, err := in.Parse([]byte(`<applications xmlns="http://schemas.microsoft.com/windows/cpltasks/v1" xmlns:sh="http://schemas.microsoft.com/windows/tasks/v1">
  <application><sh:task>
    <sh:name>Plain text</sh:name>
    <sh:command>control.exe</sh:command>
  </sh:task></application>
</applications>`))
	assert.True(t, mui.IsMalformedReference(err), "names must be references")

	_, err = in.Parse([]byte(`<applications xmlns="http://schemas.microsoft.com/windows/cpltasks/v1" xmlns:sh="http://schemas.microsoft.com/windows/tasks/v1">
  <application><sh:task>
    <sh:command>control.exe</sh:command>
  </sh:task></application>
</applications>`))
	assert.True(t, mui.IsMalformedReference(err), "a missing name is an empty reference")

	_, err = in.Parse([]byte(`<applications xmlns="http://schemas.microsoft.com/windows/cpltasks/v1" xmlns:sh="http://schemas.microsoft.com/windows/tasks/v1">
  <application><sh:task>
    <sh:name>@shell32.dll,-1</sh:name>
    <sh:command>control.exe</sh:command>
  </sh:task></application>
</applications>`))
	assert.True(t, mui.IsStringNotFound(err), "resolver errors go through untouched")
}

func Test_ParseMalformed(t *testing.T) {
	in := &tasklist.Interpreter{Resolver: newResolver()}

	for _, doc := range []string{
		"",
		"<applications>",
		"<applications></application>",
		"not xml at all",
	} {
		_, err := in.Parse([]byte(doc))
		assert.True(t, tasklist.IsMalformedDocument(err), "%q is malformed", doc)
	}
}

func Test_ParseForeignNamespaces(t *testing.T) {
	in := &tasklist.Interpreter{Resolver: newResolver()}

	links, err := in.Parse([]byte(`<applications xmlns="urn:something-else">
  <application><task><name>@shell32.dll,-1</name></task></application>
</applications>`))
	assert.NoError(t, err)
	assert.EqualValues(t, 0, len(links), "only the task list namespaces are interpreted")
}

func Test_ParseUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	doc, err := enc.Bytes([]byte(`<?xml version="1.0" encoding="utf-16"?>
<applications xmlns="http://schemas.microsoft.com/windows/cpltasks/v1" xmlns:sh="http://schemas.microsoft.com/windows/tasks/v1">
  <application><sh:task>
    <sh:name>@%SystemRoot%\system32\shell32.dll,-32001</sh:name>
    <sh:command>%windir%\system32\SystemPropertiesAdvanced.exe</sh:command>
  </sh:task></application>
</applications>`))
	require.NoError(t, err)

	in := &tasklist.Interpreter{Resolver: newResolver()}
	links, err := in.Parse(doc)
	require.NoError(t, err)
	require.EqualValues(t, 1, len(links))
	assert.EqualValues(t, "View advanced system settings", links[0].Name)
	assert.EqualValues(t, `%windir%\system32\SystemPropertiesAdvanced.exe`, links[0].Command)
}

func Test_SortByCommandIsIdempotent(t *testing.T) {
	in := &tasklist.Interpreter{Resolver: newResolver(), Fixups: tasklist.DefaultFixups()}
	links, err := in.Parse(readFixture(t, "tasks.xml"))
	require.NoError(t, err)

	byCommand := func(l []tasklist.TaskLink) func(i, j int) bool {
		return func(i, j int) bool { return l[i].Command < l[j].Command }
	}

	sort.SliceStable(links, byCommand(links))
	once := append([]tasklist.TaskLink{}, links...)
	sort.SliceStable(links, byCommand(links))
	assert.EqualValues(t, once, links)
}

func Test_Fixups(t *testing.T) {
	assert.EqualValues(t, "%windir%", tasklist.StripDoubledPercent("%%windir%"))
	assert.EqualValues(t, "%windir%", tasklist.StripDoubledPercent("%windir%"))
	assert.EqualValues(t, "%%windir%", tasklist.StripDoubledPercent("%%%windir%"), "only one sign is stripped")

	f, err := tasklist.NewFixup("Some task", "strip-doubled-percent")
	assert.NoError(t, err)
	assert.EqualValues(t, "Some task", f.Name)

	_, err = tasklist.NewFixup("Some task", "rot13")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "strip-doubled-percent", "lists known transforms")
}

func Test_SplitKeywords(t *testing.T) {
	assert.EqualValues(t, []string{"a", "b", "c"}, tasklist.SplitKeywords("a; b ;c"))
	assert.EqualValues(t, []string{"d", "e"}, tasklist.SplitKeywords("d;;e"))
	assert.EqualValues(t, []string{}, tasklist.SplitKeywords(" ; ;"))
	assert.EqualValues(t, []string{"电脑", "pc"}, tasklist.SplitKeywords("电脑;pc"))
}
