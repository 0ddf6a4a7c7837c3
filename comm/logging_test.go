package comm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_JSONMessages(t *testing.T) {
	output := captureJSONLogs(t, func() {
		Logf("Parsing %d tasks", 3)
		Debugf("not verbose, so not shown")
		Warnf("no UBR")
		Result(map[string]string{"path": "out.json"})
	})

	require.Len(t, output, 3)
	assert.EqualValues(t, "Parsing 3 tasks", output[0]["message"])
	assert.EqualValues(t, "info", output[0]["level"])
	assert.EqualValues(t, "warning", output[1]["level"])
	assert.EqualValues(t, "result", output[2]["type"])
	assert.EqualValues(t, map[string]interface{}{"path": "out.json"}, output[2]["value"])
}

func Test_NoticeInJSONMode(t *testing.T) {
	output := captureJSONLogs(t, func() {
		Notice("Catalog written", []string{"out.json", "3 task links"})
	})

	require.Len(t, output, 3, "header and each line become log messages")
	assert.EqualValues(t, "notice: Catalog written", output[0]["message"])
	assert.EqualValues(t, "notice: out.json", output[1]["message"])
	assert.EqualValues(t, "notice: 3 task links", output[2]["message"])
	assert.EqualValues(t, "info", output[2]["level"])
}

func Test_StateConsumer(t *testing.T) {
	output := captureJSONLogs(t, func() {
		consumer := NewStateConsumer()
		consumer.Infof("Mapped %s", "shell32.dll")
		consumer.Warnf("careful")
	})

	require.Len(t, output, 2)
	assert.EqualValues(t, "Mapped shell32.dll", output[0]["message"])
	assert.EqualValues(t, "warning", output[1]["level"])
}

func Test_Progress(t *testing.T) {
	output := captureJSONLogs(t, func() {
		Progress(0.1) // not started, ignored
		StartProgress()
		ProgressLabel("Resolving task names")
		Progress(0.25)
		Progress(0.5) // throttled
		EndProgress()
		Progress(0.75) // ended, ignored
	})

	require.Len(t, output, 2)
	assert.EqualValues(t, "progress", output[0]["type"])
	assert.EqualValues(t, 0.25, output[0]["progress"])
	assert.EqualValues(t, "Resolving task names", output[0]["label"])
	assert.EqualValues(t, 1.0, output[1]["progress"])
	assert.EqualValues(t, 100.0, output[1]["percentage"])
}
