package comm

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"
)

// ProgressTheme contains the characters used to decorate output
type ProgressTheme struct {
	OpSign   string
	StatSign string
}

var themes = map[string]*ProgressTheme{
	"unicode": {"•", "✓"},
	"ascii":   {">", "<"},
	"cp437":   {"∙", "√"},
}

func getCharset() string {
	if runtime.GOOS == "windows" && os.Getenv("OS") != "CYGWIN" {
		return "cp437"
	}

	var utf8 = ".UTF-8"
	if strings.Contains(os.Getenv("LC_ALL"), utf8) ||
		os.Getenv("LC_CTYPE") == "UTF-8" ||
		strings.Contains(os.Getenv("LANG"), utf8) {
		return "unicode"
	}

	return "ascii"
}

var theme = themes[getCharset()]

// GetTheme returns the theme used to decorate output
func GetTheme() *ProgressTheme {
	return theme
}

var progress = struct {
	active    bool
	paused    bool
	alpha     float64
	label     string
	startTime time.Time
	lastSent  time.Time
}{}

var maxJsonPrintDuration = 500 * time.Millisecond

const maxLabelLength = 40

// ProgressLabel sets the string sent along with progress updates
func ProgressLabel(label string) {
	if len(label) > maxLabelLength {
		label = fmt.Sprintf("...%s", label[len(label)-(maxLabelLength-3):])
	}
	progress.label = label
}

// StartProgress begins a period in which progress is regularly reported
func StartProgress() {
	if progress.active {
		// Already in-progress
		return
	}

	progress.active = true
	progress.paused = false
	progress.alpha = 0
	progress.startTime = time.Now()
	progress.lastSent = time.Time{}
}

// PauseProgress temporarily stops reporting progress
func PauseProgress() {
	progress.paused = true
}

// ResumeProgress resumes reporting after PauseProgress was called
func ResumeProgress() {
	progress.paused = false
}

// Progress sets the completion of the current task. Outside of
// JSON mode, it is not shown. Updates are throttled.
func Progress(alpha float64) {
	progress.alpha = alpha

	if !progress.active || progress.paused {
		return
	}

	if !progress.lastSent.IsZero() && time.Since(progress.lastSent) < maxJsonPrintDuration {
		return
	}
	sendProgress()
}

func sendProgress() {
	progress.lastSent = time.Now()

	msg := JsonMessage{
		"progress":   progress.alpha,
		"percentage": progress.alpha * 100.0,
	}
	if progress.label != "" {
		msg["label"] = progress.label
	}
	if progress.alpha > 0 && progress.alpha < 1 {
		elapsed := time.Since(progress.startTime)
		eta := time.Duration(float64(elapsed) * (1 - progress.alpha) / progress.alpha)
		msg["eta"] = eta.Seconds()
	}
	send("progress", msg)
}

// EndProgress reports completion and stops reporting progress.
func EndProgress() {
	if !progress.active {
		return
	}

	progress.alpha = 1.0
	progress.paused = false
	sendProgress()
	progress.active = false
	progress.label = ""
}
