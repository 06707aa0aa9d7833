package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storyflow/internal/action"
	"storyflow/internal/story"
)

func TestPrinter_History(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.History("Story story-1", []action.StepJSON{
		{ActionName: "ASSIGN_STORY", ActionResult: action.ResultJSON{Status: "SUCCESS"}},
		{ActionName: "SEND_PULL_REQUEST_EVENT", ActionResult: action.ResultJSON{Status: "WAITING"}},
		{ActionName: "UNKNOWN", ActionResult: action.ResultJSON{
			Status: "ERROR", ErrorCode: "ACTION-001", ErrorMessage: "Couldn't find action UNKNOWN",
		}},
	})

	out := buf.String()
	assert.Contains(t, out, "Story story-1")
	assert.Contains(t, out, "1. ASSIGN_STORY")
	assert.Contains(t, out, "2. SEND_PULL_REQUEST_EVENT")
	assert.Contains(t, out, "WAITING")
	assert.Contains(t, out, "ACTION-001 Couldn't find action UNKNOWN")
	assert.NotContains(t, out, "\x1b[", "buffers get no escape codes")
}

func TestPrinter_History_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	NewPrinterWithWriter(buf).History("Story story-1", nil)

	assert.Contains(t, buf.String(), "(no steps)")
}

func TestPrinter_StepDone(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	var observer action.Observer = action.ObserverFunc(p.StepDone)
	observer.ObserveStep("ASSIGN_STORY", action.StatusSuccess, 1500*time.Microsecond)

	assert.Equal(t, "→ ASSIGN_STORY SUCCESS (2ms)\n", buf.String())
}

func TestPrinter_Stories(t *testing.T) {
	buf := &bytes.Buffer{}
	p := NewPrinterWithWriter(buf)

	p.Stories([]*story.Story{
		story.New("k1", "Login page", "", "ann"),
		story.New("k2", "Signup page", "", "bob"),
	})

	out := buf.String()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "k1")
	assert.Contains(t, out, "Signup page")
	assert.Contains(t, out, "TODO")
}

func TestPrinter_Stories_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	NewPrinterWithWriter(buf).Stories(nil)

	assert.Contains(t, buf.String(), "No stories found")
}

func TestPrinter_Story(t *testing.T) {
	buf := &bytes.Buffer{}
	st := story.New("k1", "Login page", "Build it", "ann")
	st.ReviewStatus = story.ReviewAccepted

	NewPrinterWithWriter(buf).Story(st)

	out := buf.String()
	assert.Contains(t, out, "k1 Login page")
	assert.Contains(t, out, "assignee: ann")
	assert.Contains(t, out, "review:   ACCEPTED")
	assert.Contains(t, out, "Build it")
}

func TestPrinter_Actions(t *testing.T) {
	buf := &bytes.Buffer{}
	NewPrinterWithWriter(buf).Actions([]string{"A", "B"}, "A")

	out := buf.String()
	assert.Contains(t, out, "▶ 1. A")
	assert.Contains(t, out, "  2. B")
}

func TestPrinter_Error(t *testing.T) {
	buf := &bytes.Buffer{}
	NewPrinterWithWriter(buf).Error("story %s not found\n", "k9")

	assert.Contains(t, buf.String(), "Error:")
	assert.Contains(t, buf.String(), "story k9 not found\n")
}
