// Package output renders execution histories and stories for the terminal.
//
// Styling uses lipgloss. The renderer is bound to the destination writer, so
// output to a pipe or a buffer carries no escape codes.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"storyflow/internal/action"
	"storyflow/internal/story"
)

// Printer writes styled output.
type Printer struct {
	out io.Writer

	title   lipgloss.Style
	success lipgloss.Style
	waiting lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
	key     lipgloss.Style
}

// NewPrinter creates a printer that writes to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a printer that writes to w.
func NewPrinterWithWriter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		out:     w,
		title:   r.NewStyle().Bold(true).Underline(true),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		waiting: r.NewStyle().Foreground(lipgloss.Color("11")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		key:     r.NewStyle().Bold(true),
	}
}

// Writer returns the destination writer.
func (p *Printer) Writer() io.Writer { return p.out }

// History prints a titled execution history, one line per step.
func (p *Printer) History(title string, steps []action.StepJSON) {
	fmt.Fprintln(p.out, p.title.Render(title))
	if len(steps) == 0 {
		fmt.Fprintln(p.out, p.muted.Render("  (no steps)"))
		return
	}
	for i, s := range steps {
		p.step(i+1, s)
	}
}

// StepDone prints a progress line for a step as it completes. It has the
// signature of [action.ObserverFunc].
func (p *Printer) StepDone(name action.Name, status action.Status, d time.Duration) {
	fmt.Fprintf(p.out, "%s %s %s\n", p.muted.Render("→"), name, p.status(status)+p.muted.Render(fmt.Sprintf(" (%s)", d.Round(time.Millisecond))))
}

func (p *Printer) step(n int, s action.StepJSON) {
	line := fmt.Sprintf("  %d. %-34s %s", n, s.ActionName, p.status(s.ActionResult.Status))
	if s.ActionResult.ErrorCode != "" {
		line += " " + p.failure.Render(s.ActionResult.ErrorCode)
	}
	if s.ActionResult.ErrorMessage != "" {
		line += " " + p.muted.Render(s.ActionResult.ErrorMessage)
	}
	fmt.Fprintln(p.out, line)
}

func (p *Printer) status(s action.Status) string {
	switch s {
	case action.StatusSuccess:
		return p.success.Render(string(s))
	case action.StatusWaiting:
		return p.waiting.Render(string(s))
	default:
		return p.failure.Render(string(s))
	}
}

// Story prints the key fields of a single story.
func (p *Printer) Story(st *story.Story) {
	fmt.Fprintf(p.out, "%s %s\n", p.key.Render(st.Key), st.Name)
	fmt.Fprintf(p.out, "  status:   %s\n", st.Status)
	if st.ReviewStatus != "" {
		fmt.Fprintf(p.out, "  review:   %s\n", st.ReviewStatus)
	}
	if st.Assignee != "" {
		fmt.Fprintf(p.out, "  assignee: %s\n", st.Assignee)
	}
	if st.Description != "" {
		fmt.Fprintf(p.out, "  %s\n", p.muted.Render(st.Description))
	}
}

// Stories prints a table of stories.
func (p *Printer) Stories(stories []*story.Story) {
	if len(stories) == 0 {
		fmt.Fprintln(p.out, p.muted.Render("No stories found"))
		return
	}
	header := fmt.Sprintf("%-36s  %-12s  %-10s  %s", "KEY", "STATUS", "ASSIGNEE", "NAME")
	fmt.Fprintln(p.out, p.title.Render(header))
	for _, st := range stories {
		fmt.Fprintf(p.out, "%-36s  %-12s  %-10s  %s\n", st.Key, st.Status, st.Assignee, st.Name)
	}
}

// Actions prints action names in chain order, marking the start action.
func (p *Printer) Actions(names []string, start string) {
	for i, n := range names {
		marker := "  "
		if n == start {
			marker = p.success.Render("▶ ")
		}
		fmt.Fprintf(p.out, "%s%d. %s\n", marker, i+1, n)
	}
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintln(p.out, p.failure.Render("Error:")+" "+msg)
}
