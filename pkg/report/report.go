// pkg/report/report.go
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Status is the outcome of one package in a run
type Status int

const (
	StatusSatisfied Status = iota // already installed and linked, nothing done
	StatusInstalled
	StatusAlreadyInstalled
	StatusCleaned
	StatusPushed
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSatisfied:
		return "Version already installed"
	case StatusInstalled:
		return "Installation successful"
	case StatusAlreadyInstalled:
		return "Version already installed, relinked"
	case StatusCleaned:
		return "Cleaned"
	case StatusPushed:
		return "Push successful"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Failed"
	}
}

// Entry is one package's result
type Entry struct {
	Package  string
	Version  string
	Status   Status
	Err      error   // set for StatusFailed
	Warnings []error // non-fatal problems
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
)

// Column widths of the status table
const (
	packageWidth = 28
	versionWidth = 37
)

// Report aggregates the outcome of a run. It is safe for concurrent use;
// every row is emitted with a single write so rows never interleave.
type Report struct {
	mu       sync.Mutex
	out      io.Writer
	entries  []Entry
	errors   int
	warnings int
}

// New creates a report writing rows to out
func New(out io.Writer) *Report {
	if out == nil {
		out = io.Discard
	}
	return &Report{out: out}
}

// Header writes the table header
func (r *Report) Header() {
	line := headerStyle.Render(pad("  ~Package Name~", packageWidth) + " " + pad("~Version~", versionWidth) + " ~Result~")
	r.write(line + "\n")
}

// Record adds a package result and prints its row
func (r *Report) Record(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	if e.Status == StatusFailed {
		r.errors++
	}
	r.warnings += len(e.Warnings)
	r.mu.Unlock()

	r.write(formatEntry(e))
}

// Error records a failure not tied to one package
func (r *Report) Error(err error) {
	r.mu.Lock()
	r.errors++
	r.mu.Unlock()
	r.write(errorStyle.Render("ERROR: "+err.Error()) + "\n")
}

// Warn records a warning not tied to one package
func (r *Report) Warn(err error) {
	r.mu.Lock()
	r.warnings++
	r.mu.Unlock()
	r.write(warningStyle.Render("WARNING: "+err.Error()) + "\n")
}

// Info prints a message without touching the counters
func (r *Report) Info(msg string) {
	r.write(successStyle.Render(msg) + "\n")
}

// Entries returns a copy of the recorded results
func (r *Report) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// HasErrors reports whether any error was recorded
func (r *Report) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors > 0
}

// HasWarnings reports whether any warning was recorded
func (r *Report) HasWarnings() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.warnings > 0
}

// ExitCode is 1 when any error was recorded. Warnings alone keep 0.
func (r *Report) ExitCode() int {
	if r.HasErrors() {
		return 1
	}
	return 0
}

// Summary returns the final one-line outcome for command
func (r *Report) Summary(command string) string {
	switch {
	case r.HasErrors():
		return fmt.Sprintf("PBGet %s operation completed with errors", command)
	case r.HasWarnings():
		return fmt.Sprintf("PBGet %s operation completed with warnings", command)
	default:
		return fmt.Sprintf("PBGet %s operation completed without errors", command)
	}
}

// Finish prints the summary line in the colour of its outcome
func (r *Report) Finish(command string) {
	style := successStyle
	switch {
	case r.HasErrors():
		style = errorStyle
	case r.HasWarnings():
		style = warningStyle
	}
	r.write("\n" + style.Render(r.Summary(command)) + "\n")
}

func (r *Report) write(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	io.WriteString(r.out, s)
}

func formatEntry(e Entry) string {
	var b strings.Builder

	row := pad(e.Package, packageWidth) + " " + pad(e.Version, versionWidth) + " " + e.Status.String()
	switch {
	case e.Status == StatusFailed:
		b.WriteString(errorStyle.Render(row))
	case len(e.Warnings) > 0 || e.Status == StatusSkipped:
		b.WriteString(warningStyle.Render(row))
	default:
		b.WriteString(successStyle.Render(row))
	}
	b.WriteString("\n")

	if e.Err != nil {
		b.WriteString(detailStyle.Render(indent(describe(e.Err))))
		b.WriteString("\n")
	}
	for _, w := range e.Warnings {
		b.WriteString(warningStyle.Render(indent("warning: " + w.Error())))
		b.WriteString("\n")
	}
	return b.String()
}

func describe(err error) string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		parts := make([]string, 0)
		for _, e := range joined.Unwrap() {
			parts = append(parts, e.Error())
		}
		return strings.Join(parts, "\n")
	}
	return err.Error()
}

func indent(s string) string {
	return "    " + strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n    ")
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
