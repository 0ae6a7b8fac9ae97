package report_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/projectborealis/pbget/pkg/report"
)

func TestSummaryAndExitCode(t *testing.T) {
	t.Run("clean run", func(t *testing.T) {
		r := report.New(nil)
		r.Record(report.Entry{Package: "A", Version: "1.0.0-x", Status: report.StatusInstalled})
		assert.Equal(t, "PBGet pull operation completed without errors", r.Summary("pull"))
		assert.Equal(t, 0, r.ExitCode())
	})

	t.Run("warnings keep exit code zero", func(t *testing.T) {
		r := report.New(nil)
		r.Record(report.Entry{Package: "A", Status: report.StatusSkipped, Warnings: []error{errors.New("stale")}})
		assert.Equal(t, "PBGet pull operation completed with warnings", r.Summary("pull"))
		assert.True(t, r.HasWarnings())
		assert.Equal(t, 0, r.ExitCode())
	})

	t.Run("errors win over warnings", func(t *testing.T) {
		r := report.New(nil)
		r.Warn(errors.New("cannot remove temporary file"))
		r.Record(report.Entry{Package: "B", Status: report.StatusFailed, Err: errors.New("not found")})
		assert.Equal(t, "PBGet push operation completed with errors", r.Summary("push"))
		assert.Equal(t, 1, r.ExitCode())
	})

	t.Run("standalone error", func(t *testing.T) {
		r := report.New(nil)
		r.Error(errors.New("editor running"))
		assert.True(t, r.HasErrors())
	})
}

func TestRows(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)
	r.Header()
	r.Record(report.Entry{Package: "PBCore", Version: "1.2.0-abcdef12", Status: report.StatusInstalled})
	r.Record(report.Entry{Package: "PBAudio", Version: "2.0.0-abcdef12", Status: report.StatusFailed,
		Err: errors.Join(errors.New("not found"), errors.New("trace"))})
	r.Finish("pull")

	out := buf.String()
	assert.Contains(t, out, "~Package Name~")
	assert.Contains(t, out, "PBCore")
	assert.Contains(t, out, "Installation successful")
	assert.Contains(t, out, "    not found\n    trace")
	assert.Contains(t, out, "completed with errors")
}

func TestConcurrentRecord(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := report.StatusInstalled
			if i%10 == 0 {
				status = report.StatusFailed
			}
			r.Record(report.Entry{Package: fmt.Sprintf("pkg%02d", i), Status: status})
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Entries(), 50)
	assert.Equal(t, 1, r.ExitCode())
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.True(t, strings.Contains(line, "pkg"), "interleaved line %q", line)
	}
}
