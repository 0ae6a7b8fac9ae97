// pkg/nuget/client.go
package nuget

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Client runs the NuGet executable
type Client struct {
	config *Config
	logger *log.Logger
}

// NewClient creates a new NuGet executable runner
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Path == "" {
		cfg.Path = "nuget"
	}
	if cfg.Grace == 0 {
		cfg.Grace = 5 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		config: cfg,
		logger: logger,
	}
}

// Run executes the tool and captures its combined output. A non-zero exit
// code is not an error here; callers classify it. Errors mean the process
// could not run or the context ended.
func (c *Client) Run(ctx context.Context, args ...string) (*Result, error) {
	return c.run(ctx, nil, args...)
}

// RunPassthrough is Run with the output also copied to w as it arrives
func (c *Client) RunPassthrough(ctx context.Context, w io.Writer, args ...string) (*Result, error) {
	return c.run(ctx, w, args...)
}

func (c *Client) run(ctx context.Context, w io.Writer, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, c.config.Path, args...)
	cmd.WaitDelay = c.config.Grace
	if c.config.Dir != "" {
		cmd.Dir = c.config.Dir
	}
	if len(c.config.Env) > 0 {
		cmd.Env = append(os.Environ(), c.config.Env...)
	}

	var buf bytes.Buffer
	var out io.Writer = &buf
	if w != nil {
		out = io.MultiWriter(&buf, w)
	}
	cmd.Stdout = out
	cmd.Stderr = out

	c.logger.Debug("running", "tool", c.config.Path, "args", redact(args))
	start := time.Now()
	err := cmd.Run()

	result := &Result{
		Args:   args,
		Output: buf.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, fmt.Errorf("%s %s: %w", c.config.Path, firstArg(args), ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		return nil, fmt.Errorf("running %s: %w", c.config.Path, err)
	}

	c.logger.Debug("finished", "tool", c.config.Path, "command", firstArg(args),
		"exit", result.ExitCode, "took", time.Since(start).Round(time.Millisecond))
	return result, nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// redact hides the values that follow key arguments
func redact(args []string) string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if strings.EqualFold(out[i], "-ApiKey") {
			out[i+1] = "***"
		}
	}
	if len(out) > 1 && strings.EqualFold(out[0], "setapikey") {
		out[1] = "***"
	}
	return strings.Join(out, " ")
}
