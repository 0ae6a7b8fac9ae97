// pkg/platform/process.go
package platform

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/process"
)

// RunningProcesses returns which of names currently have a running process
func RunningProcesses(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	running := make(map[string]bool)
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// Process exited or is not ours to inspect.
			continue
		}
		running[processKey(name)] = true
	}

	return matchRunning(names, running), nil
}

func matchRunning(names []string, running map[string]bool) []string {
	var found []string
	seen := make(map[string]bool)
	for _, name := range names {
		key := processKey(name)
		if running[key] && !seen[key] {
			seen[key] = true
			found = append(found, name)
		}
	}
	sort.Strings(found)
	return found
}
