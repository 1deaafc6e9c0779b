package clk

import (
	"fmt"
	"strings"
)

const (
	// reportLimit bounds the formatted enabled-clock list in bytes.
	reportLimit     = 1024
	reportSeparator = ", "
)

// EnabledReport is a snapshot of the currently enabled clocks. Count is
// exactly the number of names included in Names, which may be fewer than
// the number of enabled clocks when the size bound truncates the scan.
type EnabledReport struct {
	Count int
	Names string
}

func (r EnabledReport) String() string {
	if r.Count == 0 {
		return "No clocks enabled."
	}

	return fmt.Sprintf("Enabled clocks (%d): %s", r.Count, r.Names)
}

// Reporter walks a registry and summarizes its enabled clocks.
type Reporter struct {
	registry *Registry
	limit    int
}

func NewReporter(registry *Registry) *Reporter {
	return &Reporter{
		registry: registry,
		limit:    reportLimit,
	}
}

// Report scans the registry in its fixed order and collects the names of
// enabled clocks into a comma-separated list bounded at the report limit.
// The scan takes no lock: concurrent enable and disable calls elsewhere
// may leave momentarily stale entries, which is acceptable for a
// diagnostic path. Accumulation stops before an append would exceed the
// bound, so the list is always well formed with no trailing separator.
func (r *Reporter) Report() EnabledReport {
	var names strings.Builder
	count := 0

	for _, n := range r.registry.Nodes() {
		if !IsEnabled(n) {
			continue
		}

		need := len(n.Name)
		if names.Len() > 0 {
			need += len(reportSeparator)
		}
		if names.Len()+need > r.limit {
			break
		}

		if names.Len() > 0 {
			names.WriteString(reportSeparator)
		}
		names.WriteString(n.Name)
		count++
	}

	return EnabledReport{
		Count: count,
		Names: names.String(),
	}
}
