package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotConfigured marks a requirement whose command is blank.
var ErrNotConfigured = errors.New("command not configured")

// Requirement is an external executable slidecast shells out to.
type Requirement struct {
	Name    string
	Command string
	Purpose string
}

// Status is the lookup outcome for one Requirement. Path is set when the
// command resolved; Err otherwise.
type Status struct {
	Requirement
	Path string
	Err  error
}

func (s Status) Available() bool { return s.Err == nil && s.Path != "" }

// Detail is a one-line explanation for unavailable tools.
func (s Status) Detail() string {
	switch {
	case s.Available():
		return ""
	case errors.Is(s.Err, ErrNotConfigured):
		return ErrNotConfigured.Error()
	default:
		return fmt.Sprintf("binary %q not found", s.Command)
	}
}

// CheckBinaries resolves every requirement against PATH. Commands that
// contain a separator are checked as given.
func CheckBinaries(reqs []Requirement) []Status {
	out := make([]Status, len(reqs))
	for i, req := range reqs {
		req.Command = strings.TrimSpace(req.Command)
		out[i] = Status{Requirement: req}
		if req.Command == "" {
			out[i].Err = ErrNotConfigured
			continue
		}
		out[i].Path, out[i].Err = exec.LookPath(req.Command)
	}
	return out
}

// Missing names the unavailable tools, in requirement order.
func Missing(statuses []Status) []string {
	var names []string
	for _, s := range statuses {
		if !s.Available() {
			names = append(names, s.Name)
		}
	}
	return names
}
