package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external program and what photosort uses it for.
type Requirement struct {
	Name     string
	Command  string
	Purpose  string
	Optional bool
}

// Status is the outcome of looking up one Requirement.
type Status struct {
	Requirement
	Path   string
	Found  bool
	Detail string
}

// Resolve looks command up on PATH.
func Resolve(command string) (string, bool) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", false
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", false
	}
	return path, true
}

// Check looks up a single requirement.
func Check(req Requirement) Status {
	req.Command = strings.TrimSpace(req.Command)
	req.Purpose = strings.TrimSpace(req.Purpose)
	status := Status{Requirement: req}
	switch path, ok := Resolve(req.Command); {
	case req.Command == "":
		status.Detail = "command not configured"
	case !ok:
		status.Detail = fmt.Sprintf("%q is not on PATH", req.Command)
	default:
		status.Path = path
		status.Found = true
	}
	return status
}

// CheckAll looks up every requirement, preserving order.
func CheckAll(reqs []Requirement) []Status {
	statuses := make([]Status, len(reqs))
	for i, req := range reqs {
		statuses[i] = Check(req)
	}
	return statuses
}
