package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"photosort/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadable verifies that the directory exists and can be listed.
func CheckReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckDiskSpace verifies the filesystem holding path has at least minFree
// bytes available. A path that does not exist yet is checked through its
// nearest existing ancestor.
func CheckDiskSpace(name, path string, minFree uint64) Result {
	target := nearestExisting(path)
	if target == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
	}
	var st unix.Statfs_t
	if err := unix.Statfs(target, &st); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", target, err)}
	}
	free := st.Bavail * uint64(st.Bsize)
	total := st.Blocks * uint64(st.Bsize)
	detail := fmt.Sprintf("%s free of %s", humanize.IBytes(free), humanize.IBytes(total))
	if free < minFree {
		return Result{Name: name, Detail: fmt.Sprintf("%s (need %s)", detail, humanize.IBytes(minFree))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckBinary reports whether an external tool is on PATH.
func CheckBinary(req deps.Requirement) Result {
	status := deps.Check(req)
	result := Result{Name: status.Name, Passed: status.Found, Optional: status.Optional}
	if status.Found {
		result.Detail = status.Path
		return result
	}
	result.Detail = status.Detail
	if status.Purpose != "" {
		result.Detail += " (" + status.Purpose + ")"
	}
	return result
}

// CheckProvider verifies a geocoding endpoint answers HTTP. Any response
// below 500 counts as reachable; authentication is not exercised.
func CheckProvider(ctx context.Context, name, baseURL string) Result {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return Result{Name: name, Optional: true, Detail: "missing url"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodGet, base+"/", nil)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("request failed (%v)", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("unreachable (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("server error (%d)", resp.StatusCode)}
	}
	return Result{Name: name, Optional: true, Passed: true, Detail: "Reachable"}
}

// nearestExisting walks up from path to the first ancestor that exists.
func nearestExisting(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(current); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
