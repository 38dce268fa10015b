package planner

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"photosort/internal/faults"
	"photosort/internal/logging"
	"photosort/internal/media"
)

const (
	// UnknownDate is the year directory for items without a capture date.
	UnknownDate = "Unknown_Date"
	// UnknownLocation is the location directory for items without a location.
	UnknownLocation = "Unknown"
	// MaxCollisionAttempts bounds collision numbering.
	MaxCollisionAttempts = 1000
)

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

var knownPlaceholders = map[string]bool{
	"date":          true,
	"year":          true,
	"month":         true,
	"day":           true,
	"original_name": true,
	"ext":           true,
	"counter":       true,
}

// Plan is a planned destination.
type Plan struct {
	Dir      string
	Filename string
}

// Path joins Dir and Filename.
func (p Plan) Path() string {
	return filepath.Join(p.Dir, p.Filename)
}

// Planner computes destination paths under a library root.
type Planner struct {
	root        string
	template    string
	usesCounter bool
	logger      *slog.Logger

	mu       sync.Mutex
	reserved map[string]struct{}
}

// New validates template and returns a planner rooted at root.
func New(root, template string, logger *slog.Logger) (*Planner, error) {
	if strings.TrimSpace(root) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "planner", "new", "destination root is empty", nil)
	}
	if err := ValidateTemplate(template); err != nil {
		return nil, err
	}
	return &Planner{
		root:        filepath.Clean(root),
		template:    template,
		usesCounter: strings.Contains(template, "{counter}"),
		logger:      logging.NewComponentLogger(logger, "planner"),
		reserved:    make(map[string]struct{}),
	}, nil
}

// ValidateTemplate rejects empty templates, path separators, unknown
// placeholders and stray or doubled braces.
func ValidateTemplate(template string) error {
	if strings.TrimSpace(template) == "" {
		return faults.Wrap(faults.ErrConfiguration, "planner", "validate template", "filename template is empty", nil)
	}
	if strings.ContainsAny(template, `/\`) {
		return faults.Wrap(faults.ErrConfiguration, "planner", "validate template",
			fmt.Sprintf("filename template %q must not contain path separators", template), nil)
	}
	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !knownPlaceholders[match[1]] {
			return faults.Wrap(faults.ErrConfiguration, "planner", "validate template",
				fmt.Sprintf("unknown placeholder {%s} in filename template %q", match[1], template), nil)
		}
	}
	// Literal braces have no escape syntax.
	if strings.ContainsAny(placeholderPattern.ReplaceAllString(template, ""), "{}") {
		return faults.Wrap(faults.ErrConfiguration, "planner", "validate template",
			fmt.Sprintf("filename template %q has a brace outside a placeholder", template), nil)
	}
	return nil
}

// Root returns the destination root.
func (p *Planner) Root() string {
	return p.root
}

// Plan computes the directory and filename for item filed under location.
// An empty location files the item under Unknown.
func (p *Planner) Plan(item media.Item, location string) Plan {
	location = safeComponent(location)
	var dir string
	if item.HasDate() {
		ts := item.CaptureTime
		dir = filepath.Join(p.root, fmt.Sprintf("%04d", ts.Year()), fmt.Sprintf("%02d", int(ts.Month())), location)
	} else {
		dir = filepath.Join(p.root, UnknownDate, location)
	}
	return Plan{Dir: dir, Filename: p.render(item, "")}
}

// ResolveCollision returns path unchanged when nothing exists there.
// Otherwise it numbers the name: templates with {counter} are re-rendered
// with _1, _2, ...; other names get _N inserted before the extension.
func (p *Planner) ResolveCollision(path string, item media.Item) (string, error) {
	taken, err := p.taken(path)
	if err != nil {
		return "", err
	}
	if !taken {
		return path, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; n <= MaxCollisionAttempts; n++ {
		var candidate string
		if p.usesCounter {
			candidate = filepath.Join(dir, p.render(item, fmt.Sprintf("_%d", n)))
		} else {
			candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		}
		taken, err := p.taken(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			p.logger.Debug("resolved filename collision",
				logging.String("original", path),
				logging.String("resolved", candidate),
			)
			return candidate, nil
		}
	}
	return "", faults.Wrap(faults.ErrPathExhausted, "planner", "resolve collision",
		fmt.Sprintf("no free name for %s after %d attempts", path, MaxCollisionAttempts), nil)
}

// Reserve marks path as occupied without creating it, so dry runs number
// colliding items the same way a real run would.
func (p *Planner) Reserve(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reserved[path] = struct{}{}
}

// ResetReservations forgets every Reserve call.
func (p *Planner) ResetReservations() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reserved = make(map[string]struct{})
}

// CreateDirectory ensures dir exists. Dry runs report success without
// touching the filesystem. Failures are logged and reported as false.
func (p *Planner) CreateDirectory(dir string, dryRun bool) bool {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return true
	}
	if dryRun {
		p.logger.Debug("dry run: would create directory", logging.String("dir", dir))
		return true
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logging.ErrorWithContext(p.logger, "failed to create directory", "directory_create_failed",
			logging.String("dir", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions and free space in the destination"),
		)
		return false
	}
	p.logger.Debug("created directory", logging.String("dir", dir))
	return true
}

// RelativePath returns full relative to the destination root, or full
// unchanged when it lies outside the root.
func (p *Planner) RelativePath(full string) string {
	rel, err := filepath.Rel(p.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return full
	}
	return rel
}

func (p *Planner) render(item media.Item, counter string) string {
	date, year, month, day := "Unknown", "Unknown", "Unknown", "Unknown"
	if item.HasDate() {
		ts := item.CaptureTime
		date = ts.Format("2006-01-02")
		year = fmt.Sprintf("%04d", ts.Year())
		month = fmt.Sprintf("%02d", int(ts.Month()))
		day = fmt.Sprintf("%02d", ts.Day())
	}
	return strings.NewReplacer(
		"{date}", date,
		"{year}", year,
		"{month}", month,
		"{day}", day,
		"{original_name}", item.Stem(),
		"{ext}", item.Ext(),
		"{counter}", counter,
	).Replace(p.template)
}

// safeComponent keeps location names to a single directory level.
func safeComponent(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "" || name == "." || name == ".." {
		return UnknownLocation
	}
	return name
}

func (p *Planner) taken(path string) (bool, error) {
	p.mu.Lock()
	_, reserved := p.reserved[path]
	p.mu.Unlock()
	if reserved {
		return true, nil
	}
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, faults.Wrap(faults.ErrFilesystem, "planner", "check path", path, err)
	}
	return true, nil
}
