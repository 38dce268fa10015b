package exiftool

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds a single exiftool invocation.
const DefaultTimeout = 10 * time.Second

// dateFields are tried in order; group prefixes from -G are ignored.
var dateFields = []string{
	"DateTimeOriginal",
	"CreateDate",
	"CreationDate",
	"MediaCreateDate",
}

var dateLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006:01:02",
	"2006-01-02",
}

// Result is the subset of exiftool output photosort consumes.
type Result struct {
	CaptureTime time.Time
	Latitude    float64
	Longitude   float64
	HasGPS      bool
	raw         []byte
}

// HasDate reports whether a capture time was found.
func (r Result) HasDate() bool {
	return !r.CaptureTime.IsZero()
}

// RawJSON returns the raw exiftool JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// Inspect executes exiftool against path and parses the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("exiftool inspect: empty path")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	args := []string{"-j", "-G", "-n"}
	for _, field := range dateFields {
		args = append(args, "-"+field)
	}
	args = append(args, "-GPSLatitude", "-GPSLongitude", "--", path)

	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("exiftool inspect: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("exiftool inspect: %w", err)
	}
	return Parse(output)
}

// Parse decodes the first object of an exiftool -j -G -n payload.
func Parse(payload []byte) (Result, error) {
	if !gjson.ValidBytes(payload) {
		return Result{}, errors.New("exiftool parse: invalid json")
	}
	obj := gjson.GetBytes(payload, "0")
	if !obj.IsObject() {
		return Result{}, errors.New("exiftool parse: expected a non-empty array of objects")
	}

	fields := map[string][]gjson.Result{}
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if idx := strings.LastIndexByte(name, ':'); idx >= 0 {
			name = name[idx+1:]
		}
		// Composite values are already signed decimals; keep them first.
		if strings.HasPrefix(key.String(), "Composite:") {
			fields[name] = append([]gjson.Result{value}, fields[name]...)
		} else {
			fields[name] = append(fields[name], value)
		}
		return true
	})

	result := Result{raw: append([]byte(nil), payload...)}
	for _, field := range dateFields {
		if ts, ok := firstDate(fields[field]); ok {
			result.CaptureTime = ts
			break
		}
	}

	lat, latOK := firstNumber(fields["GPSLatitude"])
	lon, lonOK := firstNumber(fields["GPSLongitude"])
	if latOK && lonOK {
		result.Latitude = lat
		result.Longitude = lon
		result.HasGPS = true
	}
	return result, nil
}

// ParseDate parses the date formats exiftool emits, ignoring fractional
// seconds and any zone suffix.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if len(value) > 19 {
		value = value[:19]
	}
	for _, layout := range dateLayouts {
		if len(value) != len(layout) {
			continue
		}
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func firstDate(values []gjson.Result) (time.Time, bool) {
	for _, v := range values {
		if v.Type != gjson.String {
			continue
		}
		if ts, ok := ParseDate(v.Str); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func firstNumber(values []gjson.Result) (float64, bool) {
	for _, v := range values {
		if v.Type == gjson.Number {
			return v.Num, true
		}
	}
	return 0, false
}
