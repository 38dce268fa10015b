package exiftool

import (
	"testing"
	"time"
)

func TestParseVideoPayload(t *testing.T) {
	payload := []byte(`[{
		"SourceFile": "/photos/clip.mov",
		"QuickTime:CreateDate": "0000:00:00 00:00:00",
		"QuickTime:CreationDate": "2023:06:15 14:30:00+02:00",
		"Composite:GPSLatitude": 37.7749,
		"Composite:GPSLongitude": -122.4194,
		"QuickTime:GPSLatitude": 1.0
	}]`)

	result, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := time.Date(2023, 6, 15, 14, 30, 0, 0, time.Local)
	if !result.CaptureTime.Equal(want) {
		t.Fatalf("capture time = %s, want %s", result.CaptureTime, want)
	}
	if !result.HasGPS || result.Latitude != 37.7749 || result.Longitude != -122.4194 {
		t.Fatalf("unexpected gps: %+v", result)
	}
	if len(result.RawJSON()) == 0 {
		t.Fatal("expected raw payload to be retained")
	}
}

func TestParsePrefersDateTimeOriginal(t *testing.T) {
	payload := []byte(`[{"EXIF:CreateDate": "2020:01:01 00:00:00", "EXIF:DateTimeOriginal": "2019:12:31 23:59:59"}]`)
	result, err := Parse(payload)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.CaptureTime.Year() != 2019 {
		t.Fatalf("expected DateTimeOriginal to win, got %s", result.CaptureTime)
	}
	if result.HasGPS {
		t.Fatal("expected no gps without coordinates")
	}
}

func TestParseRequiresBothCoordinates(t *testing.T) {
	result, err := Parse([]byte(`[{"EXIF:GPSLatitude": 10.5}]`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if result.HasGPS {
		t.Fatal("expected partial coordinates to be ignored")
	}
	if result.HasDate() {
		t.Fatal("expected no date")
	}
}

func TestParseRejectsMalformedPayloads(t *testing.T) {
	for _, payload := range []string{`not json`, `[]`, `{"a":1}`} {
		if _, err := Parse([]byte(payload)); err == nil {
			t.Fatalf("expected error for %q", payload)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2023:06:15 14:30:00", true},
		{"2023-06-15 14:30:00.123", true},
		{"2023-06-15T14:30:00Z", true},
		{"2023:06:15", true},
		{"2023-06-15", true},
		{"0000:00:00 00:00:00", false},
		{"yesterday", false},
	}
	for _, tc := range cases {
		if _, ok := ParseDate(tc.in); ok != tc.ok {
			t.Fatalf("ParseDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}
