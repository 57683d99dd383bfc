package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"aivideorename/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string            `json:"filename"`
	FormatName string            `json:"format_name"`
	Duration   string            `json:"duration"`
	Tags       map[string]string `json:"tags"`
}

// creationTagKeys lists container tags that carry a recording timestamp,
// most specific first.
var creationTagKeys = []string{
	"com.apple.quicktime.creationdate",
	"creation_time",
	"date",
	"date_recorded",
}

// timestampLayouts are full dates only; a bare year would invent a day.
// Layouts without a zone are local clock readings.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05-0700", true},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02", false},
	{"2006:01:02 15:04:05", false},
	{"20060102", false},
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, services.Wrap(services.ErrExternalTool, "ffprobe", "inspect", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "ffprobe", "inspect", "", err)
	}
	return Parse(output)
}

// Parse decodes raw ffprobe JSON.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// CreationTime returns the first parseable recording timestamp, checking
// container tags before video stream tags. Stamps without a zone are read
// in loc; a nil loc means time.Local.
func (r Result) CreationTime(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if ts, ok := creationFromTags(r.Format.Tags, loc); ok {
		return ts, true
	}
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		if ts, ok := creationFromTags(stream.Tags, loc); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func creationFromTags(tags map[string]string, loc *time.Location) (time.Time, bool) {
	if len(tags) == 0 {
		return time.Time{}, false
	}
	lowered := make(map[string]string, len(tags))
	for k, v := range tags {
		lowered[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	for _, key := range creationTagKeys {
		value, ok := lowered[key]
		if !ok || value == "" {
			continue
		}
		if ts, ok := parseTimestamp(value, loc); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

func parseTimestamp(value string, loc *time.Location) (time.Time, bool) {
	for _, candidate := range timestampLayouts {
		var ts time.Time
		var err error
		if candidate.zoned {
			ts, err = time.Parse(candidate.layout, value)
		} else {
			ts, err = time.ParseInLocation(candidate.layout, value, loc)
		}
		if err != nil {
			continue
		}
		// Cameras that never had their clock set report the epoch.
		if ts.Year() < 1971 {
			return time.Time{}, false
		}
		return ts, true
	}
	return time.Time{}, false
}
