package captioner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"aivideorename/internal/logging"
	"aivideorename/internal/services"
)

// ImageDescriber is the subset of the vision model client used here.
type ImageDescriber interface {
	CaptionImage(ctx context.Context, image []byte, mimeType string) (string, error)
}

// FrameGrabber extracts a single JPEG frame at offset from path.
type FrameGrabber func(ctx context.Context, binary, path string, offset time.Duration) ([]byte, error)

// VisionCaptioner captions a file by describing one of its frames.
type VisionCaptioner struct {
	client      ImageDescriber
	binary      string
	frameOffset time.Duration
	grab        FrameGrabber
	logger      *slog.Logger
}

// VisionOption customizes a VisionCaptioner.
type VisionOption func(*VisionCaptioner)

// WithFFmpegBinary sets the ffmpeg executable.
func WithFFmpegBinary(binary string) VisionOption {
	return func(v *VisionCaptioner) {
		if strings.TrimSpace(binary) != "" {
			v.binary = strings.TrimSpace(binary)
		}
	}
}

// WithFrameOffset sets how far into the file the frame is taken.
func WithFrameOffset(offset time.Duration) VisionOption {
	return func(v *VisionCaptioner) {
		if offset >= 0 {
			v.frameOffset = offset
		}
	}
}

// WithFrameGrabber overrides frame extraction (useful for tests).
func WithFrameGrabber(grab FrameGrabber) VisionOption {
	return func(v *VisionCaptioner) {
		if grab != nil {
			v.grab = grab
		}
	}
}

// WithVisionLogger attaches a logger.
func WithVisionLogger(logger *slog.Logger) VisionOption {
	return func(v *VisionCaptioner) {
		v.logger = logging.NewComponentLogger(logger, "captioner")
	}
}

// NewVisionCaptioner constructs the online caption provider.
func NewVisionCaptioner(client ImageDescriber, opts ...VisionOption) *VisionCaptioner {
	v := &VisionCaptioner{
		client:      client,
		binary:      "ffmpeg",
		frameOffset: time.Second,
		grab:        GrabFrame,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Caption implements Provider.
func (v *VisionCaptioner) Caption(ctx context.Context, path string) (string, error) {
	if v.client == nil {
		return "", services.Wrap(services.ErrConfiguration, "caption", "vision", "no model client", ErrNoCaption)
	}

	frame, err := v.grab(ctx, v.binary, path, v.frameOffset)
	if (err != nil || len(frame) == 0) && v.frameOffset > 0 && ctx.Err() == nil {
		// Clips shorter than the offset yield no frame.
		v.logger.Debug("retrying frame grab at start of file",
			logging.String(logging.FieldSource, path),
			logging.Duration("offset", v.frameOffset),
		)
		frame, err = v.grab(ctx, v.binary, path, 0)
	}
	if err != nil {
		return "", err
	}
	if len(frame) == 0 {
		return "", services.Wrap(services.ErrExternalTool, "caption", "ffmpeg", "no frame decoded", ErrNoCaption)
	}

	started := time.Now()
	caption, err := v.client.CaptionImage(ctx, frame, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("caption %s: %w", path, err)
	}
	v.logger.Debug("vision caption received",
		logging.String(logging.FieldSource, path),
		logging.String("caption", caption),
		logging.Duration("elapsed", time.Since(started)),
	)
	return caption, nil
}

// GrabFrame runs ffmpeg and returns one JPEG-encoded frame.
func GrabFrame(ctx context.Context, binary, path string, offset time.Duration) ([]byte, error) {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	args := []string{"-hide_banner", "-loglevel", "error"}
	if offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64))
	}
	args = append(args, "-i", path, "-frames:v", "1", "-f", "image2pipe", "-vcodec", "mjpeg", "-")

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, services.Wrap(services.ErrExternalTool, "caption", "ffmpeg", strings.TrimSpace(stderr.String()), err)
		}
		return nil, services.Wrap(services.ErrExternalTool, "caption", "ffmpeg", "", err)
	}
	return stdout.Bytes(), nil
}
