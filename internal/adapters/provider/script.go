package provider

import (
	"context"
	"sync"
	"time"

	"github.com/okian/vigil/internal/domain/model"
)

// Frame is one scripted observation: the face and object results a
// real provider pair would return for a single captured frame.
type Frame struct {
	Faces   []model.Face
	Objects []model.Detection
}

// Script replays a fixed frame sequence on a wall-clock schedule. It
// implements both provider interfaces so one script drives a whole
// tick; the frame index is derived from elapsed time, so face and
// object reads within the same tick see the same frame. The last frame
// repeats once the script runs out.
type Script struct {
	mu       sync.Mutex
	frames   []Frame
	interval time.Duration
	started  time.Time
}

// NewScript creates a script advancing one frame per interval.
func NewScript(frames []Frame, interval time.Duration) *Script {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Script{frames: frames, interval: interval}
}

// DetectFaces implements FaceProvider.
func (s *Script) DetectFaces(_ context.Context) ([]model.Face, error) {
	f, err := s.current()
	if err != nil {
		return nil, err
	}
	return f.Faces, nil
}

// DetectObjects implements ObjectProvider.
func (s *Script) DetectObjects(_ context.Context) ([]model.Detection, error) {
	f, err := s.current()
	if err != nil {
		return nil, err
	}
	return f.Objects, nil
}

func (s *Script) current() (Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return Frame{}, ErrNotReady
	}
	if s.started.IsZero() {
		s.started = time.Now()
	}
	idx := int(time.Since(s.started) / s.interval)
	if idx >= len(s.frames) {
		idx = len(s.frames) - 1
	}
	return s.frames[idx], nil
}
