package queue

import (
	"fetchanything/pkg/models"
)

// FrameStack is the explicit LIFO of pending traversal frames.
// It replaces native recursion so adversarial link depth cannot grow the goroutine stack.
// Not safe for concurrent use: the crawl is single-threaded.
type FrameStack struct {
	frames []models.Frame
	peak   int // Largest length reached, for diagnostics
}

// NewFrameStack returns a stack holding the seed frame
func NewFrameStack(seed models.Frame) *FrameStack {
	return &FrameStack{frames: []models.Frame{seed}, peak: 1}
}

// PushChildren pushes links as frames at depth, in reverse, so the first link pops first.
// This keeps pop order identical to a recursive walk over links in extraction order.
func (s *FrameStack) PushChildren(links []string, depth int) {
	for i := len(links) - 1; i >= 0; i-- {
		s.frames = append(s.frames, models.Frame{URL: links[i], Depth: depth})
	}
	if len(s.frames) > s.peak {
		s.peak = len(s.frames)
	}
}

// Pop removes and returns the most recently pushed frame
// Returns false when the stack is empty
func (s *FrameStack) Pop() (models.Frame, bool) {
	n := len(s.frames)
	if n == 0 {
		return models.Frame{}, false
	}
	f := s.frames[n-1]
	s.frames[n-1] = models.Frame{} // release the string
	s.frames = s.frames[:n-1]
	return f, true
}

// Len returns the number of pending frames
func (s *FrameStack) Len() int { return len(s.frames) }

// Peak returns the largest number of frames pending at once
func (s *FrameStack) Peak() int { return s.peak }
