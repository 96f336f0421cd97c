package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/orris-inc/rollcall/internal/domain/proof"
)

// WriterSink writes each encoded payload as one line.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Publish(_ context.Context, encoded string, _ proof.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintln(s.w, encoded)
	return err
}

// LatestSink keeps only the most recent payload for polling readers.
type LatestSink struct {
	mu      sync.RWMutex
	encoded string
	payload proof.Payload
	has     bool
}

func NewLatestSink() *LatestSink {
	return &LatestSink{}
}

func (s *LatestSink) Publish(_ context.Context, encoded string, payload proof.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encoded = encoded
	s.payload = payload
	s.has = true
	return nil
}

// Latest returns the last published payload, or false if none was published
// since construction or the last Reset.
func (s *LatestSink) Latest() (string, proof.Payload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encoded, s.payload, s.has
}

// Reset withdraws the held payload so a stopped session is not served.
func (s *LatestSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.encoded = ""
	s.payload = proof.Payload{}
	s.has = false
}

// MultiSink fans out to several sinks and returns the first error.
type MultiSink []PayloadSink

func (m MultiSink) Publish(ctx context.Context, encoded string, payload proof.Payload) error {
	var first error
	for _, s := range m {
		if err := s.Publish(ctx, encoded, payload); err != nil && first == nil {
			first = err
		}
	}
	return first
}
