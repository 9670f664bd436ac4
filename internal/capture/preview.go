package capture

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Preview holds the most recent camera frame as a JPEG so that viewers can
// watch the camera without reading from the device themselves.
type Preview struct {
	mu      sync.Mutex
	jpeg    []byte
	seq     uint64
	updated chan struct{}
}

// NewPreview creates an empty Preview.
func NewPreview() *Preview {
	return &Preview{updated: make(chan struct{})}
}

// Publish encodes frame and replaces the stored image. Empty frames are ignored.
func (p *Preview) Publish(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() {
		return nil
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	p.Store(data)
	return nil
}

// Store replaces the stored image with an already encoded JPEG.
func (p *Preview) Store(jpeg []byte) {
	p.mu.Lock()
	p.jpeg = jpeg
	p.seq++
	close(p.updated)
	p.updated = make(chan struct{})
	p.mu.Unlock()
}

// Latest returns the stored JPEG and its sequence number. The sequence is
// zero until the first frame is published.
func (p *Preview) Latest() ([]byte, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jpeg, p.seq
}

// Next blocks until a frame newer than seq is stored or ctx is done.
func (p *Preview) Next(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	for {
		p.mu.Lock()
		if p.seq > seq {
			jpeg, cur := p.jpeg, p.seq
			p.mu.Unlock()
			return jpeg, cur, nil
		}
		wait := p.updated
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		case <-wait:
		}
	}
}
