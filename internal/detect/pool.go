package detect

import (
	"io"

	"gocv.io/x/gocv"

	"fishwatch/internal/dto"
)

// Pool bounds concurrent inference by handing out detector instances from a
// fixed set. Each instance is used by at most one goroutine at a time, so a
// slow inference occupies one slot instead of stalling unrelated callers.
// Pool itself satisfies Detector.
type Pool struct {
	detectors chan Detector
	size      int
}

// NewPool builds size detector instances through factory. On any factory
// failure the already-built instances are released.
func NewPool(size int, factory func() (Detector, error)) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		detectors: make(chan Detector, size),
		size:      size,
	}

	for i := 0; i < size; i++ {
		d, err := factory()
		if err != nil {
			p.Close()
			return nil, err
		}
		p.detectors <- d
	}

	return p, nil
}

// Detect checks a detector out of the pool, runs it, and returns it. Blocks
// while all instances are busy.
func (p *Pool) Detect(frame gocv.Mat) ([]dto.Detection, error) {
	d := <-p.detectors
	defer func() { p.detectors <- d }()
	return d.Detect(frame)
}

// Close releases every detector currently in the pool.
func (p *Pool) Close() {
	for {
		select {
		case d := <-p.detectors:
			if closer, ok := d.(io.Closer); ok {
				closer.Close()
			}
		default:
			return
		}
	}
}
