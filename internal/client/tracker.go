package client

import (
	"context"

	"github.com/tsadityaa/BrowseCart/internal/geo"
	"github.com/tsadityaa/BrowseCart/internal/models"
)

// MoveThresholdKm is roughly 0.01 degrees of latitude.
const MoveThresholdKm = 1.1

// Tracker forwards device positions, dropping those within ThresholdKm of
// the last position it emitted.
type Tracker struct {
	ThresholdKm float64
}

func NewTracker() *Tracker {
	return &Tracker{ThresholdKm: MoveThresholdKm}
}

// Run reads positions from in until it is closed or ctx is done. The first
// valid position is always emitted. The returned channel is closed when Run
// stops.
func (t *Tracker) Run(ctx context.Context, in <-chan models.Position) <-chan models.Position {
	out := make(chan models.Position)

	go func() {
		defer close(out)

		var last models.Position
		hasLast := false

		for {
			select {
			case <-ctx.Done():
				return
			case pos, ok := <-in:
				if !ok {
					return
				}
				if pos.Check() != nil {
					continue
				}
				if hasLast && !geo.MovedBeyond(last, pos, t.ThresholdKm) {
					continue
				}

				select {
				case out <- pos:
					last, hasLast = pos, true
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
