package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/geo"
	"github.com/tsadityaa/BrowseCart/internal/models"
)

// BrowseRadiusKm is the radius used for "shops near me".
const BrowseRadiusKm = models.DefaultRadiusKm

type Source string

const (
	SourceAPI      Source = "api"
	SourceSnapshot Source = "snapshot"
)

// Browser answers shop queries from the API while it is reachable and from a
// local snapshot otherwise. Both paths use the same great-circle radius.
type Browser struct {
	api    *Client
	logger zerolog.Logger

	mu       sync.RWMutex
	online   bool
	snapshot []models.Shop
}

func NewBrowser(api *Client, snapshot []models.Shop, logger zerolog.Logger) *Browser {
	b := &Browser{api: api, logger: logger}
	b.SetSnapshot(snapshot)
	return b
}

func (b *Browser) Online() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.online
}

func (b *Browser) setOnline(online bool) {
	b.mu.Lock()
	changed := b.online != online
	b.online = online
	b.mu.Unlock()

	if changed {
		b.logger.Info().Bool("online", online).Msg("API availability changed")
	}
}

func (b *Browser) SetSnapshot(shops []models.Shop) {
	copied := make([]models.Shop, len(shops))
	for i, s := range shops {
		copied[i] = s.Clone()
	}
	b.mu.Lock()
	b.snapshot = copied
	b.mu.Unlock()
}

func (b *Browser) Snapshot() []models.Shop {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]models.Shop, len(b.snapshot))
	for i, s := range b.snapshot {
		out[i] = s.Clone()
	}
	return out
}

// Probe checks API health and, when it answers, refreshes the snapshot with
// the full shop list.
func (b *Browser) Probe(ctx context.Context) bool {
	if _, err := b.api.Health(ctx); err != nil {
		b.logger.Debug().Err(err).Msg("API not available, using snapshot")
		b.setOnline(false)
		return false
	}

	shops, err := b.api.ListShops(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Failed to refresh shop snapshot")
		b.setOnline(false)
		return false
	}

	b.SetSnapshot(shops)
	b.setOnline(true)
	return true
}

func (b *Browser) Nearby(ctx context.Context, center models.Position) ([]models.Shop, Source, error) {
	if err := center.Check(); err != nil {
		return nil, "", err
	}

	if b.Online() {
		shops, err := b.api.NearbyShops(ctx, center, BrowseRadiusKm)
		if err == nil {
			return shops, SourceAPI, nil
		}
		if !b.fallBack(err) {
			return nil, "", err
		}
	}

	q := models.NearbyQuery{Center: center, RadiusKm: BrowseRadiusKm}
	return geo.FilterNearby(b.Snapshot(), q), SourceSnapshot, nil
}

func (b *Browser) Search(ctx context.Context, raw string) ([]models.Shop, Source, error) {
	term, err := models.ParseSearchQuery(raw)
	if err != nil {
		return nil, "", err
	}

	if b.Online() {
		shops, err := b.api.SearchShops(ctx, term)
		if err == nil {
			return shops, SourceAPI, nil
		}
		if !b.fallBack(err) {
			return nil, "", err
		}
	}

	out := make([]models.Shop, 0)
	for _, s := range b.Snapshot() {
		if s.Matches(term) {
			out = append(out, s)
		}
	}
	geo.SortNewestFirst(out)
	return out, SourceSnapshot, nil
}

// fallBack marks the browser offline for transport failures and server
// errors. Client errors are the caller's to handle.
func (b *Browser) fallBack(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		return false
	}
	b.logger.Warn().Err(err).Msg("API request failed, falling back to snapshot")
	b.setOnline(false)
	return true
}
