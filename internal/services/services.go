// package services defines interface Service for the upstream music API
//
// Playlist track listing and per-song wiki summaries
package services

import (
	"context"

	"github.com/desertthunder/sfx/internal/facets"
	"github.com/desertthunder/sfx/internal/models"
)

// Service defines the upstream calls the enrichment workflow depends on.
type Service interface {
	// GetPlaylist retrieves every track of a playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// GetSongSummary retrieves the wiki summary used for facet extraction.
	GetSongSummary(ctx context.Context, trackID int64) (*facets.WikiSummary, error)

	// Name returns the name of the service
	Name() string
}

// Getter issues raw GET requests. [APIService] implements it.
type Getter interface {
	Get(ctx context.Context, path string) (*APIResponse, error)
}
