package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/sfx/internal/facets"
	"github.com/desertthunder/sfx/internal/models"
	"github.com/desertthunder/sfx/internal/shared"
)

// Body-level status codes reported by the upstream API.
const (
	successCode  = 200
	notFoundCode = 404
)

type artistWire struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type albumWire struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	PicURL string `json:"picUrl"`
}

type songWire struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Artists    []artistWire `json:"ar"`
	Album      albumWire    `json:"al"`
	DurationMS int          `json:"dt"`
}

// playlistWire is the response of GET /playlist/track/all?id={playlistId}.
type playlistWire struct {
	Code  int        `json:"code"`
	Songs []songWire `json:"songs"`
}

// DecodePlaylist decodes a raw playlist response body and maps songs to [models.Track].
//
// It reports the body-level code alongside the tracks; callers decide what a non-200 code means.
func DecodePlaylist(data []byte) (int, []models.Track, error) {
	var wire playlistWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return 0, nil, fmt.Errorf("failed to decode playlist: %w", err)
	}

	tracks := make([]models.Track, 0, len(wire.Songs))
	for _, s := range wire.Songs {
		artists := make([]models.Artist, 0, len(s.Artists))
		for _, a := range s.Artists {
			artists = append(artists, models.Artist{ID: a.ID, Name: a.Name})
		}
		tracks = append(tracks, models.Track{
			ID:          s.ID,
			Name:        s.Name,
			Artists:     artists,
			Album:       s.Album.Name,
			AlbumArtURL: s.Album.PicURL,
			DurationMS:  s.DurationMS,
		})
	}
	return wire.Code, tracks, nil
}

// MusicService implements [Service] on top of a raw [Getter].
type MusicService struct {
	api Getter
}

// NewMusicService creates a MusicService using api for transport.
func NewMusicService(api Getter) *MusicService {
	return &MusicService{api: api}
}

func (s *MusicService) Name() string { return "NetEase Cloud Music" }

// PlaylistPath returns the request path for a playlist's full track list.
func PlaylistPath(playlistID string) string {
	return "/playlist/track/all?id=" + url.QueryEscape(playlistID)
}

// SongSummaryPath returns the request path for a song's wiki summary.
func SongSummaryPath(trackID int64) string {
	return "/song/wiki/summary?id=" + strconv.FormatInt(trackID, 10)
}

// GetPlaylist fetches the playlist's tracks. Any transport error, non-2xx status or
// body code other than 200 is reported as [shared.ErrAPIRequest]; a 404 status or code
// additionally matches [shared.ErrPlaylistNotFound].
func (s *MusicService) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist ID is required", shared.ErrMissingArgument)
	}

	resp, err := s.api.Get(ctx, PlaylistPath(playlistID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w: %s", shared.ErrAPIRequest, shared.ErrPlaylistNotFound, playlistID)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: playlist %s: status %d", shared.ErrAPIRequest, playlistID, resp.StatusCode)
	}

	code, tracks, err := DecodePlaylist(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if code == notFoundCode {
		return nil, fmt.Errorf("%w: %w: %s", shared.ErrAPIRequest, shared.ErrPlaylistNotFound, playlistID)
	}
	if code != successCode {
		return nil, fmt.Errorf("%w: playlist %s: code %d", shared.ErrAPIRequest, playlistID, code)
	}

	return &models.Playlist{ID: playlistID, Tracks: tracks}, nil
}

// GetSongSummary fetches and decodes a song's wiki summary.
func (s *MusicService) GetSongSummary(ctx context.Context, trackID int64) (*facets.WikiSummary, error) {
	resp, err := s.api.Get(ctx, SongSummaryPath(trackID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: song %d: status %d", shared.ErrAPIRequest, trackID, resp.StatusCode)
	}

	summary, err := facets.DecodeWikiSummary(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	if summary.Code != successCode {
		return nil, fmt.Errorf("%w: song %d: code %d", shared.ErrAPIRequest, trackID, summary.Code)
	}

	return summary, nil
}
