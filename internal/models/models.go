// package models defines the data model for playlists and track facets
package models

import "strings"

// Artist is a credited performer on a [Track].
type Artist struct {
	ID   int64  `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Track represents a playlist entry. Immutable once fetched.
type Track struct {
	ID          int64    `json:"id"            yaml:"id"`
	Name        string   `json:"name"          yaml:"name"`
	Artists     []Artist `json:"artists"       yaml:"artists"`
	Album       string   `json:"album"         yaml:"album"`
	AlbumArtURL string   `json:"album_art_url" yaml:"album_art_url"`
	DurationMS  int      `json:"duration_ms"   yaml:"duration_ms"`
}

// ArtistNames joins the artist names with " / ".
func (t Track) ArtistNames() string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, " / ")
}

// Playlist is a fetched playlist snapshot.
type Playlist struct {
	ID     string  `json:"id"     yaml:"id"`
	Tracks []Track `json:"tracks" yaml:"tracks"`
}

// FacetRecord holds the facets extracted for a single track.
//
// Styles and Tags are sets that preserve insertion order. Language is empty when unknown.
// BPM is nil when the metadata had no parsable tempo.
type FacetRecord struct {
	TrackID   int64    `json:"track_id"      yaml:"track_id"`
	TrackName string   `json:"track_name"    yaml:"track_name"`
	Styles    []string `json:"styles"        yaml:"styles"`
	Tags      []string `json:"tags"          yaml:"tags"`
	Language  string   `json:"language"      yaml:"language"`
	BPM       *int     `json:"bpm,omitempty" yaml:"bpm,omitempty"`
}

// HasBPM reports whether the record carries a tempo.
func (r FacetRecord) HasBPM() bool { return r.BPM != nil }

// Clone returns a deep copy of r.
func (r FacetRecord) Clone() FacetRecord {
	c := r
	c.Styles = append([]string(nil), r.Styles...)
	c.Tags = append([]string(nil), r.Tags...)
	if r.BPM != nil {
		bpm := *r.BPM
		c.BPM = &bpm
	}
	return c
}

// BPMRange is an inclusive tempo interval.
type BPMRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether bpm falls within the range, bounds included.
func (b BPMRange) Contains(bpm int) bool {
	return bpm >= b.Min && bpm <= b.Max
}

// FilterOptions are the active selections. An empty category means no constraint.
type FilterOptions struct {
	Styles    []string  `json:"styles"              yaml:"styles"`
	Tags      []string  `json:"tags"                yaml:"tags"`
	Languages []string  `json:"languages"           yaml:"languages"`
	BPMRange  *BPMRange `json:"bpm_range,omitempty" yaml:"bpm_range,omitempty"`
}

// IsZero reports whether no category is constrained.
func (f FilterOptions) IsZero() bool {
	return len(f.Styles) == 0 && len(f.Tags) == 0 && len(f.Languages) == 0 && f.BPMRange == nil
}

// Clone returns a deep copy of f.
func (f FilterOptions) Clone() FilterOptions {
	c := FilterOptions{
		Styles:    append([]string(nil), f.Styles...),
		Tags:      append([]string(nil), f.Tags...),
		Languages: append([]string(nil), f.Languages...),
	}
	if f.BPMRange != nil {
		r := *f.BPMRange
		c.BPMRange = &r
	}
	return c
}

// AvailableFilters lists the values present across the current records.
//
// It is always derived, never stored.
type AvailableFilters struct {
	Styles    []string  `json:"styles"              yaml:"styles"`
	Tags      []string  `json:"tags"                yaml:"tags"`
	Languages []string  `json:"languages"           yaml:"languages"`
	BPMRange  *BPMRange `json:"bpm_range,omitempty" yaml:"bpm_range,omitempty"`
}

// Progress reports the enrichment counter. The zero value means idle.
type Progress struct {
	Current      int    `json:"current"`
	Total        int    `json:"total"`
	CurrentLabel string `json:"current_label"`
}

// IsZero reports whether p is the idle state.
func (p Progress) IsZero() bool {
	return p == Progress{}
}

// Percent returns completion in the range [0, 100].
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Current) / float64(p.Total) * 100
}

// PlaylistExportResult records the outcome of exporting one playlist in a bulk run.
type PlaylistExportResult struct {
	PlaylistID string   `json:"playlist_id"`
	TrackCount int      `json:"track_count"`
	Success    bool     `json:"success"`
	Files      []string `json:"files,omitempty"`
	Error      error    `json:"-"`
}

// ErrorMessage returns the failure text, or "" on success.
func (r PlaylistExportResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return r.Error.Error()
}

// BulkExportResult summarizes a bulk export across several playlists.
type BulkExportResult struct {
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"manifest_path,omitempty"`
	Results           []PlaylistExportResult `json:"results"`
}
