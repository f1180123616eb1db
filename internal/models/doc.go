// Package models defines the value types shared by every layer of sfx.
//
// Catalog types come from the upstream playlist API:
//   - [Track] : one playlist entry with its [Artist] credits and album art
//   - [Playlist] : a playlist ID with its ordered tracks
//
// Facet types are derived by enrichment and filtering:
//   - [FacetRecord] : styles, tags, language and BPM extracted for one track
//   - [FilterOptions] : the user's current selections per facet category
//   - [AvailableFilters] : distinct values computed from all current records
//   - [Progress] : enrichment counter shown while a run is active
//
// [BulkExportResult] and [PlaylistExportResult] describe multi-playlist export runs.
//
// Types here carry no behavior beyond small accessors and deep copies;
// extraction and matching live in the facets package.
package models
