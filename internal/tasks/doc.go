// Package tasks drives playlist fetches, per-track enrichment and bulk exports with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines four operations:
//
//  1. [Engine.Fetch] : resolve a playlist ID or share link and load its tracks
//
//  2. [Engine.Stream] : enrichment as an iterator of [Step] values
//     - one metadata fetch per track, strictly sequential, in list order
//     - a [TrackStarted] step before each fetch carries the progress counter
//     - failures are reported per track and never stop the run
//     - a final [Finished] step carries the zero progress
//
//  3. [Engine.Enrich] : consume the stream, collect records, skips and failures into an [EnrichResult]
//     - an onStep callback sees every step first and may stop the run
//     - the CLI and HTTP API reach it through state.App.Analyze
//
//  4. [Engine.BulkExport] : fetch several playlists (rate limited) and write each track list
//     through a small worker pool, followed by a JSON manifest
//
// # Progress Reporting
//
// Enrich and BulkExport accept a channel of [ProgressUpdate]. Sends use select with default,
// so a slow or absent reader never stalls a run.
//
// # Cancellation
//
// Canceling the context stops enrichment before the next track. Records collected so far are
// returned alongside the context error. A run stopped by onStep returns its partial result with
// Stopped set.
package tasks
