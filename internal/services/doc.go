// Package services defines the [Service] interface for the upstream music API and implements it with [MusicService].
//
// # Transport
//
// [APIService] issues raw GET requests against the configured base URL. Each request
// carries a per-request deadline ([APIService.WithTimeout]) so a single stalled call
// cannot block a sequential enrichment run indefinitely.
//
// # Endpoints
//
//   - GET {base}/playlist/track/all?id={playlistId} : {code, songs}
//   - GET {base}/song/wiki/summary?id={trackId} : {code, data: {blocks}}
//
// A body-level code other than 200 is a failure even when the HTTP status is 200.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status, bad body or non-200 code
//   - [shared.ErrTimeout] : the per-request deadline elapsed
//   - [shared.ErrMissingArgument] : empty playlist ID
//
// # Input
//
// [ParsePlaylistInput] accepts either a raw playlist ID or a share link and returns the ID.
package services
