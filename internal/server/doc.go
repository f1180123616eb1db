// Package server exposes the playlist analysis workflow as a small JSON API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers method patterns on [http.ServeMux].
//
// # Middleware
//
//   - [RequestID] : assigns or propagates X-Request-ID
//   - [Recover] : converts panics into 500 responses
//   - [Logging] : one structured log line per request
//
// # Routes
//
//	POST   /api/playlist           {"input": id-or-link} → tracks; clears records
//	POST   /api/analyze            server-sent events: progress, record, done
//	GET    /api/filters/available  derived filter choices and the BPM display range
//	GET    /api/filters            current selections
//	PUT    /api/filters            replace selections
//	DELETE /api/filters            reset selections
//	GET    /api/records            filtered records (?all=true for every record)
//	GET    /api/export?format=     csv, markdown, json, yaml, table or text
//	POST   /api/devices/normalize  one payload or an array of payloads
//	GET    /health
//
// All routes share one [state.App], so the HTTP surface behaves like a single user session.
package server
