// Package server exposes the dashboard and RUT checks over HTTP.
//
// It renders the role table as a page or HTMX fragment, accepts stat pushes,
// streams applied updates over websockets, and optionally relays pushes
// through the Redis feed so every instance sees them.
package server
