// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// WebsocketWrite caps a single websocket frame write to a browser.
const WebsocketWrite = 10 * time.Second

// WebsocketPong is how long a browser may stay silent before its socket is
// considered dead. Pings go out at 9/10 of this.
const WebsocketPong = 60 * time.Second

// FeedRetry is the pause before resubscribing after a feed read error.
const FeedRetry = time.Second
