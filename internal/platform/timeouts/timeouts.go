// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// APIRequest caps a single attempt of an outgoing API client request.
const APIRequest = 30 * time.Second

// UpstreamProbe caps dashboard calls that check upstream API health.
const UpstreamProbe = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// MonitoringFlush limits how long buffered monitoring events are flushed
// before a process exits.
const MonitoringFlush = 2 * time.Second
