// Package server provides the speechkit HTTP server: a Gin engine served over
// HTTP/1.1 and h2c, lifecycle-managed as a component.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery answering with an INTERNAL_ERROR body
//   - RequestLogger: access logging with status-based levels
//   - CORS: cross-origin resource sharing
//   - RequestID: request id generation and context propagation
//   - RateLimit: per-client sliding window
//   - BodySizeLimit: upload size cap
//
// # Endpoints
//
// Built-in endpoints (server/endpoint): /health, /ready, /info and /version.
package server
