// Package api wraps pkg/storage and pkg/retrieval in a minimal
// HTTP/JSON surface: GET /profiles/{fid}, GET /stats, GET
// /search/{casts,profiles}, POST /rag, GET /healthz. Every handler is
// a thin adapter — no business logic lives here, only request
// parsing and response shaping — so core behavior stays testable
// without an HTTP server in the loop.
package api
