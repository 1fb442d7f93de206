// Package api serves the signed blocklist over HTTP.
//
// Routes:
//
//	GET /health              liveness probe, plain "OK"
//	GET /blocklist.txt       the blocklist bytes exactly as signed
//	GET /blocklist.txt.sig   the detached signature
//	GET /api/v1/status       entry count, generation date, signature state
//	GET /metrics             Prometheus metrics
//
// The two files are read from disk on every request, so a freshly signed
// pair is served without a restart. Both carry a strong ETag (the SHA-256 of
// the content) and honor conditional and range requests. Status and metrics
// are only answered for loopback and private-network clients.
//
// # Response Format
//
// JSON responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "not_found",
//	    "message": "Human-readable error message"
//	  }
//	}
package api
