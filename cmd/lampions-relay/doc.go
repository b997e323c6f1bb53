// Package main runs the Lampions relay, the HTTP daemon that turns SES
// receipt events into forwarded or reply mail.
//
// HTTP API
//
//	POST /events
//	    Accept an SES receipt event, either as the raw event JSON or
//	    wrapped in an SNS notification envelope. Every referenced message
//	    is fetched from the inbox and run through the rewrite pipeline.
//	    SNS subscription confirmations are logged and acknowledged.
//
//	GET /healthz
//	    Liveness probe. Returns {"status":"ok"}.
//
//	GET /metrics
//	    Prometheus metrics (processed messages by outcome, event requests).
//
// Behaviour
//
//   - Configuration comes from the Lampions config file plus flags; the
//     LAMPIONS_PASSPHRASE environment variable unseals stored credentials.
//   - With -message-id the relay processes that single inbox message and
//     exits instead of serving HTTP. Useful for replaying stuck mail.
//   - An optional Redis cache (-redis) fronts the route and recipient
//     documents in S3.
//   - The default listen address is :8080. SIGINT and SIGTERM trigger a
//     graceful shutdown.
package main
