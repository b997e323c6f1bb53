// Package store provides persistence for routes, recipient relations and
// inbound messages.
//
// The canonical backend is the S3 bucket lampions.<domain>, holding
// routes.json, recipients.json and raw messages under inbox/. A memory
// implementation backs tests, and an optional redis read-through cache
// keeps the relay from fetching the route documents on every message.
package store
