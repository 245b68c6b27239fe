// Package api defines the JSON payloads of the daemon's HTTP interface and
// a client for them. The daemon's handlers and the CLI both depend on these
// types so the wire contract lives in one place.
package api
