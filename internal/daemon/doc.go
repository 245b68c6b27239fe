// Package daemon coordinates the long-running vodforge process.
//
// It wires configuration, the catalog store, the task tracker, and the
// transcode pipeline into a single lifecycle with flock-based locking to
// prevent multiple instances. The daemon owns the HTTP API, accepts
// submissions, runs each job asynchronously, and sweeps stale staging
// directories in the background.
//
// Keep composition logic here: pipeline steps live in their respective
// packages while the daemon focuses on startup, shutdown, and dispatch.
package daemon
