// Package pipeline sequences one transcode job end to end: probe, dedup
// gate, ladder planning, per-rung encode or copy, uploads, subtitle
// extraction, and catalog insertion. Runs are sequential within a job;
// separate jobs are independent.
package pipeline
