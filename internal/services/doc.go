// Package services defines the shared error taxonomy used across the
// transcoding pipeline. Stages wrap failures with sentinel markers so the
// orchestrator and API layer can classify them without parsing messages.
package services
