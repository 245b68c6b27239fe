// Package catalog persists transcoded video metadata in SQLite, keyed by
// content hash. The unique hash constraint is the backstop that keeps two
// concurrent submissions of identical content from both completing.
package catalog
