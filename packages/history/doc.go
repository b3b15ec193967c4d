// Package history persists check run summaries in a local SQLite database
// so past runs can be listed and compared. Recording is optional and only
// happens when a history database path is configured.
package history
