// Package project provides durable storage for editing projects.
//
// Projects are stored in SQLite with WAL mode for concurrent read access.
// A save replaces the project's rows wholesale inside one transaction; the
// timeline model is small enough that row-level diffing buys nothing. The
// preview is derived state and is never persisted.
package project
