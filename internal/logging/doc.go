// Package logging provides file-based structured logging with rotation
// for holofs. When --debug is set, comprehensive logs are written to
// ~/.holofs/logs/ for ingest/extract troubleshooting.
//
// By default (without --debug), logging is minimal and goes to stderr
// only.
package logging
