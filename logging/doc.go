// Package logging provides a minimal logging interface and adapters for the
// federation engine.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that components use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json")
//	ledger := federation.NewLedger(store, func(o *federation.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal so callers can plug
// any structured logger without vendor lock-in.
package logging
