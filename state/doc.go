// Package state houses concrete implementations of the core.StateStore.
// The interface itself lives in the core package to centralize domain
// contracts. Keeping only implementations here prevents higher level
// packages (federation, routing, orchestrator) from depending on concrete
// storage.
//
// Add additional backends (SQLite, Redis, etc.) in sub-packages without
// changing any calling code – only the wiring layer needs to decide which
// implementation to instantiate.
package state
