// Package core centralizes the domain contracts of the federation and
// routing engine: repository identifiers, knowledge entries, the persisted
// record types (sync events, routing records, solution records), the
// Advisor and StateStore interfaces, and the shared error taxonomy.
//
// Concrete implementations live in sibling packages (federation, routing,
// orchestrator, state, advisor); depending only on core keeps those packages
// free of cycles and lets callers swap implementations at wiring time.
package core
