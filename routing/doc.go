// Package routing assigns incoming problems to solving agents. The router
// owns an in-memory pool of agent descriptors (seeded from configuration at
// startup) and a persisted history of routing decisions.
//
// Selection is deterministic: lowest current load among available agents,
// ties broken by registration order. An optional advisor can be consulted
// for guidance, but its free-text output only ever breaks exact load ties
// between known agents; it is never the sole decision mechanism. Routing
// failure is a hard error (core.ErrNoAgentAvailable), never a silent
// fallback to a default agent.
package routing
