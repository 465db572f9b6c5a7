// Package advisor contains implementations of the core.Advisor contract:
// the narrow interface over the external knowledge/chat backend the engine
// may consult but never requires. Provider adapters live in sub-packages
// (anthropic, openai); this package holds the mock used in tests.
//
// Advisor output is advice. Routing and conflict resolution apply their own
// deterministic algorithms and only let advice break exact ties.
package advisor
