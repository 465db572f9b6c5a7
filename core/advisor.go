package core

import "context"

// Learning is a record written to the external learning sink. TTLDays is a
// retention hint; TTLPermanent signals "never expire" to the backing store.
type Learning struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	Category string `json:"category"`
	TTLDays  int    `json:"ttl_days"`
}

// TTLPermanent is roughly one hundred years, the conventional "never expire"
// retention hint for learnings.
const TTLPermanent = 36500

// LearningSink receives learning records off the primary call path. Notify
// never blocks and never fails; sinks are free to drop records under
// pressure. The learning package provides the bounded-queue implementation.
type LearningSink interface {
	Notify(learning Learning)
}

// Advisor is the narrow interface over the external knowledge/chat backend.
// All three calls are advisory: Query and Chat provide guidance the engine
// may consult but never requires for correctness, and Store is a best-effort
// learning sink whose failures must not propagate as engine failures.
//
// Implementations wrap real chat backends (see advisor/anthropic and
// advisor/openai); tests use the mock in the advisor package.
type Advisor interface {
	// Query asks the knowledge backend for free-text guidance.
	Query(ctx context.Context, text string) (string, error)

	// Chat sends a message to the chat backend and returns its reply.
	Chat(ctx context.Context, message string) (string, error)

	// Store writes a learning record to the backend.
	Store(ctx context.Context, learning Learning) error
}
