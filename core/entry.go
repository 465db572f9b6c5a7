package core

import "context"

// KnowledgeEntry is a single learned record owned by one of the federated
// repositories. The engine consumes entries but never owns them: the only
// fields it reads are Confidence and CreatedAt (conflict resolution) and ID
// (sync bookkeeping). Query/Response/Category ride along for the portable
// snapshot format and the learning sink.
type KnowledgeEntry struct {
	ID         string  `json:"id"`
	SourceRepo RepoID  `json:"source_repo"`
	Query      string  `json:"query,omitempty"`
	Response   string  `json:"response,omitempty"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	// CreatedAt is an ISO-8601 timestamp string as produced by the owning
	// repository. It is compared lexicographically, which is equivalent to
	// temporal order for this format.
	CreatedAt string `json:"created_at"`
}

// KnowledgeSource is the narrow read interface over an external knowledge
// store (vector database or otherwise). List returns at most limit entries
// starting at offset; an empty slice signals the end of the collection.
//
// The engine never implements this interface itself; it is satisfied by the
// external store the caller wires in.
type KnowledgeSource interface {
	List(ctx context.Context, limit, offset int) ([]KnowledgeEntry, error)
}
