package core

import "fmt"

// RepoID identifies one of the knowledge repositories participating in
// federation. The two well-known nodes are RepoOmniLore and RepoOxproxion;
// additional nodes can be introduced without code changes since RepoID is an
// open string type.
type RepoID string

const (
	// RepoOmniLore is the upstream tribal-knowledge repository.
	RepoOmniLore RepoID = "omnilore"
	// RepoOxproxion is the local repository node.
	RepoOxproxion RepoID = "oxproxion"
)

// Direction describes the flow of a knowledge sync between two repositories.
// Classification (e.g. in sync statistics) compares the From/To fields
// directly; the rendered string form is for logs and display only.
type Direction struct {
	From RepoID `json:"from"`
	To   RepoID `json:"to"`
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction { return Direction{From: d.To, To: d.From} }

// String renders the direction for logs and CLI output.
func (d Direction) String() string { return fmt.Sprintf("%s -> %s", d.From, d.To) }
