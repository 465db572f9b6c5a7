// Package knowledge moves knowledge entries in and out of a repository in a
// portable JSON snapshot format. The exporter paginates through an external
// knowledge source; the importer replays a snapshot into the learning
// backend with permanent retention, counting malformed entries instead of
// aborting.
package knowledge
