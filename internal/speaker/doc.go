// Package speaker owns speaker identity data and its resolution.
//
// Two registry files live under <assets>/registries: speakers.json maps
// canonical identities to voice parameters, and speaker_name_map.json carries
// an ordered list of regex patterns plus the fallback identity. The Registry
// type is a read-only snapshot of both, loaded once per run; the Resolver maps
// raw references (dialogue speaker ids, names extracted from quotes) to
// canonical identities with a deterministic direct → pattern → fallback order
// and aggregates unresolved references.
//
// Registry mutation happens only through the maintenance operations in
// maintain.go, which serialize writers with a file lock.
package speaker
