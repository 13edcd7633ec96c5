// Package services defines shared error utilities consumed by every pipeline
// tool in the repository.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures with the
//     tool and operation that produced them.
//   - Exit-code classification so the CLI surfaces enforced failures, stubbed
//     operations, and success uniformly.
//
// Use these helpers when wiring new tool logic so error handling stays uniform
// across the pipeline.
package services
