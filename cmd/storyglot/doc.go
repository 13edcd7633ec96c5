// Package main hosts the storyglot CLI entrypoint and command graph.
//
// The Cobra-based command tree covers story ingest, line generation,
// speaker registry maintenance, the asset cache, artifact validation,
// and the jobs index. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands
// or flags here.
package main
