// Package compat offers a resource type that stays stable across OpenTelemetry
// SDK releases.
//
// A Resource wraps an SDK *resource.Resource and exposes its attributes as a
// plain mapping. Resources are immutable: Merge always returns a new value and
// leaves both operands untouched. Constructors are pluggable through Factory,
// so callers pinned to a different SDK line can supply their own.
package compat
