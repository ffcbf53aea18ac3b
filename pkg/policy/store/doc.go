// Package store owns the authoritative, currently-active policy set.
//
// Policies are declared in YAML sources (one or more entries per file)
// discovered recursively under a policy root. The loader applies the
// schema's canonical defaults and rejects entries missing required
// fields; a bad entry skips that entry, a bad file skips that file, and
// loading always continues (fail-open at the source level, fail-closed
// at the policy semantics level). Every load reports the count of
// policies added plus a (source, reason) pair per skipped entry.
//
// The store hands out read-only snapshots: List returns the policies
// sorted by id so evaluation traces are reproducible, and reloads swap
// the entire internal collection atomically under a single-writer/
// many-reader discipline, so concurrent readers never observe a
// half-updated set.
//
// The FileWatcher provides debounced hot reload on top of fsnotify for
// deployments that edit policy files in place.
package store
