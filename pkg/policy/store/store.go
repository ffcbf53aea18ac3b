package store

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"janus-hq/janus/pkg/policy"
)

// LoadReport summarizes one load operation: how many policies were
// added and which entries or sources were skipped, with reasons.
type LoadReport struct {
	Loaded  int       `json:"loaded"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Store holds the currently-active policy set. Loads and reloads are
// the sole mutators and replace the internal collection wholesale
// (copy-on-write), so any number of readers may call Get/List/Size
// concurrently with a reload and observe either the fully-old or
// fully-new set, never a mix.
type Store struct {
	mu       sync.RWMutex
	policies map[string]*policy.Policy
	version  string
	loadTime time.Time

	loader *Loader
	logger *slog.Logger
}

// New creates an empty store using the given loader configuration.
func New(config *LoaderConfig, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		policies: make(map[string]*policy.Policy),
		loadTime: time.Now(),
		loader:   NewLoader(config),
		logger:   logger.With("component", "policy.store"),
	}
	s.version = hashVersion(s.policies)
	return s
}

// LoadFile loads one policy source into the active set. Entries with
// validation problems are skipped and reported; a duplicate id replaces
// the previously loaded policy.
func (s *Store) LoadFile(path string) (LoadReport, error) {
	policies, skipped, err := s.loader.LoadFile(path)
	if err != nil {
		return LoadReport{}, err
	}

	s.mu.Lock()
	next := make(map[string]*policy.Policy, len(s.policies)+len(policies))
	for id, p := range s.policies {
		next[id] = p
	}
	for _, p := range policies {
		next[p.ID] = p
	}
	s.policies = next
	s.loadTime = time.Now()
	s.version = hashVersion(next)
	s.mu.Unlock()

	report := LoadReport{Loaded: len(policies), Skipped: skipped}
	s.logger.Info("policy file loaded",
		"path", path,
		"loaded", report.Loaded,
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// LoadDirectory loads every enabled policy source under root into the
// active set. An unreadable source is reported as skipped and does not
// abort loading of the others.
func (s *Store) LoadDirectory(root string) (LoadReport, error) {
	set, report, err := s.loadSet(root)
	if err != nil {
		return LoadReport{}, err
	}

	s.mu.Lock()
	next := make(map[string]*policy.Policy, len(s.policies)+len(set))
	for id, p := range s.policies {
		next[id] = p
	}
	for id, p := range set {
		next[id] = p
	}
	s.policies = next
	s.loadTime = time.Now()
	s.version = hashVersion(next)
	s.mu.Unlock()

	s.logger.Info("policy directory loaded",
		"root", root,
		"loaded", report.Loaded,
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// ReloadDirectory builds a fresh policy set from root and atomically
// replaces the active set with it. Readers concurrent with the reload
// see either the entire old set or the entire new one.
func (s *Store) ReloadDirectory(root string) (LoadReport, error) {
	set, report, err := s.loadSet(root)
	if err != nil {
		return LoadReport{}, err
	}

	s.mu.Lock()
	s.policies = set
	s.loadTime = time.Now()
	s.version = hashVersion(set)
	s.mu.Unlock()

	s.logger.Info("policy set reloaded",
		"root", root,
		"loaded", report.Loaded,
		"skipped", len(report.Skipped),
	)
	return report, nil
}

// loadSet loads all sources under root into a fresh map without
// touching the active set. Sources are visited in lexical walk order so
// duplicate-id resolution (last wins) is deterministic.
func (s *Store) loadSet(root string) (map[string]*policy.Policy, LoadReport, error) {
	files, err := s.loader.CollectFiles(root)
	if err != nil {
		return nil, LoadReport{}, err
	}

	set := make(map[string]*policy.Policy)
	var report LoadReport

	for _, path := range files {
		policies, skipped, err := s.loader.LoadFile(path)
		if err != nil {
			// Fail-open at the source level: record and continue.
			s.logger.Warn("skipping unreadable policy source", "path", path, "error", err)
			report.Skipped = append(report.Skipped, Skipped{Source: path, Reason: err.Error()})
			continue
		}
		report.Skipped = append(report.Skipped, skipped...)
		for _, p := range policies {
			if prev, ok := set[p.ID]; ok {
				s.logger.Debug("duplicate policy id, last loaded wins",
					"id", p.ID,
					"replaced_source", prev.SourceFile,
					"source", p.SourceFile,
				)
			}
			set[p.ID] = p
			report.Loaded++
		}
	}

	return set, report, nil
}

// Get returns the policy with the given id.
func (s *Store) Get(id string) (*policy.Policy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[id]
	return p, ok
}

// List returns the active policy set sorted by id. The order is
// deterministic across calls for an unchanged store so that evaluation
// traces are reproducible; decision correctness never depends on it.
// The returned slice is a snapshot owned by the caller.
func (s *Store) List() []*policy.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.policies))
	for id := range s.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	policies := make([]*policy.Policy, 0, len(ids))
	for _, id := range ids {
		policies = append(policies, s.policies[id])
	}
	return policies
}

// Size returns the number of policies in the active set.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.policies)
}

// Version returns a hash identifying the active set. It changes
// whenever the set changes.
func (s *Store) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

// LoadTime returns when the active set was last modified.
func (s *Store) LoadTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadTime
}

// Replace atomically replaces the active set with the given policies.
// Used by tests and by callers that assemble policy sets in memory.
func (s *Store) Replace(policies []*policy.Policy) {
	set := make(map[string]*policy.Policy, len(policies))
	for _, p := range policies {
		set[p.ID] = p
	}

	s.mu.Lock()
	s.policies = set
	s.loadTime = time.Now()
	s.version = hashVersion(set)
	s.mu.Unlock()
}

// hashVersion computes a deterministic digest of the set's ids and
// source files.
func hashVersion(set map[string]*policy.Policy) string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		p := set[id]
		h.Write([]byte(p.ID))
		h.Write([]byte{0})
		h.Write([]byte(p.SourceFile))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
