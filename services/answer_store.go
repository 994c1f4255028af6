package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"golang.org/x/text/cases"

	"github.com/Seebrasse345/linkedin-auto-apply/utils"
)

// AnswerStore is the durable label-to-answer mapping. Lookups match on the
// normalized (case-folded, whitespace-collapsed) label only; there is no
// fuzzy or partial matching, so semantically different questions can never
// contaminate each other. Every Set rewrites the backing file.
type AnswerStore struct {
	path string
	flk  *flock.Flock

	mu      sync.Mutex
	entries map[string]answerEntry // keyed by normalized label
}

type answerEntry struct {
	Label string // first-seen display label, used in the persisted file
	Value string
}

func NewAnswerStore(path string) (*AnswerStore, error) {
	s := &AnswerStore{
		path:    path,
		flk:     flock.New(path + ".lock"),
		entries: make(map[string]answerEntry),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the stored answer for the label, matching the normalized
// label exactly.
func (s *AnswerStore) Get(label string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[normalizeLabel(label)]
	if !ok {
		return "", false
	}
	return e.Value, true
}

// Set overwrites the answer for the label and immediately persists the
// whole store.
func (s *AnswerStore) Set(label, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeLabel(label)
	display := label
	if prev, ok := s.entries[key]; ok {
		display = prev.Label
	}
	s.entries[key] = answerEntry{Label: display, Value: value}
	return s.persist()
}

// Snapshot returns a copy of the stored answers keyed by display label.
func (s *AnswerStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.entries))
	for _, e := range s.entries {
		out[e.Label] = e.Value
	}
	return out
}

// Len reports the number of stored answers.
func (s *AnswerStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *AnswerStore) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read answers file %s: %w", s.path, err)
	}

	raw := make(map[string]string)
	if err := json.Unmarshal(data, &raw); err != nil {
		utils.Log.Warnf("Answers file %s is corrupt, starting empty: %v", s.path, err)
		return nil
	}
	for label, value := range raw {
		s.entries[normalizeLabel(label)] = answerEntry{Label: label, Value: value}
	}
	utils.Log.Infof("Loaded %d stored answers from %s", len(s.entries), s.path)
	return nil
}

// persist rewrites the answers file under the file lock. Callers hold s.mu.
func (s *AnswerStore) persist() error {
	raw := make(map[string]string, len(s.entries))
	for _, e := range s.entries {
		raw[e.Label] = e.Value
	}

	// Map keys marshal sorted, which keeps diffs small between runs.
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create answers dir: %w", err)
		}
	}

	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("lock answers file: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write answers file %s: %w", s.path, err)
	}
	return nil
}

// normalizeLabel case-folds a question label and collapses its whitespace
// so lookups are insensitive to casing and layout but nothing else.
func normalizeLabel(label string) string {
	collapsed := strings.Join(strings.Fields(label), " ")
	return cases.Fold().String(collapsed)
}
