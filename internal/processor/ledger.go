package processor

import (
	"sort"

	"github.com/toyz/splinter/internal/models"
)

// Ledger remembers which source symbols every generated artifact came from. Entries
// are only ever added; an artifact recorded once keeps its first origins.
type Ledger struct {
	entries map[string][]models.Origin
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]models.Origin)}
}

// Record adds an artifact and reports false when it was already known
func (l *Ledger) Record(artifact string, origins []models.Origin) bool {
	if _, ok := l.entries[artifact]; ok {
		return false
	}
	l.entries[artifact] = append([]models.Origin(nil), origins...)
	return true
}

// Has reports whether the artifact was generated in an earlier round
func (l *Ledger) Has(artifact string) bool {
	_, ok := l.entries[artifact]
	return ok
}

// Origins returns the symbols an artifact was generated from
func (l *Ledger) Origins(artifact string) ([]models.Origin, bool) {
	origins, ok := l.entries[artifact]
	if !ok {
		return nil, false
	}
	return append([]models.Origin(nil), origins...), true
}

// Artifacts returns every recorded artifact, sorted
func (l *Ledger) Artifacts() []string {
	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of recorded artifacts
func (l *Ledger) Len() int {
	return len(l.entries)
}
