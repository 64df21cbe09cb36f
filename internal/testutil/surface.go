package testutil

import (
	"fmt"
	"slices"
	"sync"
)

// CountSource answers the row-count queries a list surface makes of its
// data source.
type CountSource interface {
	NumberOfSections() int
	NumberOfItems(section int) int
}

// RecordingSurface is an in-memory list surface. It records every call in
// order and, like a real table view, keeps its own idea of the row counts:
// each insert or delete adjusts that model, and at the end of every batch
// the model is checked against the data source. A disagreement is what a
// real toolkit would crash on; here it is recorded as a mismatch.
type RecordingSurface struct {
	mu sync.Mutex

	// Source is consulted for counts on ReloadData, InsertSection and at
	// the end of each batch. May be set after construction.
	Source CountSource

	calls      []string
	counts     []int
	depth      int
	batches    int
	reloads    int
	mismatches []string
}

// NewRecordingSurface creates a surface reading counts from source.
func NewRecordingSurface(source CountSource) *RecordingSurface {
	return &RecordingSurface{Source: source}
}

// PerformBatchUpdates runs updates as one batch and then verifies counts.
func (s *RecordingSurface) PerformBatchUpdates(updates func()) {
	s.record("PerformBatchUpdates")
	s.mu.Lock()
	s.depth++
	s.batches++
	s.mu.Unlock()

	updates()

	s.mu.Lock()
	s.depth--
	s.mu.Unlock()
	s.record("EndBatch")
	s.verify()
}

// ReloadData discards the count model and re-reads it from Source.
func (s *RecordingSurface) ReloadData() {
	s.record("ReloadData")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reloads++
	s.counts = s.readCounts()
}

func (s *RecordingSurface) InsertSection(at int) {
	s.record(fmt.Sprintf("InsertSection(%d)", at))
	s.mutate(func() error {
		if at < 0 || at > len(s.counts) {
			return fmt.Errorf("InsertSection(%d) with %d sections", at, len(s.counts))
		}
		n := 0
		if s.Source != nil {
			n = s.Source.NumberOfItems(at)
		}
		s.counts = slices.Insert(s.counts, at, n)
		return nil
	})
}

func (s *RecordingSurface) DeleteSection(at int) {
	s.record(fmt.Sprintf("DeleteSection(%d)", at))
	s.mutate(func() error {
		if at < 0 || at >= len(s.counts) {
			return fmt.Errorf("DeleteSection(%d) with %d sections", at, len(s.counts))
		}
		s.counts = slices.Delete(s.counts, at, at+1)
		return nil
	})
}

func (s *RecordingSurface) MoveSection(from, to int) {
	s.record(fmt.Sprintf("MoveSection(%d,%d)", from, to))
	s.mutate(func() error {
		if from < 0 || from >= len(s.counts) || to < 0 || to >= len(s.counts) {
			return fmt.Errorf("MoveSection(%d,%d) with %d sections", from, to, len(s.counts))
		}
		n := s.counts[from]
		s.counts = slices.Delete(s.counts, from, from+1)
		s.counts = slices.Insert(s.counts, to, n)
		return nil
	})
}

func (s *RecordingSurface) ReloadSection(at int) {
	s.record(fmt.Sprintf("ReloadSection(%d)", at))
}

func (s *RecordingSurface) InsertRow(section, row int) {
	s.record(fmt.Sprintf("InsertRow(%d,%d)", section, row))
	s.mutate(func() error {
		if section < 0 || section >= len(s.counts) || row < 0 || row > s.counts[section] {
			return fmt.Errorf("InsertRow(%d,%d) out of bounds", section, row)
		}
		s.counts[section]++
		return nil
	})
}

func (s *RecordingSurface) DeleteRow(section, row int) {
	s.record(fmt.Sprintf("DeleteRow(%d,%d)", section, row))
	s.mutate(func() error {
		if section < 0 || section >= len(s.counts) || row < 0 || row >= s.counts[section] {
			return fmt.Errorf("DeleteRow(%d,%d) out of bounds", section, row)
		}
		s.counts[section]--
		return nil
	})
}

func (s *RecordingSurface) MoveRow(section, from, to int) {
	s.record(fmt.Sprintf("MoveRow(%d,%d,%d)", section, from, to))
	s.mutate(func() error {
		if section < 0 || section >= len(s.counts) {
			return fmt.Errorf("MoveRow(%d,%d,%d) out of bounds", section, from, to)
		}
		return nil
	})
}

func (s *RecordingSurface) ReloadRow(section, row int) {
	s.record(fmt.Sprintf("ReloadRow(%d,%d)", section, row))
}

func (s *RecordingSurface) DeselectRow(section, row int) {
	s.record(fmt.Sprintf("DeselectRow(%d,%d)", section, row))
}

// Calls returns every recorded call in order.
func (s *RecordingSurface) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Reset forgets recorded calls and mismatches; the count model is kept.
func (s *RecordingSurface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
	s.mismatches = nil
}

// Counts returns the surface's own row counts per section.
func (s *RecordingSurface) Counts() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.counts)
}

// Batches returns how many batches have run.
func (s *RecordingSurface) Batches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.batches
}

// Reloads returns how many times ReloadData was called.
func (s *RecordingSurface) Reloads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloads
}

// Mismatches returns the consistency failures seen so far.
func (s *RecordingSurface) Mismatches() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.mismatches)
}

func (s *RecordingSurface) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *RecordingSurface) mutate(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.depth == 0 {
		s.mismatches = append(s.mismatches, fmt.Sprintf("%s outside a batch", s.calls[len(s.calls)-1]))
	}
	if err := fn(); err != nil {
		s.mismatches = append(s.mismatches, err.Error())
	}
}

func (s *RecordingSurface) verify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Source == nil {
		return
	}
	want := s.readCounts()
	if !slices.Equal(want, s.counts) {
		s.mismatches = append(s.mismatches, fmt.Sprintf("counts %v after batch, data source has %v", s.counts, want))
		s.counts = want
	}
}

func (s *RecordingSurface) readCounts() []int {
	if s.Source == nil {
		return nil
	}
	counts := make([]int, s.Source.NumberOfSections())
	for i := range counts {
		counts[i] = s.Source.NumberOfItems(i)
	}
	return counts
}
