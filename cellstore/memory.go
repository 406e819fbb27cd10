// Package cellstore provides ready-to-use formula.CellStore implementations:
// an in-memory store for tests and short-lived sessions, and a read-only
// sqlite-backed store for a persisted workbook.
package cellstore

import (
	"sync"

	"github.com/dekarrin/formulaengine/formula"
)

// Memory is an in-memory, concurrency-safe formula.CellStore. The zero value
// is not usable; construct one with NewMemory.
type Memory struct {
	mu    sync.RWMutex
	cells map[formula.CellRef]formula.Value
}

// NewMemory returns an empty in-memory cell store.
func NewMemory() *Memory {
	return &Memory{cells: make(map[formula.CellRef]formula.Value)}
}

// Get implements formula.CellStore.
func (m *Memory) Get(row, col int) (formula.Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.cells[formula.CellRef{Row: row, Col: col}]
	return v, ok
}

// Set stores v at (row, col), overwriting any existing value.
func (m *Memory) Set(row, col int, v formula.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cells[formula.CellRef{Row: row, Col: col}] = v
}

// Clear removes the value at (row, col), so a subsequent Get reports
// not-found rather than Blank explicitly set.
func (m *Memory) Clear(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cells, formula.CellRef{Row: row, Col: col})
}
