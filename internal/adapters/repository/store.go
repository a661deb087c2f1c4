// Package repository holds the loaded patient collection.
//
// The collection is ordered and addressed by position; there is no other key.
// It is replaced wholesale on every successful load and never mutated in place.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/pulse/internal/domain/patient"
	"github.com/okian/pulse/pkg/metrics"
)

// Store provides access to the loaded patient collection.
type Store interface {
	// Replace swaps the whole collection.
	Replace(ctx context.Context, patients []patient.Patient) error

	// Get returns the patient at index.
	// Returns ErrIndexOutOfRange if index is outside [0, Count).
	Get(ctx context.Context, index int) (patient.Patient, error)

	// List returns the collection in API order.
	List(ctx context.Context) ([]patient.Patient, error)

	// Count returns the number of patients held.
	Count(ctx context.Context) int
}

// InMemoryStore implements Store over a slice.
type InMemoryStore struct {
	mu       sync.RWMutex
	patients []patient.Patient
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace implements Store.
func (s *InMemoryStore) Replace(_ context.Context, patients []patient.Patient) error {
	cp := append([]patient.Patient(nil), patients...)

	s.mu.Lock()
	s.patients = cp
	s.mu.Unlock()

	metrics.UpdatePatientsLoaded(len(cp))
	return nil
}

// Get implements Store.
func (s *InMemoryStore) Get(_ context.Context, index int) (patient.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.patients) {
		return patient.Patient{}, fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, index, len(s.patients))
	}
	return s.patients[index], nil
}

// List implements Store.
func (s *InMemoryStore) List(_ context.Context) ([]patient.Patient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]patient.Patient{}, s.patients...), nil
}

// Count implements Store.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.patients)
}
