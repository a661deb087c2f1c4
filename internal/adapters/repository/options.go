package repository

import "github.com/okian/pulse/internal/domain/patient"

// Option applies a configuration option to the InMemoryStore.
type Option func(*InMemoryStore)

// WithPatients seeds the store with an initial collection.
func WithPatients(patients []patient.Patient) Option {
	return func(s *InMemoryStore) {
		s.patients = append([]patient.Patient(nil), patients...)
	}
}
