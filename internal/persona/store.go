package persona

// Store is an in-memory persona catalog. The catalog is static for the
// lifetime of the process, so reads need no locking.
type Store struct {
	ordered []Persona
	byID    map[string]Persona
}

// NewStore creates a store from the given personas. An empty slice falls
// back to the built-in seed catalog.
func NewStore(personas []Persona) *Store {
	if len(personas) == 0 {
		personas = Seed()
	}

	byID := make(map[string]Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}

	return &Store{ordered: personas, byID: byID}
}

// All returns the catalog in seed order.
func (s *Store) All() []Persona {
	out := make([]Persona, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// FindByID looks up a persona by id.
func (s *Store) FindByID(id string) (Persona, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Default returns the default persona.
func (s *Store) Default() Persona {
	if p, ok := s.byID[DefaultID]; ok {
		return p
	}
	return s.ordered[0]
}
