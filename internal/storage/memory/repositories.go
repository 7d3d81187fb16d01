package memory

import "fabula/internal/story/ports"

// Repositories bundles the store's port views in the shape the context
// builder expects.
func (s *Store) Repositories() ports.Repositories {
	return ports.Repositories{
		Chapters:      s,
		Characters:    s.Characters(),
		Locations:     s.Locations(),
		Arcs:          s.Arcs(),
		Relationships: s.Relationships(),
		Foreshadowing: s.Foreshadowing(),
		Hooks:         s.Hooks(),
		World:         s.World(),
	}
}
