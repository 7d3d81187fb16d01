// Package memory provides an in-process implementation of every story
// repository port, backed by maps and sorted slices. It serves tests, the
// CLI's project mode, and any deployment small enough to hold a whole story
// bible in memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"fabula/internal/story"
)

// Store implements ports.Repositories' interfaces. Reads are safe for
// concurrent use with each other; loading is expected to finish before the
// store is handed to a builder.
type Store struct {
	mu            sync.RWMutex
	chapters      map[string]story.Chapter
	characters    map[string]story.Character
	locations     map[string]story.Location
	arcs          map[string]story.Arc
	relationships []story.Relationship
	foreshadowing map[string]story.Foreshadowing
	foreshadowSeq []string // insertion order for deterministic listings
	hooks         []story.Hook
	world         *story.World
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		chapters:      make(map[string]story.Chapter),
		characters:    make(map[string]story.Character),
		locations:     make(map[string]story.Location),
		arcs:          make(map[string]story.Arc),
		foreshadowing: make(map[string]story.Foreshadowing),
	}
}

// --- loading ---------------------------------------------------------------

func (s *Store) AddChapter(ch story.Chapter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chapters[ch.ID] = ch
}

func (s *Store) AddCharacter(c story.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characters[c.ID] = c
}

func (s *Store) AddLocation(l story.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

func (s *Store) AddArc(a story.Arc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arcs[a.ID] = a
}

func (s *Store) AddRelationship(r story.Relationship) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relationships = append(s.relationships, r)
}

func (s *Store) AddForeshadowing(f story.Foreshadowing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.foreshadowing[f.ID]; !exists {
		s.foreshadowSeq = append(s.foreshadowSeq, f.ID)
	}
	s.foreshadowing[f.ID] = f
}

func (s *Store) AddHook(h story.Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

func (s *Store) SetWorld(w *story.World) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world = w
}

// --- ports.ChapterRepository ----------------------------------------------

func (s *Store) GetByID(ctx context.Context, id string) (*story.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.chapters[id]
	if !ok {
		return nil, nil
	}
	return &ch, nil
}

func (s *Store) ListByVolume(ctx context.Context, volumeID string) ([]story.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []story.Chapter
	for _, ch := range s.chapters {
		if ch.VolumeID == volumeID {
			out = append(out, ch)
		}
	}
	sortChapters(out)
	return out, nil
}

func (s *Store) ListAll(ctx context.Context) ([]story.Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]story.Chapter, 0, len(s.chapters))
	for _, ch := range s.chapters {
		out = append(out, ch)
	}
	sortChapters(out)
	return out, nil
}

func sortChapters(chs []story.Chapter) {
	sort.Slice(chs, func(i, j int) bool {
		if chs[i].Seq != chs[j].Seq {
			return chs[i].Seq < chs[j].Seq
		}
		return chs[i].ID < chs[j].ID
	})
}

// --- batch lookups ---------------------------------------------------------

// Characters returns the character repository view of the store.
func (s *Store) Characters() *CharacterView { return &CharacterView{s} }

// Locations returns the location repository view of the store.
func (s *Store) Locations() *LocationView { return &LocationView{s} }

// CharacterView adapts the store to ports.CharacterRepository.
type CharacterView struct{ s *Store }

// GetMany resolves ids in order, silently dropping ids that do not resolve.
func (v *CharacterView) GetMany(ctx context.Context, ids []string) ([]story.Character, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]story.Character, 0, len(ids))
	for _, id := range ids {
		if c, ok := v.s.characters[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// LocationView adapts the store to ports.LocationRepository.
type LocationView struct{ s *Store }

func (v *LocationView) GetMany(ctx context.Context, ids []string) ([]story.Location, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]story.Location, 0, len(ids))
	for _, id := range ids {
		if l, ok := v.s.locations[id]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// --- ports.ArcRepository ---------------------------------------------------

// Arcs returns the arc repository view of the store.
func (s *Store) Arcs() *ArcView { return &ArcView{s} }

// ArcView adapts the store to ports.ArcRepository.
type ArcView struct{ s *Store }

func (v *ArcView) GetByID(ctx context.Context, id string) (*story.Arc, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	a, ok := v.s.arcs[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// --- ports.RelationshipRepository ------------------------------------------

// Relationships returns the relationship repository view of the store.
func (s *Store) Relationships() *RelationshipView { return &RelationshipView{s} }

// RelationshipView adapts the store to ports.RelationshipRepository.
type RelationshipView struct{ s *Store }

// GetBetween resolves the directed edge sourceID → targetID.
func (v *RelationshipView) GetBetween(ctx context.Context, sourceID, targetID string) (*story.Relationship, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	for i := range v.s.relationships {
		r := v.s.relationships[i]
		if r.SourceID == sourceID && r.TargetID == targetID {
			return &r, nil
		}
	}
	return nil, nil
}

// --- ports.ForeshadowingRepository -----------------------------------------

// Foreshadowing returns the foreshadowing repository view of the store.
func (s *Store) Foreshadowing() *ForeshadowingView { return &ForeshadowingView{s} }

// ForeshadowingView adapts the store to ports.ForeshadowingRepository.
type ForeshadowingView struct{ s *Store }

func (v *ForeshadowingView) GetMany(ctx context.Context, ids []string) ([]story.Foreshadowing, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := make([]story.Foreshadowing, 0, len(ids))
	for _, id := range ids {
		if f, ok := v.s.foreshadowing[id]; ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// ListActive returns active threads in insertion order.
func (v *ForeshadowingView) ListActive(ctx context.Context) ([]story.Foreshadowing, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []story.Foreshadowing
	for _, id := range v.s.foreshadowSeq {
		if f := v.s.foreshadowing[id]; f.Status == story.ForeshadowingActive {
			out = append(out, f)
		}
	}
	return out, nil
}

// --- ports.HookRepository --------------------------------------------------

// Hooks returns the hook repository view of the store.
func (s *Store) Hooks() *HookView { return &HookView{s} }

// HookView adapts the store to ports.HookRepository.
type HookView struct{ s *Store }

func (v *HookView) ListByChapter(ctx context.Context, chapterID string) ([]story.Hook, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []story.Hook
	for _, h := range v.s.hooks {
		if h.ChapterID == chapterID {
			out = append(out, h)
		}
	}
	return out, nil
}

// --- ports.WorldRepository -------------------------------------------------

// World returns the world repository view of the store.
func (s *Store) World() *WorldView { return &WorldView{s} }

// WorldView adapts the store to ports.WorldRepository.
type WorldView struct{ s *Store }

func (v *WorldView) Get(ctx context.Context) (*story.World, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return v.s.world, nil
}
