// Package ports declares the read-only repository contracts the context
// builder depends on. Implementations live under internal/storage; the
// builder never assumes anything about the backing store beyond these
// interfaces.
package ports

import (
	"context"

	"fabula/internal/story"
)

// ChapterRepository resolves chapters and chapter ordering.
type ChapterRepository interface {
	// GetByID returns the chapter with its full content, or (nil, nil)
	// when no such chapter exists.
	GetByID(ctx context.Context, id string) (*story.Chapter, error)

	// ListByVolume returns every chapter in a volume ordered by Seq.
	ListByVolume(ctx context.Context, volumeID string) ([]story.Chapter, error)

	// ListAll returns every chapter ordered by Seq, used when a chapter
	// has no volume.
	ListAll(ctx context.Context) ([]story.Chapter, error)
}

// CharacterRepository batch-resolves characters.
type CharacterRepository interface {
	// GetMany returns the characters for the given ids. Ids that do not
	// resolve are omitted from the result without error.
	GetMany(ctx context.Context, ids []string) ([]story.Character, error)
}

// LocationRepository batch-resolves locations. Unresolvable ids are omitted.
type LocationRepository interface {
	GetMany(ctx context.Context, ids []string) ([]story.Location, error)
}

// ArcRepository resolves story arcs.
type ArcRepository interface {
	// GetByID returns (nil, nil) when the arc does not exist.
	GetByID(ctx context.Context, id string) (*story.Arc, error)
}

// RelationshipRepository resolves directed relationships between characters.
type RelationshipRepository interface {
	// GetBetween returns the relationship from sourceID to targetID, or
	// (nil, nil) when none exists. Callers probe both directions.
	GetBetween(ctx context.Context, sourceID, targetID string) (*story.Relationship, error)
}

// ForeshadowingRepository resolves foreshadowing threads.
type ForeshadowingRepository interface {
	// GetMany omits unresolvable ids without error.
	GetMany(ctx context.Context, ids []string) ([]story.Foreshadowing, error)

	// ListActive returns every thread whose status is "active".
	ListActive(ctx context.Context) ([]story.Foreshadowing, error)
}

// HookRepository resolves chapter-ending hooks.
type HookRepository interface {
	ListByChapter(ctx context.Context, chapterID string) ([]story.Hook, error)
}

// WorldRepository resolves the singleton world record.
type WorldRepository interface {
	// Get returns (nil, nil) when no world record has been created.
	Get(ctx context.Context) (*story.World, error)
}

// Repositories bundles every port the context builder needs.
type Repositories struct {
	Chapters      ChapterRepository
	Characters    CharacterRepository
	Locations     LocationRepository
	Arcs          ArcRepository
	Relationships RelationshipRepository
	Foreshadowing ForeshadowingRepository
	Hooks         HookRepository
	World         WorldRepository
}
