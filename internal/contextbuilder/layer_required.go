package contextbuilder

import (
	"context"

	"fabula/internal/story"
)

// requiredItems builds the L1 tier: the chapter's own content, its rendered
// outline, and the tail of the immediately preceding chapter. Up to three
// items, all at the required weight.
func (b *Builder) requiredItems(ch, prev *story.Chapter) []ContextItem {
	var items []ContextItem

	if ch.Content != "" {
		items = append(items, ContextItem{
			Type:     TypeChapterContent,
			ID:       ch.ID,
			Content:  ch.Content,
			Priority: b.cfg.RequiredWeight,
		})
	}

	if !ch.Outline.Empty() {
		items = append(items, ContextItem{
			Type:     TypeChapterOutline,
			ID:       ch.ID,
			Content:  renderOutline(ch),
			Priority: b.cfg.RequiredWeight,
		})
	}

	if prev != nil && prev.Content != "" {
		items = append(items, ContextItem{
			Type:     TypeChapterPrevTail,
			ID:       prev.ID,
			Content:  tail(prev.Content, b.cfg.PrevTailLength),
			Priority: b.cfg.RequiredWeight,
		})
	}

	return items
}

// previousChapter resolves the chapter immediately before ch in sequence
// order: inside its volume when it has one, otherwise across all chapters.
// Returns nil when ch is the first chapter (or absent from the listing).
func (b *Builder) previousChapter(ctx context.Context, ch *story.Chapter) (*story.Chapter, error) {
	var (
		siblings []story.Chapter
		err      error
	)
	if ch.VolumeID != "" {
		siblings, err = b.repos.Chapters.ListByVolume(ctx, ch.VolumeID)
	} else {
		siblings, err = b.repos.Chapters.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	for i := range siblings {
		if siblings[i].ID == ch.ID {
			if i == 0 {
				return nil, nil
			}
			prev := siblings[i-1]
			return &prev, nil
		}
	}
	return nil, nil
}
