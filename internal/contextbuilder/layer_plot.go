package contextbuilder

import (
	"context"

	"fabula/internal/story"
)

// plotItems builds the L3 tier: foreshadowing hinted in this chapter, every
// other still-active foreshadowing thread, and the hooks of the preceding
// chapter. A thread hinted here never reappears as an open thread.
func (b *Builder) plotItems(ctx context.Context, ch, prev *story.Chapter) ([]ContextItem, error) {
	var items []ContextItem

	hinted := make(map[string]bool, len(ch.ForeshadowingIDs))
	for _, id := range ch.ForeshadowingIDs {
		hinted[id] = true
	}

	if len(ch.ForeshadowingIDs) > 0 {
		threads, err := b.repos.Foreshadowing.GetMany(ctx, ch.ForeshadowingIDs)
		if err != nil {
			return nil, err
		}
		for _, f := range threads {
			items = append(items, ContextItem{
				Type:     TypeForeshadowing,
				ID:       f.ID,
				Content:  renderForeshadowing(f, true),
				Priority: b.cfg.PlotWeight,
			})
		}
	}

	active, err := b.repos.Foreshadowing.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range active {
		if hinted[f.ID] {
			continue
		}
		items = append(items, ContextItem{
			Type:     TypeForeshadowing,
			ID:       f.ID,
			Content:  renderForeshadowing(f, false),
			Priority: b.cfg.PlotWeight,
		})
	}

	if prev != nil {
		hooks, err := b.repos.Hooks.ListByChapter(ctx, prev.ID)
		if err != nil {
			return nil, err
		}
		for _, h := range hooks {
			items = append(items, ContextItem{
				Type:     TypeHook,
				ID:       h.ID,
				Content:  renderHook(h),
				Priority: b.cfg.PlotWeight,
			})
		}
	}

	return items, nil
}
