package contextbuilder

import (
	"context"

	"fabula/internal/story"
)

// expansionItems builds the L2 tier: every foreign key the chapter carries,
// expanded into a readable block. Characters and locations are fetched in
// single batch calls; relationships are scoped to pairs of linked
// characters only.
func (b *Builder) expansionItems(ctx context.Context, ch *story.Chapter) ([]ContextItem, error) {
	var items []ContextItem

	characters, err := b.linkedCharacters(ctx, ch)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(characters))
	for _, c := range characters {
		names[c.ID] = c.Name
		items = append(items, ContextItem{
			Type:     TypeCharacter,
			ID:       c.ID,
			Content:  renderCharacter(c),
			Priority: b.cfg.ExpansionWeight,
		})
	}

	rels, err := b.scopedRelationships(ctx, ch.CharacterIDs)
	if err != nil {
		return nil, err
	}
	for _, rel := range rels {
		items = append(items, ContextItem{
			Type:     TypeRelationship,
			ID:       rel.ID,
			Content:  renderRelationship(rel, names),
			Priority: b.cfg.ExpansionWeight,
		})
	}

	if len(ch.LocationIDs) > 0 {
		locations, err := b.repos.Locations.GetMany(ctx, ch.LocationIDs)
		if err != nil {
			return nil, err
		}
		for _, l := range locations {
			items = append(items, ContextItem{
				Type:     TypeLocation,
				ID:       l.ID,
				Content:  renderLocation(l),
				Priority: b.cfg.ExpansionWeight,
			})
		}
	}

	if ch.ArcID != "" {
		arc, err := b.repos.Arcs.GetByID(ctx, ch.ArcID)
		if err != nil {
			return nil, err
		}
		if arc != nil {
			items = append(items, ContextItem{
				Type:     TypeArc,
				ID:       arc.ID,
				Content:  renderArc(arc),
				Priority: b.cfg.ExpansionWeight,
			})
		}
	}

	return items, nil
}

func (b *Builder) linkedCharacters(ctx context.Context, ch *story.Chapter) ([]story.Character, error) {
	if len(ch.CharacterIDs) == 0 {
		return nil, nil
	}
	return b.repos.Characters.GetMany(ctx, ch.CharacterIDs)
}

// scopedRelationships probes every unordered pair of linked character ids in
// both directions and returns each relationship found exactly once.
// A relationship whose other endpoint is not linked to this chapter is
// deliberately out of scope.
func (b *Builder) scopedRelationships(ctx context.Context, characterIDs []string) ([]story.Relationship, error) {
	var (
		rels []story.Relationship
		seen = make(map[string]bool)
	)
	for i := 0; i < len(characterIDs); i++ {
		for j := i + 1; j < len(characterIDs); j++ {
			for _, pair := range [2][2]string{
				{characterIDs[i], characterIDs[j]},
				{characterIDs[j], characterIDs[i]},
			} {
				rel, err := b.repos.Relationships.GetBetween(ctx, pair[0], pair[1])
				if err != nil {
					return nil, err
				}
				if rel == nil || seen[rel.ID] {
					continue
				}
				seen[rel.ID] = true
				rels = append(rels, *rel)
			}
		}
	}
	return rels, nil
}
