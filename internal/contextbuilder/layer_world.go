package contextbuilder

import "context"

// worldItems builds the L4 tier from the singleton world record. The power
// system is included only when it has at least one core rule; levels and
// constraints alone do not qualify it.
func (b *Builder) worldItems(ctx context.Context) ([]ContextItem, error) {
	world, err := b.repos.World.Get(ctx)
	if err != nil {
		return nil, err
	}
	if world == nil {
		return nil, nil
	}

	var items []ContextItem

	if ps := world.PowerSystem; ps != nil && len(ps.CoreRules) > 0 {
		items = append(items, ContextItem{
			Type:     TypePowerSystem,
			ID:       "power_system",
			Content:  renderPowerSystem(ps),
			Priority: b.cfg.WorldWeight,
		})
	}

	if len(world.SocialRules) > 0 {
		items = append(items, ContextItem{
			Type:     TypeSocialRules,
			ID:       "social_rules",
			Content:  renderSocialRules(world.SocialRules),
			Priority: b.cfg.WorldWeight,
		})
	}

	return items, nil
}
