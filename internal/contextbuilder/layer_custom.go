package contextbuilder

// customItems builds the L5 tier from caller-supplied items. Items without
// an explicit priority get the custom weight; an explicit priority is kept,
// which lets advanced callers override tier ordering.
func (b *Builder) customItems(additional []ContextItem) []ContextItem {
	if len(additional) == 0 {
		return nil
	}
	items := make([]ContextItem, len(additional))
	for i, item := range additional {
		if item.Priority == 0 {
			item.Priority = b.cfg.CustomWeight
		}
		items[i] = item
	}
	return items
}
