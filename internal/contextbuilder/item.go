package contextbuilder

// ItemType tags a context item with the kind of narrative fact it carries.
// The set is closed; Section switches over it exhaustively so a new type is
// a compile-time decision, not a silent default.
type ItemType string

const (
	TypeChapterContent  ItemType = "chapter_content"
	TypeChapterOutline  ItemType = "chapter_outline"
	TypeChapterPrevTail ItemType = "chapter_prev_tail"
	TypeCharacter       ItemType = "character"
	TypeRelationship    ItemType = "relationship"
	TypeLocation        ItemType = "location"
	TypeArc             ItemType = "arc"
	TypeForeshadowing   ItemType = "foreshadowing"
	TypeHook            ItemType = "hook"
	TypePowerSystem     ItemType = "power_system"
	TypeSocialRules     ItemType = "social_rules"
	TypeCustom          ItemType = "custom"
)

// ContextItem is the unit of assembled context: a rendered, human-readable
// fact with a ranking priority. Items are value objects created fresh on
// every build and never persisted.
type ContextItem struct {
	Type     ItemType `json:"type"`
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Priority int      `json:"priority,omitempty"`
}

// Section is one of the six fixed groups the formatter renders.
type Section int

const (
	SectionNarrative Section = iota
	SectionOutline
	SectionCharacters
	SectionWorld
	SectionPlot
	SectionExtras
	sectionCount
)

// sectionHeadings is indexed by Section and fixes both the order and the
// headings of the formatted document.
var sectionHeadings = [sectionCount]string{
	SectionNarrative:  "Preceding Narrative",
	SectionOutline:    "Chapter Outline & Arc",
	SectionCharacters: "Characters & Relationships",
	SectionWorld:      "World & Setting",
	SectionPlot:       "Plot Threads",
	SectionExtras:     "Additional Notes",
}

// SectionOf maps an item type to its formatter section.
func SectionOf(t ItemType) Section {
	switch t {
	case TypeChapterContent, TypeChapterPrevTail:
		return SectionNarrative
	case TypeChapterOutline, TypeArc:
		return SectionOutline
	case TypeCharacter, TypeRelationship:
		return SectionCharacters
	case TypeLocation, TypePowerSystem, TypeSocialRules:
		return SectionWorld
	case TypeForeshadowing, TypeHook:
		return SectionPlot
	case TypeCustom:
		return SectionExtras
	}
	return SectionExtras
}

// BuiltContext is the result of one assembly: the selected items in ranking
// order, the estimator's cost sum over them, and whether any candidate was
// dropped to respect the budget.
type BuiltContext struct {
	Items       []ContextItem `json:"items"`
	TotalTokens int           `json:"total_tokens"`
	Truncated   bool          `json:"truncated"`
}
