package contextbuilder

import (
	"fmt"
	"strings"
)

const (
	formatHeader = "=== STORY CONTEXT ==="
	formatFooter = "=== END STORY CONTEXT ==="
)

// FormatContext renders selected items as a single prompt-ready document.
// Items are grouped into the six fixed sections in fixed order regardless of
// priority; a section with no items produces no heading. The function is
// total: empty input yields an empty wrapped document.
func FormatContext(items []ContextItem) string {
	var groups [sectionCount][]ContextItem
	for _, item := range items {
		s := SectionOf(item.Type)
		groups[s] = append(groups[s], item)
	}

	var b strings.Builder
	b.WriteString(formatHeader)
	b.WriteString("\n")

	for s := Section(0); s < sectionCount; s++ {
		if len(groups[s]) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", sectionHeadings[s])
		for _, item := range groups[s] {
			b.WriteString("\n")
			b.WriteString(strings.TrimRight(item.Content, "\n"))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(formatFooter)
	return b.String()
}
