package contextbuilder

import (
	"fmt"
	"sort"
	"strings"

	"fabula/internal/story"
)

// Rendering helpers turn reference entities into the human-readable blocks
// carried by context items. Empty fields are omitted rather than rendered
// as blank lines.

func renderOutline(ch *story.Chapter) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Outline for %q:\n", ch.Title)
	if ch.Outline.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", ch.Outline.Goal)
	}
	for i, scene := range ch.Outline.Scenes {
		fmt.Fprintf(&b, "%d. %s\n", i+1, scene)
	}
	if ch.Outline.EndingHook != "" {
		fmt.Fprintf(&b, "Ending hook: %s\n", ch.Outline.EndingHook)
	}
	return strings.TrimRight(b.String(), "\n")
}

// tail returns the last n characters of s, or all of s when shorter.
func tail(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}

func renderCharacter(c story.Character) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", c.Name, orUnknown(c.Role))
	if c.Appearance != "" {
		fmt.Fprintf(&b, "Appearance: %s\n", c.Appearance)
	}
	if c.Motivation.Surface != "" {
		fmt.Fprintf(&b, "Wants (surface): %s\n", c.Motivation.Surface)
	}
	if c.Motivation.Hidden != "" {
		fmt.Fprintf(&b, "Wants (hidden): %s\n", c.Motivation.Hidden)
	}
	if c.Motivation.Core != "" {
		fmt.Fprintf(&b, "Core drive: %s\n", c.Motivation.Core)
	}
	if len(c.Personality) > 0 {
		fmt.Fprintf(&b, "Personality: %s\n", strings.Join(c.Personality, ", "))
	}
	if len(c.VoiceSamples) > 0 {
		fmt.Fprintf(&b, "Voice: %q\n", c.VoiceSamples[0])
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRelationship names the edge by character name when the name is
// known, falling back to the raw id.
func renderRelationship(rel story.Relationship, names map[string]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s: %s", displayName(names, rel.SourceID), displayName(names, rel.TargetID), rel.Type)
	if rel.Bond != "" {
		fmt.Fprintf(&b, "\nBond: %s", rel.Bond)
	}
	if rel.Goal != "" {
		fmt.Fprintf(&b, "\nGoal: %s", rel.Goal)
	}
	return b.String()
}

func renderLocation(l story.Location) string {
	var b strings.Builder
	b.WriteString(l.Name)
	if l.Type != "" {
		fmt.Fprintf(&b, " (%s)", l.Type)
	}
	if l.Atmosphere != "" {
		fmt.Fprintf(&b, "\nAtmosphere: %s", l.Atmosphere)
	}
	if l.Significance != "" {
		fmt.Fprintf(&b, "\nSignificance: %s", l.Significance)
	}
	return b.String()
}

func renderArc(a *story.Arc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Arc: %s", a.Name)
	if a.Type != "" {
		fmt.Fprintf(&b, " (%s)", a.Type)
	}
	if a.Status != "" {
		fmt.Fprintf(&b, " — %s", a.Status)
	}
	for _, sec := range a.Sections {
		fmt.Fprintf(&b, "\n- %s: %s", sec.Name, sec.Status)
	}
	return b.String()
}

func renderForeshadowing(f story.Foreshadowing, hintedHere bool) string {
	label := "Open thread"
	if hintedHere {
		label = "Hinted in this chapter"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", label, f.Title)
	if f.Setup != "" {
		fmt.Fprintf(&b, "\nSetup: %s", f.Setup)
	}
	if f.Payoff != "" {
		fmt.Fprintf(&b, "\nIntended payoff: %s", f.Payoff)
	}
	return b.String()
}

func renderHook(h story.Hook) string {
	return fmt.Sprintf("Previous chapter ended on: %s", h.Content)
}

func renderPowerSystem(ps *story.PowerSystem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Power system: %s\n", ps.Name)
	if len(ps.Levels) > 0 {
		fmt.Fprintf(&b, "Levels: %s\n", strings.Join(ps.Levels, " < "))
	}
	for _, rule := range ps.CoreRules {
		fmt.Fprintf(&b, "Rule: %s\n", rule)
	}
	for _, con := range ps.Constraints {
		fmt.Fprintf(&b, "Constraint: %s\n", con)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderSocialRules lists the map in sorted key order so builds stay
// deterministic.
func renderSocialRules(rules map[string]string) string {
	keys := make([]string, 0, len(rules))
	for k := range rules {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Social rules:")
	for _, k := range keys {
		fmt.Fprintf(&b, "\n- %s: %s", k, rules[k])
	}
	return b.String()
}

func displayName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

func orUnknown(s string) string {
	if s == "" {
		return "unspecified"
	}
	return s
}
