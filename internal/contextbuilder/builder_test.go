package contextbuilder

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"fabula/internal/storage/memory"
	"fabula/internal/story"
)

// runeCount is the estimator used throughout these tests: one token per
// rune, so budgets can be reasoned about in characters.
func runeCount(s string) int { return len([]rune(s)) }

// newTestBuilder wires a builder over the store with a rune-based estimator
// and the given usable budget (reserves zeroed out).
func newTestBuilder(store *memory.Store, budget int) *Builder {
	cfg := DefaultConfig()
	cfg.TotalBudget = budget
	cfg.OutputReserve = 0
	cfg.PromptReserve = 0
	cfg.EstimateTokens = runeCount
	return NewBuilder(store.Repositories(), cfg, nil)
}

const hugeBudget = 1 << 20

func gateChapter() story.Chapter {
	return story.Chapter{
		ID:      "ch-2",
		Title:   "The Gate",
		Content: "The gate creaked open.",
		Outline: story.Outline{
			Goal:       "enter the ruins",
			Scenes:     []string{"approach", "enter"},
			EndingHook: "something watches",
		},
		Seq: 2,
	}
}

func TestBuildContentAndOutlineOnly(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(gateChapter())

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-2", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(built.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(built.Items))
	}
	if built.Items[0].Type != TypeChapterContent {
		t.Errorf("Items[0].Type = %s, want %s", built.Items[0].Type, TypeChapterContent)
	}
	if built.Items[1].Type != TypeChapterOutline {
		t.Errorf("Items[1].Type = %s, want %s", built.Items[1].Type, TypeChapterOutline)
	}
	if built.Truncated {
		t.Error("Truncated = true, want false")
	}

	outline := built.Items[1].Content
	for _, want := range []string{"enter the ruins", "1. approach", "2. enter", "something watches"} {
		if !strings.Contains(outline, want) {
			t.Errorf("outline missing %q:\n%s", want, outline)
		}
	}
}

func TestBuildNotFound(t *testing.T) {
	store := memory.NewStore()

	_, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ghost", nil)
	if err == nil {
		t.Fatal("Build returned nil error for missing chapter")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
}

func TestBuildPreviousChapterTail(t *testing.T) {
	store := memory.NewStore()
	prevContent := strings.Repeat("x", 100) + strings.Repeat("y", 500)
	store.AddChapter(story.Chapter{ID: "ch-1", Content: prevContent, Seq: 1})
	store.AddChapter(gateChapter())

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-2", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var tailItem *ContextItem
	for i := range built.Items {
		if built.Items[i].Type == TypeChapterPrevTail {
			tailItem = &built.Items[i]
		}
	}
	if tailItem == nil {
		t.Fatal("no chapter_prev_tail item produced")
	}
	if tailItem.ID != "ch-1" {
		t.Errorf("tail item ID = %q, want ch-1", tailItem.ID)
	}
	if want := strings.Repeat("y", 500); tailItem.Content != want {
		t.Errorf("tail is not the last 500 characters (got %d chars, first=%q)",
			len(tailItem.Content), tailItem.Content[:1])
	}
}

func TestBuildTailShorterThanLimit(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "short opener", Seq: 1})
	store.AddChapter(gateChapter())

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-2", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, item := range built.Items {
		if item.Type == TypeChapterPrevTail {
			if item.Content != "short opener" {
				t.Errorf("tail = %q, want full previous content", item.Content)
			}
			return
		}
	}
	t.Fatal("no chapter_prev_tail item produced")
}

func TestBuildNoTailWhenPreviousEmpty(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(story.Chapter{ID: "ch-1", Seq: 1})
	store.AddChapter(gateChapter())

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-2", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, item := range built.Items {
		if item.Type == TypeChapterPrevTail {
			t.Fatal("tail item produced for content-less previous chapter")
		}
	}
}

func TestBuildTailRespectsVolumes(t *testing.T) {
	store := memory.NewStore()
	// Same Seq ordering, but ch-x lives in another volume and must not be
	// treated as the predecessor.
	store.AddChapter(story.Chapter{ID: "ch-x", VolumeID: "vol-1", Content: "wrong volume", Seq: 1})
	store.AddChapter(story.Chapter{ID: "ch-a", VolumeID: "vol-2", Content: "right volume", Seq: 1})
	store.AddChapter(story.Chapter{ID: "ch-b", VolumeID: "vol-2", Content: "current", Seq: 2})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-b", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, item := range built.Items {
		if item.Type == TypeChapterPrevTail {
			if item.ID != "ch-a" {
				t.Errorf("tail came from %q, want ch-a", item.ID)
			}
			return
		}
	}
	t.Fatal("no chapter_prev_tail item produced")
}

func TestBuildScopedRelationships(t *testing.T) {
	store := memory.NewStore()
	store.AddCharacter(story.Character{ID: "a", Name: "Asha"})
	store.AddCharacter(story.Character{ID: "b", Name: "Bren"})
	store.AddCharacter(story.Character{ID: "c", Name: "Corin"})
	store.AddRelationship(story.Relationship{ID: "r-ab", SourceID: "a", TargetID: "b", Type: "rival"})
	store.AddRelationship(story.Relationship{ID: "r-ca", SourceID: "c", TargetID: "a", Type: "mentor"})
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "text", Seq: 1, CharacterIDs: []string{"a", "b"}})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-1", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var rels []ContextItem
	for _, item := range built.Items {
		if item.Type == TypeRelationship {
			rels = append(rels, item)
		}
	}
	if len(rels) != 1 {
		t.Fatalf("relationship items = %d, want 1 (only a↔b is in scope)", len(rels))
	}
	if rels[0].ID != "r-ab" {
		t.Errorf("relationship ID = %q, want r-ab", rels[0].ID)
	}
	if !strings.Contains(rels[0].Content, "Asha → Bren: rival") {
		t.Errorf("relationship content = %q", rels[0].Content)
	}
}

func TestBuildRelationshipDeduplicatedAcrossDirections(t *testing.T) {
	store := memory.NewStore()
	store.AddCharacter(story.Character{ID: "a", Name: "Asha"})
	store.AddCharacter(story.Character{ID: "b", Name: "Bren"})
	// Both directions resolve to the same edge id.
	store.AddRelationship(story.Relationship{ID: "r-1", SourceID: "a", TargetID: "b", Type: "rival"})
	store.AddRelationship(story.Relationship{ID: "r-1", SourceID: "b", TargetID: "a", Type: "rival"})
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "text", Seq: 1, CharacterIDs: []string{"a", "b"}})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-1", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	count := 0
	for _, item := range built.Items {
		if item.Type == TypeRelationship {
			count++
		}
	}
	if count != 1 {
		t.Errorf("relationship items = %d, want 1", count)
	}
}

func TestBuildDanglingIDsSilentlyDropped(t *testing.T) {
	store := memory.NewStore()
	store.AddCharacter(story.Character{ID: "a", Name: "Asha"})
	store.AddChapter(story.Chapter{
		ID: "ch-1", Content: "text", Seq: 1,
		CharacterIDs:     []string{"a", "deleted"},
		LocationIDs:      []string{"nowhere"},
		ForeshadowingIDs: []string{"gone"},
	})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-1", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, item := range built.Items {
		switch item.Type {
		case TypeLocation, TypeForeshadowing:
			t.Errorf("dangling reference produced item %s/%s", item.Type, item.ID)
		case TypeCharacter:
			if item.ID != "a" {
				t.Errorf("unexpected character item %q", item.ID)
			}
		}
	}
}

func TestBuildForeshadowingHintedVsActive(t *testing.T) {
	store := memory.NewStore()
	store.AddForeshadowing(story.Foreshadowing{ID: "f-1", Title: "The sealed door", Status: story.ForeshadowingActive})
	store.AddForeshadowing(story.Foreshadowing{ID: "f-2", Title: "The missing heir", Status: story.ForeshadowingActive})
	store.AddForeshadowing(story.Foreshadowing{ID: "f-3", Title: "Old debt", Status: story.ForeshadowingResolved})
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "text", Seq: 1, ForeshadowingIDs: []string{"f-1"}})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-1", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	byID := map[string]string{}
	for _, item := range built.Items {
		if item.Type == TypeForeshadowing {
			if _, dup := byID[item.ID]; dup {
				t.Errorf("foreshadowing %q appears twice", item.ID)
			}
			byID[item.ID] = item.Content
		}
	}

	if len(byID) != 2 {
		t.Fatalf("foreshadowing items = %d, want 2 (hinted f-1, open f-2)", len(byID))
	}
	if !strings.Contains(byID["f-1"], "Hinted in this chapter") {
		t.Errorf("f-1 not labeled as hinted: %q", byID["f-1"])
	}
	if !strings.Contains(byID["f-2"], "Open thread") {
		t.Errorf("f-2 not labeled as open: %q", byID["f-2"])
	}
	if _, ok := byID["f-3"]; ok {
		t.Error("resolved foreshadowing f-3 included")
	}
}

func TestBuildHooksFromPreviousChapter(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "first", Seq: 1})
	store.AddChapter(story.Chapter{ID: "ch-2", Content: "second", Seq: 2})
	store.AddHook(story.Hook{ID: "h-1", ChapterID: "ch-1", Content: "a scream in the dark"})
	store.AddHook(story.Hook{ID: "h-2", ChapterID: "ch-2", Content: "not this one"})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-2", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var hooks []ContextItem
	for _, item := range built.Items {
		if item.Type == TypeHook {
			hooks = append(hooks, item)
		}
	}
	if len(hooks) != 1 || hooks[0].ID != "h-1" {
		t.Fatalf("hooks = %+v, want exactly h-1", hooks)
	}
}

func TestBuildWorldRules(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "text", Seq: 1})
	store.SetWorld(&story.World{
		PowerSystem: &story.PowerSystem{
			Name:      "Threadweaving",
			Levels:    []string{"novice", "adept"},
			CoreRules: []string{"every weave costs memory"},
		},
		SocialRules: map[string]string{"guild oath": "binding for life"},
	})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-1", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var havePower, haveSocial bool
	for _, item := range built.Items {
		switch item.Type {
		case TypePowerSystem:
			havePower = true
			if item.Priority != PriorityWorld {
				t.Errorf("power system priority = %d, want %d", item.Priority, PriorityWorld)
			}
		case TypeSocialRules:
			haveSocial = true
		}
	}
	if !havePower || !haveSocial {
		t.Errorf("havePower=%v haveSocial=%v, want both", havePower, haveSocial)
	}
}

func TestBuildWorldOmittedWithoutCoreRules(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "text", Seq: 1})
	// Levels and constraints alone do not qualify the power system.
	store.SetWorld(&story.World{
		PowerSystem: &story.PowerSystem{
			Name:        "Threadweaving",
			Levels:      []string{"novice"},
			Constraints: []string{"no weaving at night"},
		},
	})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-1", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, item := range built.Items {
		if item.Type == TypePowerSystem {
			t.Fatal("power system item produced without core rules")
		}
	}
}

func TestBuildCustomItemDefaultPriority(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(gateChapter())
	store.SetWorld(&story.World{SocialRules: map[string]string{"law": "no iron in the vale"}})

	additional := []ContextItem{{Type: TypeCustom, ID: "note1", Content: "keep tone wistful"}}
	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-2", additional)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	last := built.Items[len(built.Items)-1]
	if last.Type != TypeCustom || last.ID != "note1" {
		t.Fatalf("custom item is not last: %+v", built.Items)
	}
	if last.Priority != PriorityCustom {
		t.Errorf("custom priority = %d, want %d", last.Priority, PriorityCustom)
	}
}

func TestBuildCustomItemExplicitPriorityKept(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(gateChapter())

	additional := []ContextItem{{Type: TypeCustom, ID: "pin", Content: "crucial", Priority: 900}}
	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-2", additional)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// 900 sorts between L1 (1000) and L2 (800): directly after required items.
	if built.Items[2].ID != "pin" {
		t.Errorf("pinned item at index %d, want 2: %+v", indexOf(built.Items, "pin"), built.Items)
	}
}

func TestBuildIdempotent(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(story.Chapter{ID: "ch-1", Content: "first chapter text", Seq: 1})
	store.AddChapter(story.Chapter{
		ID: "ch-2", Title: "Two", Content: "second chapter text", Seq: 2,
		CharacterIDs:     []string{"a", "b"},
		ForeshadowingIDs: []string{"f-1"},
	})
	store.AddCharacter(story.Character{ID: "a", Name: "Asha", Role: "protagonist"})
	store.AddCharacter(story.Character{ID: "b", Name: "Bren"})
	store.AddRelationship(story.Relationship{ID: "r-1", SourceID: "a", TargetID: "b", Type: "rival"})
	store.AddForeshadowing(story.Foreshadowing{ID: "f-1", Title: "door", Status: story.ForeshadowingActive})
	store.AddForeshadowing(story.Foreshadowing{ID: "f-2", Title: "heir", Status: story.ForeshadowingActive})
	store.SetWorld(&story.World{SocialRules: map[string]string{
		"b-rule": "second", "a-rule": "first", "c-rule": "third",
	}})

	b := newTestBuilder(store, hugeBudget)
	first, err := b.Build(context.Background(), "ch-2", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := b.Build(context.Background(), "ch-2", nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("two builds over unchanged data differ:\n%+v\n%+v", first, second)
	}
}

func TestBuildTierPriorities(t *testing.T) {
	store := memory.NewStore()
	store.AddChapter(story.Chapter{
		ID: "ch-1", Content: "text", Seq: 1,
		CharacterIDs: []string{"a"}, ForeshadowingIDs: []string{"f-1"},
	})
	store.AddCharacter(story.Character{ID: "a", Name: "Asha"})
	store.AddForeshadowing(story.Foreshadowing{ID: "f-1", Title: "door", Status: story.ForeshadowingActive})
	store.SetWorld(&story.World{SocialRules: map[string]string{"law": "x"}})

	built, err := newTestBuilder(store, hugeBudget).Build(context.Background(), "ch-1",
		[]ContextItem{{Type: TypeCustom, ID: "n", Content: "note"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[ItemType]int{
		TypeChapterContent: PriorityRequired,
		TypeCharacter:      PriorityExpansion,
		TypeForeshadowing:  PriorityPlot,
		TypeSocialRules:    PriorityWorld,
		TypeCustom:         PriorityCustom,
	}
	for _, item := range built.Items {
		if w, ok := want[item.Type]; ok && item.Priority != w {
			t.Errorf("%s priority = %d, want %d", item.Type, item.Priority, w)
		}
	}

	for i := 1; i < len(built.Items); i++ {
		if built.Items[i].Priority > built.Items[i-1].Priority {
			t.Errorf("items not in descending priority order at %d", i)
		}
	}
}

func indexOf(items []ContextItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
