// Package contextbuilder assembles the bounded context document handed to
// the generation backend before it writes the next chapter. Candidate facts
// are gathered in five relevance tiers, ranked by tier weight, and greedily
// fitted under a token budget.
package contextbuilder

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"fabula/internal/logging"
	"fabula/internal/observability"
	"fabula/internal/story/ports"
)

// Builder assembles context bundles. It holds no mutable state between
// calls, so one instance may serve many concurrent builds.
type Builder struct {
	repos   ports.Repositories
	cfg     Config
	logger  logging.Logger
	metrics *observability.BuildMetrics
}

// NewBuilder creates a Builder over the given repositories. A nil logger is
// replaced with a no-op logger.
func NewBuilder(repos ports.Repositories, cfg Config, logger logging.Logger) *Builder {
	return &Builder{
		repos:  repos,
		cfg:    cfg,
		logger: logging.OrNop(logger),
	}
}

// WithMetrics attaches a metrics recorder and returns the builder.
func (b *Builder) WithMetrics(m *observability.BuildMetrics) *Builder {
	b.metrics = m
	return b
}

// Build assembles the context for one chapter. The additional items are the
// caller's pinned facts (L5). It returns a NotFoundError when chapterID does
// not resolve; repository failures propagate unchanged and no partial result
// is ever returned.
func (b *Builder) Build(ctx context.Context, chapterID string, additional []ContextItem) (*BuiltContext, error) {
	start := time.Now()

	ch, err := b.repos.Chapters.GetByID(ctx, chapterID)
	if err != nil {
		b.record("error", start)
		return nil, err
	}
	if ch == nil {
		b.record("not_found", start)
		return nil, &NotFoundError{ChapterID: chapterID}
	}

	// The previous chapter feeds both L1 (tail) and L3 (hooks); resolve it
	// once before fanning out.
	prev, err := b.previousChapter(ctx, ch)
	if err != nil {
		b.record("error", start)
		return nil, err
	}

	// Independent tiers have no ordering dependency; fetch them
	// concurrently. The first failure cancels the group and aborts the
	// whole build.
	var (
		expansion []ContextItem
		plot      []ContextItem
		world     []ContextItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expansion, err = b.expansionItems(gctx, ch)
		return err
	})
	g.Go(func() error {
		var err error
		plot, err = b.plotItems(gctx, ch, prev)
		return err
	})
	g.Go(func() error {
		var err error
		world, err = b.worldItems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		b.record("error", start)
		return nil, err
	}

	// Concatenate in tier order so ties inside a tier keep insertion order
	// through the stable sort.
	candidates := b.requiredItems(ch, prev)
	candidates = append(candidates, expansion...)
	candidates = append(candidates, plot...)
	candidates = append(candidates, world...)
	candidates = append(candidates, b.customItems(additional)...)

	selected, total, truncated := fitBudget(candidates, b.cfg.Budget(), b.cfg.EstimateTokens)

	built := &BuiltContext{Items: selected, TotalTokens: total, Truncated: truncated}
	b.logger.Info("built context for chapter %s: %d/%d items, %d tokens, truncated=%v",
		chapterID, len(selected), len(candidates), total, truncated)
	b.record("ok", start)
	b.observe(built)
	return built, nil
}

func (b *Builder) record(outcome string, start time.Time) {
	if b.metrics == nil {
		return
	}
	b.metrics.RecordBuild(outcome, time.Since(start))
}

func (b *Builder) observe(built *BuiltContext) {
	if b.metrics == nil {
		return
	}
	if built.Truncated {
		b.metrics.RecordTruncation()
	}
	perSection := make(map[string]int)
	for _, item := range built.Items {
		perSection[sectionHeadings[SectionOf(item.Type)]] += b.cfg.EstimateTokens(item.Content)
	}
	for section, tokens := range perSection {
		b.metrics.RecordSectionTokens(section, tokens)
	}
}
