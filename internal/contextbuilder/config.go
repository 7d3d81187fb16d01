package contextbuilder

import "fabula/internal/shared/token"

// Default budget and tier constants. All of them are overridable through
// Config; the defaults suit a 32k-context generation model.
const (
	DefaultTotalBudget   = 32768
	DefaultOutputReserve = 4096
	DefaultPromptReserve = 1024

	// DefaultPrevTailLength is how many trailing characters of the
	// previous chapter are carried into the new one.
	DefaultPrevTailLength = 500

	// Tier weights. Each weight dominates every tier below it, so items
	// from different tiers never interleave.
	PriorityRequired  = 1000 // chapter content, outline, previous tail
	PriorityExpansion = 800  // linked characters, relationships, locations, arc
	PriorityPlot      = 600  // foreshadowing and hooks
	PriorityWorld     = 400  // power system and social rules
	PriorityCustom    = 200  // caller-supplied items without explicit priority
)

// Config carries every tunable of the assembly. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	TotalBudget   int
	OutputReserve int
	PromptReserve int

	PrevTailLength int

	RequiredWeight  int
	ExpansionWeight int
	PlotWeight      int
	WorldWeight     int
	CustomWeight    int

	// EstimateTokens is the opaque cost estimator used by the budget
	// fitter. It must be deterministic.
	EstimateTokens token.Estimator
}

// DefaultConfig returns the standard configuration backed by the tiktoken
// estimator.
func DefaultConfig() Config {
	return Config{
		TotalBudget:     DefaultTotalBudget,
		OutputReserve:   DefaultOutputReserve,
		PromptReserve:   DefaultPromptReserve,
		PrevTailLength:  DefaultPrevTailLength,
		RequiredWeight:  PriorityRequired,
		ExpansionWeight: PriorityExpansion,
		PlotWeight:      PriorityPlot,
		WorldWeight:     PriorityWorld,
		CustomWeight:    PriorityCustom,
		EstimateTokens:  token.Count,
	}
}

// Budget is the usable item budget: the total ceiling minus the reserves
// held back for model output and prompt scaffolding.
func (c Config) Budget() int {
	return c.TotalBudget - c.OutputReserve - c.PromptReserve
}
