// Package story defines the reference entities of a serialized novel
// project: chapters, characters, locations, arcs, relationships,
// foreshadowing, hooks, and the world record. The context builder reads
// these entities through the ports in story/ports and never mutates them.
package story

// Outline captures the planning skeleton of a chapter before (or alongside)
// its prose.
type Outline struct {
	Goal       string   `yaml:"goal" json:"goal"`
	Scenes     []string `yaml:"scenes" json:"scenes"`
	EndingHook string   `yaml:"ending_hook" json:"ending_hook"`
}

// Empty reports whether the outline carries no usable planning data.
func (o Outline) Empty() bool {
	return o.Goal == "" && len(o.Scenes) == 0 && o.EndingHook == ""
}

// Chapter is a single installment of the serial. Seq is the natural ordering
// key inside a volume; chapters without a volume are ordered globally.
type Chapter struct {
	ID      string  `yaml:"id" json:"id"`
	Title   string  `yaml:"title" json:"title"`
	Content string  `yaml:"content" json:"content,omitempty"`
	Outline Outline `yaml:"outline" json:"outline"`

	VolumeID string `yaml:"volume_id" json:"volume_id,omitempty"`
	Seq      int    `yaml:"seq" json:"seq"`

	ArcID            string   `yaml:"arc_id" json:"arc_id,omitempty"`
	CharacterIDs     []string `yaml:"character_ids" json:"character_ids,omitempty"`
	LocationIDs      []string `yaml:"location_ids" json:"location_ids,omitempty"`
	ForeshadowingIDs []string `yaml:"foreshadowing_ids" json:"foreshadowing_ids,omitempty"`
}

// Motivation layers a character's wants from the surface story down to the
// core drive the reader only infers.
type Motivation struct {
	Surface string `yaml:"surface" json:"surface"`
	Hidden  string `yaml:"hidden" json:"hidden"`
	Core    string `yaml:"core" json:"core"`
}

// Character is a cast member.
type Character struct {
	ID           string     `yaml:"id" json:"id"`
	Name         string     `yaml:"name" json:"name"`
	Role         string     `yaml:"role" json:"role"` // protagonist, antagonist, supporting
	Appearance   string     `yaml:"appearance" json:"appearance,omitempty"`
	Motivation   Motivation `yaml:"motivation" json:"motivation"`
	Personality  []string   `yaml:"personality" json:"personality,omitempty"`
	VoiceSamples []string   `yaml:"voice_samples" json:"voice_samples,omitempty"`
}

// Location is a place the narrative visits.
type Location struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Type         string `yaml:"type" json:"type,omitempty"`
	Atmosphere   string `yaml:"atmosphere" json:"atmosphere,omitempty"`
	Significance string `yaml:"significance" json:"significance,omitempty"`
}

// ArcSection is one named movement inside an arc, with the chapters that
// realize it.
type ArcSection struct {
	Name       string   `yaml:"name" json:"name"`
	Status     string   `yaml:"status" json:"status"`
	ChapterIDs []string `yaml:"chapter_ids" json:"chapter_ids,omitempty"`
}

// Arc is a governing story arc spanning many chapters.
type Arc struct {
	ID       string       `yaml:"id" json:"id"`
	Name     string       `yaml:"name" json:"name"`
	Type     string       `yaml:"type" json:"type,omitempty"` // main, side, character
	Status   string       `yaml:"status" json:"status,omitempty"`
	Sections []ArcSection `yaml:"sections" json:"sections,omitempty"`
}

// Relationship is a directed edge between two characters.
type Relationship struct {
	ID       string `yaml:"id" json:"id"`
	SourceID string `yaml:"source_id" json:"source_id"`
	TargetID string `yaml:"target_id" json:"target_id"`
	Type     string `yaml:"type" json:"type"` // rival, mentor, lover, ...
	Bond     string `yaml:"bond" json:"bond,omitempty"`
	Goal     string `yaml:"goal" json:"goal,omitempty"`
}

// Foreshadowing lifecycle states.
const (
	ForeshadowingActive    = "active"
	ForeshadowingResolved  = "resolved"
	ForeshadowingAbandoned = "abandoned"
)

// Foreshadowing is a planted narrative thread awaiting payoff.
type Foreshadowing struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title" json:"title"`
	Status string `yaml:"status" json:"status"`
	Setup  string `yaml:"setup" json:"setup,omitempty"`
	Payoff string `yaml:"payoff" json:"payoff,omitempty"`
}

// Hook is the cliffhanger a chapter ends on.
type Hook struct {
	ID        string `yaml:"id" json:"id"`
	ChapterID string `yaml:"chapter_id" json:"chapter_id"`
	Content   string `yaml:"content" json:"content"`
}

// PowerSystem describes the world's magic or power rules.
type PowerSystem struct {
	Name        string   `yaml:"name" json:"name"`
	Levels      []string `yaml:"levels" json:"levels,omitempty"`
	CoreRules   []string `yaml:"core_rules" json:"core_rules,omitempty"`
	Constraints []string `yaml:"constraints" json:"constraints,omitempty"`
}

// World is the singleton world record. Either sub-record may be absent.
type World struct {
	PowerSystem *PowerSystem      `yaml:"power_system" json:"power_system,omitempty"`
	SocialRules map[string]string `yaml:"social_rules" json:"social_rules,omitempty"`
}
