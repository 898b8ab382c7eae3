package models

// ExtractedFields holds the slots recognized in a user utterance. Any
// subset may be empty; extraction is best effort.
type ExtractedFields struct {
	Location    string   `json:"location,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Guests      int      `json:"guests,omitempty"`
	RoomType    string   `json:"room_type,omitempty"`
	Experiences []string `json:"experiences,omitempty"`
}

// PlanStep is one ordered stage of an execution plan, naming the backend
// operations the stage is expected to invoke.
type PlanStep struct {
	Priority    int      `json:"priority"`
	Description string   `json:"description"`
	Operations  []string `json:"operations"`
}

// ExecutionPlan is the per-turn structured intent produced by the planner.
// A plan with more than one step marks a complex request that needs the
// augmented-instruction path.
type ExecutionPlan struct {
	Fields ExtractedFields `json:"fields"`
	Steps  []PlanStep      `json:"steps"`
}

// IsComplex reports whether the plan needs explicit step instructions
// injected into the assistant run.
func (p ExecutionPlan) IsComplex() bool {
	return len(p.Steps) > 1
}
