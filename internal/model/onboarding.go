package model

// OnboardingCard projects a client into the kanban pipeline. Many cards may
// reference the same client (historically one per stage visited); cards are
// created and updated only through the move-to-stage operation and are never
// deleted independently of the client.
type OnboardingCard struct {
	ClientID       int64  `json:"clientId,string"`
	ClientName     string `json:"clientName"`
	StepNumber     int    `json:"stepNumber"`
	StepStatus     string `json:"stepStatus"`
	AssignedPerson string `json:"assignedPerson"`
	DueDate        int64  `json:"dueDate,string,omitempty"` // unix nanoseconds, 0 when unset
}

// OnboardingStage is one grouping of cards as the backend returns it. The
// grouping boundaries are advisory only; the pipeline normalizer rebuckets
// cards by their step number.
type OnboardingStage struct {
	StageName string           `json:"stageName"`
	Cards     []OnboardingCard `json:"cards"`
}
