// Package pipeline presents the onboarding kanban as a fixed, ordered
// six-stage board regardless of how the backend groups its cards.
package pipeline

import (
	"github.com/fes-crm/clientgate/internal/model"
)

// Stages are the six onboarding stages, indexed by step numbers 1..6.
var Stages = [...]string{
	"Initial Contact",
	"ID Collection",
	"KYC Screening",
	"Risk Assessment",
	"Compliance Review",
	"Account Activation",
}

// StageCount is the fixed width of the board.
const StageCount = len(Stages)

// StageName returns the stage for a step number, defaulting to the first
// stage for anything outside 1..6.
func StageName(stepNumber int) string {
	if stepNumber >= 1 && stepNumber <= StageCount {
		return Stages[stepNumber-1]
	}
	return Stages[0]
}

// Column is one normalized board column.
type Column struct {
	StageName  string                 `json:"stageName"`
	StepNumber int                    `json:"stepNumber"`
	Cards      []model.OnboardingCard `json:"cards"`
}

// Normalize rebuckets the backend's arbitrary stage groupings into exactly
// six ordered columns. The backend grouping boundaries are discarded: column
// k holds every card, from every grouping, whose step number equals k, in
// the order the cards were encountered while scanning the groupings. A card
// with a step number outside 1..6 appears in no column.
func Normalize(remote []model.OnboardingStage) []Column {
	columns := make([]Column, StageCount)
	for i := range columns {
		columns[i] = Column{
			StageName:  Stages[i],
			StepNumber: i + 1,
			Cards:      []model.OnboardingCard{},
		}
	}

	for _, stage := range remote {
		for _, card := range stage.Cards {
			if card.StepNumber < 1 || card.StepNumber > StageCount {
				continue
			}
			col := &columns[card.StepNumber-1]
			col.Cards = append(col.Cards, card)
		}
	}

	return columns
}
