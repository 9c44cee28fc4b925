package moderation

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/ualiu/neighbours-only/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var codeFence = regexp.MustCompile("```(?:json)?\\s*")

type classifyWire struct {
	Lane               *string                    `json:"lane"`
	Decision           *string                    `json:"decision"`
	Confidence         *float64                   `json:"confidence"`
	Reason             *string                    `json:"reason"`
	Categories         []string                   `json:"categories"`
	BusinessDetection  *models.ClassifierBusiness `json:"business_detection"`
	UserMessage        string                     `json:"user_message"`
	RevisionSuggestion *string                    `json:"revision_suggestion"`
}

type reanalyzeWire struct {
	Lane            *string  `json:"lane"`
	Decision        *string  `json:"decision"`
	Confidence      *float64 `json:"confidence"`
	Reason          *string  `json:"reason"`
	Categories      []string `json:"categories"`
	ChangedDecision bool     `json:"changed_decision"`
	LearningNote    string   `json:"learning_note"`
	ActionTaken     string   `json:"action_taken"`
}

func stripFences(s string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(s, ""))
}

// parseClassification decodes and validates a classify response. The lane is
// taken from the decision so stored state can never disagree with itself.
func parseClassification(raw string) (Verdict, error) {
	var w classifyWire
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		return Verdict{}, fmt.Errorf("%w: %v", ErrInvalidClassifierResponse, err)
	}
	decision, confidence, reason, err := validateCore(w.Lane, w.Decision, w.Confidence, w.Reason)
	if err != nil {
		return Verdict{}, err
	}
	v := Verdict{
		Lane:               LaneFor(decision),
		Decision:           decision,
		Confidence:         confidence,
		Reason:             reason,
		Categories:         nonNil(w.Categories),
		UserMessage:        w.UserMessage,
		ClassifierBusiness: w.BusinessDetection,
	}
	if w.RevisionSuggestion != nil && strings.TrimSpace(*w.RevisionSuggestion) != "" {
		s := *w.RevisionSuggestion
		v.RevisionSuggestion = &s
	}
	return v, nil
}

func parseReanalysis(raw string) (ReanalysisVerdict, error) {
	var w reanalyzeWire
	if err := json.Unmarshal([]byte(stripFences(raw)), &w); err != nil {
		return ReanalysisVerdict{}, fmt.Errorf("%w: %v", ErrInvalidClassifierResponse, err)
	}
	decision, confidence, reason, err := validateCore(w.Lane, w.Decision, w.Confidence, w.Reason)
	if err != nil {
		return ReanalysisVerdict{}, err
	}
	return ReanalysisVerdict{
		Lane:            LaneFor(decision),
		Decision:        decision,
		Confidence:      confidence,
		Reason:          reason,
		Categories:      nonNil(w.Categories),
		ChangedDecision: w.ChangedDecision,
		LearningNote:    w.LearningNote,
		ActionTaken:     w.ActionTaken,
	}, nil
}

func validateCore(lane, decision *string, confidence *float64, reason *string) (models.Decision, int, string, error) {
	if lane == nil || decision == nil || confidence == nil || reason == nil {
		return "", 0, "", fmt.Errorf("%w: missing lane, decision, confidence or reason", ErrInvalidClassifierResponse)
	}
	switch models.Lane(*lane) {
	case models.LaneGreen, models.LaneYellow, models.LaneRed:
	default:
		return "", 0, "", fmt.Errorf("%w: unknown lane %q", ErrInvalidClassifierResponse, *lane)
	}
	d := models.Decision(*decision)
	if !d.Valid() {
		return "", 0, "", fmt.Errorf("%w: unknown decision %q", ErrInvalidClassifierResponse, *decision)
	}
	c := *confidence
	if math.IsNaN(c) || c < 0 || c > 100 {
		return "", 0, "", fmt.Errorf("%w: confidence %v out of range", ErrInvalidClassifierResponse, c)
	}
	return d, int(math.Round(c)), *reason, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
