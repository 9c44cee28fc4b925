package models

import "time"

type Lane string

const (
	LaneGreen   Lane = "green"
	LaneYellow  Lane = "yellow"
	LaneRed     Lane = "red"
	LaneUnknown Lane = "unknown"
)

type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionFlag  Decision = "flag"
	DecisionBlock Decision = "block"
)

// Valid reports whether d is one of allow, flag, block.
func (d Decision) Valid() bool {
	switch d {
	case DecisionAllow, DecisionFlag, DecisionBlock:
		return true
	}
	return false
}

type ModerationStatus string

const (
	StatusPending       ModerationStatus = "pending"
	StatusApproved      ModerationStatus = "approved"
	StatusFlagged       ModerationStatus = "flagged"
	StatusRejected      ModerationStatus = "rejected"
	StatusNeedsRevision ModerationStatus = "needs_revision"
)

// ModerationRecord is embedded in a post and replaced wholesale on every
// moderation pass.
type ModerationRecord struct {
	Status     ModerationStatus `bson:"status" json:"status"`
	Lane       Lane             `bson:"lane" json:"lane"`
	Decision   Decision         `bson:"ai_decision" json:"decision"`
	Reason     string           `bson:"ai_reason" json:"reason"`
	Confidence int              `bson:"ai_confidence" json:"confidence"`
	Categories []string         `bson:"categories" json:"categories"`
	CheckedAt  time.Time        `bson:"checked_at" json:"checkedAt"`
}

type BusinessDetection struct {
	IsBusinessRelated           bool `bson:"is_business_related" json:"isBusinessRelated"`
	IsOutsideBusiness           bool `bson:"is_outside_business" json:"isOutsideBusiness"`
	IsNeighborMicroEntrepreneur bool `bson:"is_neighbor_micro_entrepreneur" json:"isNeighborMicroEntrepreneur"`
	HasCommercialLinks          bool `bson:"has_commercial_links" json:"hasCommercialLinks"`
	PromotionalScore            int  `bson:"promotional_score" json:"promotionalScore"`
	PostFrequency               int  `bson:"post_frequency" json:"postFrequency"`
}

// ClassifierBusiness is the classifier's own reading of the business
// signals, stored next to the heuristic snapshot.
type ClassifierBusiness struct {
	IsBusinessRelated      bool `bson:"is_business_related" json:"is_business_related"`
	IsNeighborEntrepreneur bool `bson:"is_neighbor_entrepreneur" json:"is_neighbor_entrepreneur"`
	IsOutsideBusiness      bool `bson:"is_outside_business" json:"is_outside_business"`
	PromotionalScore       int  `bson:"promotional_score" json:"promotional_score"`
}
