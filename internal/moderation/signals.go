package moderation

import (
	"regexp"

	"github.com/ualiu/neighbours-only/internal/models"
)

var (
	phonePattern      = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	websitePattern    = regexp.MustCompile(`(?i)https?://|www\.`)
	businessPattern   = regexp.MustCompile(`(?i)licensed|insured|professional|company|LLC|services`)
	salesPattern      = regexp.MustCompile(`(?i)call now|limited time|book|special offer|DM for`)
	microOfferPattern = regexp.MustCompile(`(?i)I do|happy to help|if anyone needs`)
)

// Signal weights. The score is additive and deliberately uncapped.
const (
	scorePhone          = 20
	scoreWebsite        = 25
	scoreBusinessTerms  = 15
	scoreSalesLanguage  = 30
	scoreSpamming       = 40
	scoreFrequent       = 20
	scoreBrandNew       = 20
	scoreNew            = 10
	scoreUnverifiedAddr = 15

	outsideBusinessScore = 60
	microEntrepreneurMax = 30
)

// SignalContext is what the extractor needs to know about the author.
type SignalContext struct {
	PostFrequency      int // posts in the trailing 24h
	AccountAgeDays     float64
	HasVerifiedAddress bool
}

// ComputeBusinessSignals scores text for promotional intent. It is pure and
// never fails; the result is advisory input for the classifier.
func ComputeBusinessSignals(text string, sc SignalContext) models.BusinessDetection {
	hasPhone := phonePattern.MatchString(text)
	hasWebsite := websitePattern.MatchString(text)
	hasBusinessTerms := businessPattern.MatchString(text)
	hasSalesLanguage := salesPattern.MatchString(text)

	score := 0
	if hasPhone {
		score += scorePhone
	}
	if hasWebsite {
		score += scoreWebsite
	}
	if hasBusinessTerms {
		score += scoreBusinessTerms
	}
	if hasSalesLanguage {
		score += scoreSalesLanguage
	}

	switch {
	case sc.PostFrequency >= 6:
		score += scoreSpamming
	case sc.PostFrequency >= 3:
		score += scoreFrequent
	}

	switch {
	case sc.AccountAgeDays < 7:
		score += scoreBrandNew
	case sc.AccountAgeDays < 30:
		score += scoreNew
	}

	if !sc.HasVerifiedAddress {
		score += scoreUnverifiedAddr
	}

	return models.BusinessDetection{
		IsBusinessRelated:           score > 0,
		IsNeighborMicroEntrepreneur: score < microEntrepreneurMax && microOfferPattern.MatchString(text),
		IsOutsideBusiness: score >= outsideBusinessScore ||
			(hasBusinessTerms && hasSalesLanguage && sc.PostFrequency >= 3),
		HasCommercialLinks: hasWebsite || hasPhone,
		PromotionalScore:   score,
		PostFrequency:      sc.PostFrequency,
	}
}
