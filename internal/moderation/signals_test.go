package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeBusinessSignals(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		sc              SignalContext
		wantScore       int
		wantOutside     bool
		wantMicro       bool
		wantLinks       bool
		wantBusinessRel bool
	}{
		{
			name:            "plumber question from a new verified neighbor",
			text:            "Anyone know a good plumber?",
			sc:              SignalContext{PostFrequency: 0, AccountAgeDays: 2, HasVerifiedAddress: true},
			wantScore:       20,
			wantBusinessRel: true,
		},
		{
			name:      "established neighbor offering help",
			text:      "If anyone needs a hand moving boxes this weekend, happy to help",
			sc:        SignalContext{PostFrequency: 1, AccountAgeDays: 400, HasVerifiedAddress: true},
			wantScore: 0,
			wantMicro: true,
		},
		{
			name:            "outside business on its sixth post today",
			text:            "Call now! Special offer on roofing, 555-123-4567 or visit https://roofs.example.com",
			sc:              SignalContext{PostFrequency: 5, AccountAgeDays: 90, HasVerifiedAddress: true},
			wantScore:       95,
			wantOutside:     true,
			wantLinks:       true,
			wantBusinessRel: true,
		},
		{
			name:            "business and sales terms with frequent posting",
			text:            "Licensed cleaning, book this week",
			sc:              SignalContext{PostFrequency: 3, AccountAgeDays: 365, HasVerifiedAddress: true},
			wantScore:       15 + 30 + 20,
			wantOutside:     true,
			wantBusinessRel: true,
		},
		{
			name:            "spamming brand new unverified account",
			text:            "hello",
			sc:              SignalContext{PostFrequency: 6, AccountAgeDays: 1, HasVerifiedAddress: false},
			wantScore:       40 + 20 + 15,
			wantOutside:     true,
			wantBusinessRel: true,
		},
		{
			name:            "micro offer suppressed by score",
			text:            "I do lawn care, call 555.123.4567",
			sc:              SignalContext{PostFrequency: 0, AccountAgeDays: 10, HasVerifiedAddress: true},
			wantScore:       20 + 10,
			wantLinks:       true,
			wantBusinessRel: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBusinessSignals(tt.text, tt.sc)
			assert.Equal(t, tt.wantScore, got.PromotionalScore)
			assert.Equal(t, tt.wantOutside, got.IsOutsideBusiness)
			assert.Equal(t, tt.wantMicro, got.IsNeighborMicroEntrepreneur)
			assert.Equal(t, tt.wantLinks, got.HasCommercialLinks)
			assert.Equal(t, tt.wantBusinessRel, got.IsBusinessRelated)
			assert.Equal(t, tt.sc.PostFrequency, got.PostFrequency)
		})
	}
}

func TestComputeBusinessSignalsIsPure(t *testing.T) {
	text := "Professional services, www.example.com, DM for rates"
	sc := SignalContext{PostFrequency: 4, AccountAgeDays: 12}
	first := ComputeBusinessSignals(text, sc)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ComputeBusinessSignals(text, sc))
	}
}

func TestOutsideBusinessWheneverScoreReachesSixty(t *testing.T) {
	texts := map[string]bool{}
	for mask := 0; mask < 16; mask++ {
		text := "note"
		if mask&1 != 0 {
			text += " 555-123-4567"
		}
		if mask&2 != 0 {
			text += " www.example.com"
		}
		if mask&4 != 0 {
			text += " licensed"
		}
		if mask&8 != 0 {
			text += " limited time"
		}
		texts[text] = true
	}
	for text := range texts {
		for _, freq := range []int{0, 2, 3, 5, 6, 12} {
			for _, age := range []float64{0, 6.9, 7, 29.5, 30, 900} {
				for _, verified := range []bool{true, false} {
					got := ComputeBusinessSignals(text, SignalContext{PostFrequency: freq, AccountAgeDays: age, HasVerifiedAddress: verified})
					if got.PromotionalScore >= 60 {
						assert.True(t, got.IsOutsideBusiness, "text=%q freq=%d age=%v verified=%v", text, freq, age, verified)
					}
					if got.IsNeighborMicroEntrepreneur {
						assert.Less(t, got.PromotionalScore, 30)
					}
				}
			}
		}
	}
}
