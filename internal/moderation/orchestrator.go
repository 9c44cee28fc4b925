package moderation

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ualiu/neighbours-only/internal/utils"
)

const postWindow = 24 * time.Hour

// Orchestrator moderates new posts. It does not persist anything.
type Orchestrator struct {
	log        *zap.Logger
	activity   ActivityReader
	classifier Classifier
	timeout    time.Duration
	now        func() time.Time
}

func NewOrchestrator(log *zap.Logger, activity ActivityReader, classifier Classifier, timeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:        log.With(zap.String("module", "moderation")),
		activity:   activity,
		classifier: classifier,
		timeout:    timeout,
		now:        time.Now,
	}
}

// ModerateNewPost gathers author context, scores the text and asks the
// classifier for a verdict. Classifier failures fail open.
func (o *Orchestrator) ModerateNewPost(ctx context.Context, text string, imageRef *string, userID bson.ObjectID) Verdict {
	uc := o.userContext(ctx, userID)

	business := ComputeBusinessSignals(text, SignalContext{
		PostFrequency:      uc.PostFrequency,
		AccountAgeDays:     uc.AccountAgeDays,
		HasVerifiedAddress: uc.AddressVerified,
	})

	log := o.log.With(zap.String("user_id", userID.Hex()))
	log.Debug("moderation started",
		zap.Int("post_count_24h", uc.PostFrequency),
		zap.Float64("account_age_days", uc.AccountAgeDays),
		zap.Bool("address_verified", uc.AddressVerified),
		zap.Int("promotional_score", business.PromotionalScore))

	v := ClassifyOrFailOpen(ctx, log, o.classifier, o.timeout, ClassifyRequest{
		Text:          text,
		ImageRef:      imageRef,
		User:          uc,
		Business:      business,
		ProfanityHits: utils.CountProfanity(text),
	})

	log.Info("moderation complete",
		zap.String("lane", string(v.Lane)),
		zap.String("decision", string(v.Decision)),
		zap.Int("confidence", v.Confidence),
		zap.Bool("fallback", v.Failed))
	return v
}

// userContext reads post frequency and the author concurrently. Lookup
// failures degrade to zero values; they never block posting.
func (o *Orchestrator) userContext(ctx context.Context, userID bson.ObjectID) UserContext {
	var (
		uc    UserContext
		g     errgroup.Group
		now   = o.now()
		count int64
	)
	g.Go(func() error {
		n, err := o.activity.CountPostsSince(ctx, userID, now.Add(-postWindow))
		if err != nil {
			o.log.Warn("count recent posts failed", zap.Error(err))
			return nil
		}
		count = n
		return nil
	})
	g.Go(func() error {
		u, err := o.activity.FindUser(ctx, userID)
		if err != nil {
			o.log.Warn("load author failed", zap.Error(err))
			return nil
		}
		uc.AccountAgeDays = u.AccountAgeDays(now)
		uc.AddressVerified = u.HasVerifiedAddress()
		return nil
	})
	_ = g.Wait()
	uc.PostFrequency = int(count)
	return uc
}
