package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"favorx_backend/internal/cache"
	"favorx_backend/internal/config"
	"favorx_backend/internal/logger"
	"favorx_backend/internal/repositories"
	"favorx_backend/internal/services/dto"

	"golang.org/x/sync/errgroup"
)

// initialKarma seeds the rating, completion and consistency sub-scores for
// users with no relevant history. Activity has no such seed: a user who did
// nothing in the window scores zero there, which is why a brand-new account
// lands at 2.55 rather than 3.0.
const initialKarma = 3.0

const karmaCacheKeyPrefix = "karma:"

var ErrKarmaWeightsInvalid = errors.New("karma sub-score weights must sum to 1.0")

type KarmaService interface {
	GetUserKarma(ctx context.Context, userID string) (*dto.KarmaResponse, error)
	GetKarmaBreakdown(ctx context.Context, userID string) (*dto.KarmaBreakdownResponse, error)
	UpdateUserKarma(ctx context.Context, userID string) (float64, error)
	InvalidateUserKarma(ctx context.Context, userID string) error
	RecomputeActiveUsers(ctx context.Context) (*dto.KarmaRecomputeResponse, error)
}

type karmaService struct {
	ratingRepo repositories.RatingRepository
	skillRepo  repositories.SkillRepository
	userRepo   repositories.UserRepository
	cache      cache.Cache
	now        func() time.Time
}

func NewKarmaService(
	ratingRepo repositories.RatingRepository,
	skillRepo repositories.SkillRepository,
	userRepo repositories.UserRepository,
	cache cache.Cache,
) KarmaService {
	return &karmaService{
		ratingRepo: ratingRepo,
		skillRepo:  skillRepo,
		userRepo:   userRepo,
		cache:      cache,
		now:        time.Now,
	}
}

// NewKarmaServiceWithClock is the test constructor: decay and activity windows
// are computed against the injected clock instead of wall time.
func NewKarmaServiceWithClock(
	ratingRepo repositories.RatingRepository,
	skillRepo repositories.SkillRepository,
	userRepo repositories.UserRepository,
	cache cache.Cache,
	now func() time.Time,
) KarmaService {
	return &karmaService{
		ratingRepo: ratingRepo,
		skillRepo:  skillRepo,
		userRepo:   userRepo,
		cache:      cache,
		now:        now,
	}
}

// subScore tags a sub-score with whether it was derived from real history or
// fell back to the initial seed.
type subScore struct {
	value      float64
	hasHistory bool
}

// ---------------- Public API ----------------

func (s *karmaService) GetUserKarma(ctx context.Context, userID string) (*dto.KarmaResponse, error) {
	if cached, ok := s.readCachedKarma(ctx, userID); ok {
		return &dto.KarmaResponse{
			UserID:     userID,
			KarmaScore: cached,
			ComputedAt: s.now(),
			FromCache:  true,
		}, nil
	}

	score, _, err := s.computeKarma(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.writeCachedKarma(ctx, userID, score)

	return &dto.KarmaResponse{
		UserID:     userID,
		KarmaScore: score,
		ComputedAt: s.now(),
		FromCache:  false,
	}, nil
}

func (s *karmaService) GetKarmaBreakdown(ctx context.Context, userID string) (*dto.KarmaBreakdownResponse, error) {
	score, parts, err := s.computeKarma(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.KarmaBreakdownResponse{
		UserID:         userID,
		KarmaScore:     score,
		WeightedRating: round2(parts.rating.value),
		CompletionRate: round2(parts.completion.value),
		Consistency:    round2(parts.consistency.value),
		ActivityLevel:  round2(parts.activity.value),
	}, nil
}

// UpdateUserKarma recomputes the score, persists it on the user row and
// refreshes the cache. Callers invoke it after any event that feeds a
// sub-score (new rating, new review, new listing).
func (s *karmaService) UpdateUserKarma(ctx context.Context, userID string) (float64, error) {
	score, _, err := s.computeKarma(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.userRepo.UpdateKarma(userID, score); err != nil {
		return 0, fmt.Errorf("persist karma for user %s: %w", userID, err)
	}
	s.writeCachedKarma(ctx, userID, score)

	logger.CtxDebug(ctx, "karma updated", "user_id", userID, "score", score)
	return score, nil
}

func (s *karmaService) InvalidateUserKarma(ctx context.Context, userID string) error {
	return s.cache.Delete(ctx, karmaCacheKey(userID))
}

// RecomputeActiveUsers refreshes karma for every user with activity inside
// the activity window. A single failing user is logged and skipped; the
// sweep keeps going.
func (s *karmaService) RecomputeActiveUsers(ctx context.Context) (*dto.KarmaRecomputeResponse, error) {
	cfg := config.GetConfig().Karma
	cutoff := s.now().AddDate(0, 0, -cfg.ActivityWindow)

	ids, err := s.userRepo.FindRecentlyActiveIDs(cutoff)
	if err != nil {
		return nil, fmt.Errorf("list recently active users: %w", err)
	}

	resp := &dto.KarmaRecomputeResponse{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return resp, err
		}
		if _, err := s.UpdateUserKarma(ctx, id); err != nil {
			logger.CtxWithError(ctx, "karma recompute failed", err, "user_id", id)
			resp.Failed++
			continue
		}
		resp.Processed++
	}
	return resp, nil
}

// ---------------- Composition ----------------

type karmaParts struct {
	rating      subScore
	completion  subScore
	consistency subScore
	activity    subScore
}

// computeKarma fans the four sub-score computations out concurrently and
// composes them into the final weighted score. All-or-nothing: any sub-score
// failure fails the whole computation.
func (s *karmaService) computeKarma(ctx context.Context, userID string) (float64, *karmaParts, error) {
	cfg := config.GetConfig().Karma
	if err := validateKarmaWeights(cfg); err != nil {
		return 0, nil, err
	}

	var parts karmaParts

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		parts.rating, err = s.weightedRating(userID, cfg.DecayDays)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		parts.completion, err = s.completionRate(userID)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		parts.consistency, err = s.consistency(userID)
		return err
	})
	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		var err error
		parts.activity, err = s.activityLevel(userID, cfg.ActivityWindow)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, nil, fmt.Errorf("compute karma for user %s: %w", userID, err)
	}

	if !parts.rating.hasHistory && !parts.completion.hasHistory && !parts.consistency.hasHistory {
		logger.CtxDebug(ctx, "karma computed from initial seeds", "user_id", userID)
	}

	score := cfg.RatingWeight*parts.rating.value +
		cfg.CompletionWeight*parts.completion.value +
		cfg.ConsistencyWeight*parts.consistency.value +
		cfg.ActivityWeight*parts.activity.value

	return round2(score), &parts, nil
}

// ---------------- Sub-scores ----------------

// weightedRating averages received ratings with exponential recency decay:
// a rating ageDays old contributes with weight e^(-ageDays/decayDays).
func (s *karmaService) weightedRating(userID string, decayDays float64) (subScore, error) {
	samples, err := s.ratingRepo.ListRatingsReceived(userID)
	if err != nil {
		return subScore{}, fmt.Errorf("load received ratings: %w", err)
	}
	if len(samples) == 0 {
		return subScore{value: initialKarma}, nil
	}

	now := s.now()
	var weightedSum, weightTotal float64
	for _, sample := range samples {
		ageDays := now.Sub(sample.CreatedAt).Hours() / 24
		weight := math.Exp(-ageDays / decayDays)
		weightedSum += weight * float64(sample.Rating)
		weightTotal += weight
	}
	return subScore{value: weightedSum / weightTotal, hasHistory: true}, nil
}

// completionRate scores how the user's own listings were rated: the share of
// ratings >= 4 across all favors on their listings, scaled to 0..5.
func (s *karmaService) completionRate(userID string) (subScore, error) {
	outcomes, err := s.ratingRepo.CountFavorOutcomes(userID)
	if err != nil {
		return subScore{}, fmt.Errorf("count favor outcomes: %w", err)
	}
	if outcomes.Total == 0 {
		return subScore{value: initialKarma}, nil
	}
	value := float64(outcomes.Successful) / float64(outcomes.Total) * 5
	return subScore{value: value, hasHistory: true}, nil
}

// consistency rewards a stable received-rating distribution: a tight spread
// amplifies the average, a wide one dampens it. Capped at 5.
func (s *karmaService) consistency(userID string) (subScore, error) {
	stats, err := s.ratingRepo.Stats(userID)
	if err != nil {
		return subScore{}, fmt.Errorf("load rating stats: %w", err)
	}
	if stats == nil {
		return subScore{value: initialKarma}, nil
	}

	// Single rating: postgres STDDEV is NULL, treated as perfect consistency.
	stddev := 0.0
	if stats.Stddev != nil {
		stddev = *stats.Stddev
	}
	value := math.Min(5, stats.Avg*(1+(1-stddev/2)))
	return subScore{value: value, hasHistory: true}, nil
}

// activityLevel counts karma-relevant events (ratings received, listings
// created) inside the window and maps 10 events to a full 5. No initial
// seed: silence scores zero.
func (s *karmaService) activityLevel(userID string, windowDays int) (subScore, error) {
	since := s.now().AddDate(0, 0, -windowDays)

	ratings, err := s.ratingRepo.CountReceivedSince(userID, since)
	if err != nil {
		return subScore{}, fmt.Errorf("count recent ratings: %w", err)
	}
	skills, err := s.skillRepo.CountCreatedSince(userID, since)
	if err != nil {
		return subScore{}, fmt.Errorf("count recent listings: %w", err)
	}

	events := ratings + skills
	value := math.Min(5, float64(events)/10*5)
	return subScore{value: value, hasHistory: events > 0}, nil
}

// ---------------- Cache ----------------

func (s *karmaService) readCachedKarma(ctx context.Context, userID string) (float64, bool) {
	raw, err := s.cache.Get(ctx, karmaCacheKey(userID))
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.CtxWarn(ctx, "karma cache read failed", "user_id", userID, "error", err)
		}
		return 0, false
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.CtxWarn(ctx, "karma cache holds unparsable value", "user_id", userID, "value", raw)
		_ = s.cache.Delete(ctx, karmaCacheKey(userID))
		return 0, false
	}
	return score, true
}

// writeCachedKarma is best-effort: a cache write failure never fails the
// computation that produced the score.
func (s *karmaService) writeCachedKarma(ctx context.Context, userID string, score float64) {
	cfg := config.GetConfig().Karma
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	value := strconv.FormatFloat(score, 'f', -1, 64)
	if err := s.cache.Set(ctx, karmaCacheKey(userID), value, ttl); err != nil {
		logger.CtxWarn(ctx, "karma cache write failed", "user_id", userID, "error", err)
	}
}

func karmaCacheKey(userID string) string {
	return karmaCacheKeyPrefix + userID
}

// ---------------- Helpers ----------------

func validateKarmaWeights(cfg config.KarmaConfig) error {
	sum := cfg.RatingWeight + cfg.CompletionWeight + cfg.ConsistencyWeight + cfg.ActivityWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("%w: got %.4f", ErrKarmaWeightsInvalid, sum)
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
