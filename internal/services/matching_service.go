package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mentormesh/mentormesh-api/config"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/repository"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
	"go.uber.org/zap"
)

// MatchingService scores match candidates and turns the best ones into
// suggestions. Scores are recomputed fresh on every call; profiles and
// availability change too often for cached results to be trustworthy.
type MatchingService struct {
	users       repository.UserRepositoryInterface
	suggestions repository.SuggestionStore
	notifier    notify.Notifier
	weights     config.MatchingConfig
}

// NewMatchingService creates a new MatchingService
func NewMatchingService(
	users repository.UserRepositoryInterface,
	suggestions repository.SuggestionStore,
	notifier notify.Notifier,
	weights config.MatchingConfig,
) *MatchingService {
	return &MatchingService{
		users:       users,
		suggestions: suggestions,
		notifier:    notifier,
		weights:     weights,
	}
}

// ScoreCandidates returns scored candidates for the seeker, ordered by
// score descending with ties broken by ascending candidate id.
func (s *MatchingService) ScoreCandidates(ctx context.Context, seekerID int64, role models.MatchRole) ([]models.Candidate, error) {
	start := time.Now()

	if !role.Valid() {
		return nil, apperrors.InvalidInputError("role", "must be mentor or mentee")
	}

	seeker, err := s.users.GetByID(ctx, seekerID)
	if err != nil {
		return nil, err
	}

	pool, err := s.users.GetCandidates(ctx, seekerID, role)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.Candidate, 0, len(pool))
	for i := range pool {
		candidate, ok := s.score(seeker, &pool[i], role)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].User.ID < candidates[j].User.ID
	})

	metrics.MatchScoringDuration.Observe(metrics.MeasureDuration(start))
	metrics.MatchCandidatesReturned.WithLabelValues(string(role)).Observe(float64(len(candidates)))

	logger.Info("Candidates scored",
		zap.Int64("user_id", seekerID),
		zap.String("role", string(role)),
		zap.Int("count", len(candidates)),
		zap.Duration("duration", time.Since(start)))

	return candidates, nil
}

// score computes a single candidate's score. Returns ok=false when the
// candidate has no skill overlap with the seeker: no shared skill means
// no basis for a match regardless of the other components.
func (s *MatchingService) score(seeker, candidate *models.User, role models.MatchRole) (models.Candidate, bool) {
	var wantedSkills, offeredSkills []models.Skill
	if role == models.MatchRoleMentor {
		wantedSkills = seeker.MenteeSkills
		offeredSkills = candidate.MentorSkills
	} else {
		wantedSkills = seeker.MentorSkills
		offeredSkills = candidate.MenteeSkills
	}

	shared := sharedSkills(wantedSkills, offeredSkills)
	if len(shared) == 0 {
		return models.Candidate{}, false
	}

	locationMatch := seeker.Location != "" &&
		strings.EqualFold(seeker.Location, candidate.Location)
	inPersonMatch := seeker.PrefersInPerson && candidate.PrefersInPerson
	conflict := availabilityConflict(seeker.Availability, candidate.Availability)

	score := s.weights.SkillOverlapWeight * float64(len(shared))
	explanation := []string{
		fmt.Sprintf("%d shared skill(s)", len(shared)),
	}
	if locationMatch {
		score += s.weights.LocationWeight
		explanation = append(explanation, "same location")
	}
	if inPersonMatch {
		score += s.weights.InPersonWeight
		explanation = append(explanation, "both prefer in-person sessions")
	}
	if conflict > 0 {
		score -= s.weights.AvailabilityWeight * conflict
		explanation = append(explanation, fmt.Sprintf("schedule conflict %.0f%%", conflict*100))
	}

	return models.Candidate{
		User:                 *candidate,
		Score:                score,
		SharedSkills:         shared,
		LocationMatch:        locationMatch,
		InPersonMatch:        inPersonMatch,
		AvailabilityConflict: conflict,
		Explanation:          explanation,
	}, true
}

// sharedSkills intersects two skill lists by id, keeping the order of
// the first list.
func sharedSkills(a, b []models.Skill) []models.Skill {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	ids := make(map[int64]struct{}, len(b))
	for _, skill := range b {
		ids[skill.ID] = struct{}{}
	}

	var shared []models.Skill
	for _, skill := range a {
		if _, ok := ids[skill.ID]; ok {
			shared = append(shared, skill)
		}
	}
	return shared
}

// availabilityConflict measures how badly two weekly schedules miss
// each other: 1 - (overlapping minutes / smaller party's total
// minutes), clamped to [0,1]. A party with no declared availability is
// treated as fully flexible, so the conflict is zero.
func availabilityConflict(a, b []models.AvailabilityWindow) float64 {
	totalA := totalMinutes(a)
	totalB := totalMinutes(b)
	if totalA == 0 || totalB == 0 {
		return 0
	}

	overlap := 0
	for _, wa := range a {
		for _, wb := range b {
			overlap += wa.Overlap(wb)
		}
	}

	smaller := totalA
	if totalB < smaller {
		smaller = totalB
	}

	conflict := 1 - float64(overlap)/float64(smaller)
	if conflict < 0 {
		return 0
	}
	if conflict > 1 {
		return 1
	}
	return conflict
}

func totalMinutes(windows []models.AvailabilityWindow) int {
	total := 0
	for _, w := range windows {
		total += w.Duration()
	}
	return total
}

// GenerateSuggestions scores candidates for the user and persists
// suggestions for the top K. Pairs that already carry a pending
// suggestion or an open mentorship conflict at insert time and are
// skipped without aborting the batch.
func (s *MatchingService) GenerateSuggestions(ctx context.Context, userID int64, role models.MatchRole) ([]models.Suggestion, error) {
	candidates, err := s.ScoreCandidates(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	created := make([]models.Suggestion, 0, s.weights.SuggestionBatchK)
	for _, candidate := range candidates {
		if len(created) >= s.weights.SuggestionBatchK {
			break
		}

		mentorID, menteeID := userID, candidate.User.ID
		if role == models.MatchRoleMentor {
			mentorID, menteeID = candidate.User.ID, userID
		}

		suggestion, err := s.suggestions.CreateSuggestion(ctx, mentorID, menteeID, candidate.Score)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrConflict) {
				metrics.SuggestionsCreated.WithLabelValues("conflict").Inc()
				continue
			}
			return nil, err
		}

		metrics.SuggestionsCreated.WithLabelValues("success").Inc()
		s.notifier.Notify(fmt.Sprintf("%d", candidate.User.ID), notify.EventSuggestionCreated, map[string]interface{}{
			"suggestion_id": suggestion.ID,
			"mentor_id":     suggestion.MentorID,
			"mentee_id":     suggestion.MenteeID,
		})

		created = append(created, *suggestion)
	}

	logger.Info("Suggestions generated",
		zap.Int64("user_id", userID),
		zap.String("role", string(role)),
		zap.Int("created", len(created)))

	return created, nil
}
