package services_test

import (
	"context"
	"testing"

	"github.com/mentormesh/mentormesh-api/config"
	"github.com/mentormesh/mentormesh-api/internal/models"
	"github.com/mentormesh/mentormesh-api/internal/services"
	apperrors "github.com/mentormesh/mentormesh-api/pkg/errors"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func defaultWeights() config.MatchingConfig {
	return config.MatchingConfig{
		SkillOverlapWeight: 10,
		LocationWeight:     3,
		InPersonWeight:     2,
		AvailabilityWeight: 5,
		SuggestionBatchK:   3,
	}
}

var (
	skillGo     = models.Skill{ID: 1, Name: "Go", Slug: "go"}
	skillSQL    = models.Skill{ID: 2, Name: "SQL", Slug: "sql"}
	skillRust   = models.Skill{ID: 3, Name: "Rust", Slug: "rust"}
	skillDesign = models.Skill{ID: 4, Name: "Design", Slug: "design"}
)

func seekerWantingGo() *models.User {
	return &models.User{
		ID:           100,
		Email:        "seeker@example.com",
		Name:         "Seeker",
		MenteeSkills: []models.Skill{skillGo, skillSQL},
	}
}

func TestScoreCandidates_InvalidRole(t *testing.T) {
	svc := services.NewMatchingService(new(MockUserRepository), new(MockSuggestionStore), notify.NoopNotifier{}, defaultWeights())

	_, err := svc.ScoreCandidates(context.Background(), 100, models.MatchRole("observer"))

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestScoreCandidates_ExcludesCandidatesWithoutSkillOverlap(t *testing.T) {
	mockUsers := new(MockUserRepository)
	seeker := seekerWantingGo()

	pool := []models.User{
		{ID: 1, Name: "Overlapping", MentorSkills: []models.Skill{skillGo}},
		{ID: 2, Name: "No overlap", MentorSkills: []models.Skill{skillRust, skillDesign}},
		{ID: 3, Name: "No skills at all"},
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentor).Return(pool, nil)

	svc := services.NewMatchingService(mockUsers, new(MockSuggestionStore), notify.NoopNotifier{}, defaultWeights())
	candidates, err := svc.ScoreCandidates(context.Background(), 100, models.MatchRoleMentor)

	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, int64(1), candidates[0].User.ID)
	mockUsers.AssertExpectations(t)
}

func TestScoreCandidates_SingleSharedSkillBaseScore(t *testing.T) {
	mockUsers := new(MockUserRepository)
	seeker := seekerWantingGo()

	// One shared skill, different location, no in-person preference, no
	// declared availability on either side
	pool := []models.User{
		{ID: 1, Location: "Berlin", MentorSkills: []models.Skill{skillGo}},
	}
	seeker.Location = "Lisbon"

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentor).Return(pool, nil)

	svc := services.NewMatchingService(mockUsers, new(MockSuggestionStore), notify.NoopNotifier{}, defaultWeights())
	candidates, err := svc.ScoreCandidates(context.Background(), 100, models.MatchRoleMentor)

	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, 10.0, candidates[0].Score)
	assert.Len(t, candidates[0].SharedSkills, 1)
	assert.Equal(t, skillGo.ID, candidates[0].SharedSkills[0].ID)
	assert.False(t, candidates[0].LocationMatch)
	assert.False(t, candidates[0].InPersonMatch)
	assert.Zero(t, candidates[0].AvailabilityConflict)
}

func TestScoreCandidates_LocationAndInPersonBonuses(t *testing.T) {
	mockUsers := new(MockUserRepository)
	seeker := seekerWantingGo()
	seeker.Location = "Lisbon"
	seeker.PrefersInPerson = true

	pool := []models.User{
		// Case-insensitive location match plus shared in-person preference
		{ID: 1, Location: "LISBON", PrefersInPerson: true, MentorSkills: []models.Skill{skillGo}},
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentor).Return(pool, nil)

	svc := services.NewMatchingService(mockUsers, new(MockSuggestionStore), notify.NoopNotifier{}, defaultWeights())
	candidates, err := svc.ScoreCandidates(context.Background(), 100, models.MatchRoleMentor)

	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	// 10*1 shared + 3 location + 2 in-person
	assert.Equal(t, 15.0, candidates[0].Score)
	assert.True(t, candidates[0].LocationMatch)
	assert.True(t, candidates[0].InPersonMatch)
}

func TestScoreCandidates_AvailabilityConflictPenalty(t *testing.T) {
	mockUsers := new(MockUserRepository)
	seeker := seekerWantingGo()
	// Monday 09:00-11:00, 120 minutes total
	seeker.Availability = []models.AvailabilityWindow{
		{Day: 1, StartMinute: 540, EndMinute: 660},
	}

	pool := []models.User{
		// Fully disjoint schedule: conflict 1, penalty 5
		{ID: 1, MentorSkills: []models.Skill{skillGo}, Availability: []models.AvailabilityWindow{
			{Day: 3, StartMinute: 540, EndMinute: 660},
		}},
		// The candidate's whole hour fits inside the seeker's window
		{ID: 2, MentorSkills: []models.Skill{skillGo}, Availability: []models.AvailabilityWindow{
			{Day: 1, StartMinute: 600, EndMinute: 660},
		}},
		// No declared availability: fully flexible, no penalty
		{ID: 3, MentorSkills: []models.Skill{skillGo}},
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentor).Return(pool, nil)

	svc := services.NewMatchingService(mockUsers, new(MockSuggestionStore), notify.NoopNotifier{}, defaultWeights())
	candidates, err := svc.ScoreCandidates(context.Background(), 100, models.MatchRoleMentor)

	assert.NoError(t, err)
	assert.Len(t, candidates, 3)

	byID := make(map[int64]models.Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.User.ID] = c
	}

	assert.Equal(t, 1.0, byID[1].AvailabilityConflict)
	assert.Equal(t, 5.0, byID[1].Score)

	// 60 of candidate 2's 60 minutes overlap, but the seeker's 120-minute
	// week is the larger side, so the conflict is measured against the
	// candidate's 60 minutes
	assert.Equal(t, 0.0, byID[2].AvailabilityConflict)
	assert.Equal(t, 10.0, byID[2].Score)

	assert.Equal(t, 0.0, byID[3].AvailabilityConflict)
	assert.Equal(t, 10.0, byID[3].Score)
}

func TestScoreCandidates_OrderedByScoreThenID(t *testing.T) {
	mockUsers := new(MockUserRepository)
	seeker := seekerWantingGo()
	seeker.Location = "Lisbon"

	pool := []models.User{
		{ID: 5, MentorSkills: []models.Skill{skillGo}},                               // 10
		{ID: 2, MentorSkills: []models.Skill{skillGo, skillSQL}},                     // 20
		{ID: 9, MentorSkills: []models.Skill{skillGo}},                               // 10, tie with 5
		{ID: 7, Location: "Lisbon", MentorSkills: []models.Skill{skillGo, skillSQL}}, // 23
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentor).Return(pool, nil)

	svc := services.NewMatchingService(mockUsers, new(MockSuggestionStore), notify.NoopNotifier{}, defaultWeights())
	candidates, err := svc.ScoreCandidates(context.Background(), 100, models.MatchRoleMentor)

	assert.NoError(t, err)
	assert.Len(t, candidates, 4)

	gotIDs := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		gotIDs = append(gotIDs, c.User.ID)
	}
	assert.Equal(t, []int64{7, 2, 5, 9}, gotIDs)
}

func TestScoreCandidates_MenteeRoleUsesMentorSkills(t *testing.T) {
	mockUsers := new(MockUserRepository)
	seeker := &models.User{
		ID:           100,
		MentorSkills: []models.Skill{skillRust},
	}

	pool := []models.User{
		{ID: 1, MenteeSkills: []models.Skill{skillRust}},
		{ID: 2, MentorSkills: []models.Skill{skillRust}}, // offers but does not want it
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentee).Return(pool, nil)

	svc := services.NewMatchingService(mockUsers, new(MockSuggestionStore), notify.NoopNotifier{}, defaultWeights())
	candidates, err := svc.ScoreCandidates(context.Background(), 100, models.MatchRoleMentee)

	assert.NoError(t, err)
	assert.Len(t, candidates, 1)
	assert.Equal(t, int64(1), candidates[0].User.ID)
}

func TestGenerateSuggestions_TopKSkippingConflicts(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSuggestions := new(MockSuggestionStore)
	notifier := &recordingNotifier{}
	seeker := seekerWantingGo()

	pool := []models.User{
		{ID: 1, MentorSkills: []models.Skill{skillGo, skillSQL}}, // 20
		{ID: 2, MentorSkills: []models.Skill{skillGo}},           // 10
		{ID: 3, MentorSkills: []models.Skill{skillGo}},           // 10
		{ID: 4, MentorSkills: []models.Skill{skillGo}},           // 10
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentor).Return(pool, nil)

	// Seeking a mentor, so the candidate takes the mentor side of the pair
	mockSuggestions.On("CreateSuggestion", mock.Anything, int64(1), int64(100), 20.0).
		Return(&models.Suggestion{ID: 11, MentorID: 1, MenteeID: 100, Status: models.SuggestionPending}, nil)
	// A pending suggestion already exists for this pair; skipped, not fatal
	mockSuggestions.On("CreateSuggestion", mock.Anything, int64(2), int64(100), 10.0).
		Return(nil, apperrors.ConflictError("a pending suggestion already exists for this pair"))
	mockSuggestions.On("CreateSuggestion", mock.Anything, int64(3), int64(100), 10.0).
		Return(&models.Suggestion{ID: 12, MentorID: 3, MenteeID: 100, Status: models.SuggestionPending}, nil)
	mockSuggestions.On("CreateSuggestion", mock.Anything, int64(4), int64(100), 10.0).
		Return(&models.Suggestion{ID: 13, MentorID: 4, MenteeID: 100, Status: models.SuggestionPending}, nil)

	svc := services.NewMatchingService(mockUsers, mockSuggestions, notifier, defaultWeights())
	created, err := svc.GenerateSuggestions(context.Background(), 100, models.MatchRoleMentor)

	assert.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Equal(t, int64(11), created[0].ID)
	assert.Equal(t, int64(12), created[1].ID)
	assert.Equal(t, int64(13), created[2].ID)

	// The candidates, not the requester, get notified
	events := notifier.Events()
	assert.Len(t, events, 3)
	assert.Equal(t, "1", events[0].UserID)
	assert.Equal(t, notify.EventSuggestionCreated, events[0].Event)

	mockSuggestions.AssertExpectations(t)
}

func TestGenerateSuggestions_StopsAtBatchLimit(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSuggestions := new(MockSuggestionStore)
	seeker := seekerWantingGo()

	pool := []models.User{
		{ID: 1, MentorSkills: []models.Skill{skillGo}},
		{ID: 2, MentorSkills: []models.Skill{skillGo}},
		{ID: 3, MentorSkills: []models.Skill{skillGo}},
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentor).Return(pool, nil)
	mockSuggestions.On("CreateSuggestion", mock.Anything, int64(1), int64(100), 10.0).
		Return(&models.Suggestion{ID: 21, MentorID: 1, MenteeID: 100, Status: models.SuggestionPending}, nil)

	weights := defaultWeights()
	weights.SuggestionBatchK = 1

	svc := services.NewMatchingService(mockUsers, mockSuggestions, notify.NoopNotifier{}, weights)
	created, err := svc.GenerateSuggestions(context.Background(), 100, models.MatchRoleMentor)

	assert.NoError(t, err)
	assert.Len(t, created, 1)
	mockSuggestions.AssertNumberOfCalls(t, "CreateSuggestion", 1)
}

func TestGenerateSuggestions_MenteeRoleKeepsRequesterAsMentor(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSuggestions := new(MockSuggestionStore)
	seeker := &models.User{ID: 100, MentorSkills: []models.Skill{skillGo}}

	pool := []models.User{
		{ID: 7, MenteeSkills: []models.Skill{skillGo}},
	}

	mockUsers.On("GetByID", mock.Anything, int64(100)).Return(seeker, nil)
	mockUsers.On("GetCandidates", mock.Anything, int64(100), models.MatchRoleMentee).Return(pool, nil)
	mockSuggestions.On("CreateSuggestion", mock.Anything, int64(100), int64(7), 10.0).
		Return(&models.Suggestion{ID: 31, MentorID: 100, MenteeID: 7, Status: models.SuggestionPending}, nil)

	svc := services.NewMatchingService(mockUsers, mockSuggestions, notify.NoopNotifier{}, defaultWeights())
	created, err := svc.GenerateSuggestions(context.Background(), 100, models.MatchRoleMentee)

	assert.NoError(t, err)
	assert.Len(t, created, 1)
	mockSuggestions.AssertExpectations(t)
}
