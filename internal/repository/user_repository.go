package repository

import (
	"context"

	"github.com/mentormesh/mentormesh-api/internal/models"
)

// UserRepositoryInterface defines user data access with skills hydrated
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetCandidates(ctx context.Context, callerID int64, role models.MatchRole) ([]models.User, error)
}

// UserRepository loads users together with their skill sets. Profile
// rows and skill links live in separate tables; this layer joins them
// into a single model the services can work with.
type UserRepository struct {
	store UserStore
}

// NewUserRepository creates a new user repository
func NewUserRepository(store UserStore) *UserRepository {
	return &UserRepository{store: store}
}

// GetByID fetches a user with mentor and mentee skills attached
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := r.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.hydrateSkills(ctx, []*models.User{user}); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByEmail fetches a user with mentor and mentee skills attached
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := r.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := r.hydrateSkills(ctx, []*models.User{user}); err != nil {
		return nil, err
	}

	return user, nil
}

// GetCandidates fetches match candidates for the caller with skills
// attached, ready for scoring.
func (r *UserRepository) GetCandidates(ctx context.Context, callerID int64, role models.MatchRole) ([]models.User, error) {
	users, err := r.store.ListMatchCandidates(ctx, callerID, role)
	if err != nil {
		return nil, err
	}

	refs := make([]*models.User, len(users))
	for i := range users {
		refs[i] = &users[i]
	}
	if err := r.hydrateSkills(ctx, refs); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *UserRepository) hydrateSkills(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	mentorSkills, err := r.store.GetSkillsForUsers(ctx, "user_mentor_skills", ids)
	if err != nil {
		return err
	}
	menteeSkills, err := r.store.GetSkillsForUsers(ctx, "user_mentee_skills", ids)
	if err != nil {
		return err
	}

	for _, u := range users {
		u.MentorSkills = mentorSkills[u.ID]
		u.MenteeSkills = menteeSkills[u.ID]
	}

	return nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
