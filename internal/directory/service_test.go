package directory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modern-studios/accounts/internal/directory"
	"github.com/modern-studios/accounts/internal/shared"
	_ "github.com/modern-studios/accounts/testing"
)

type mockRepository struct {
	users map[string]*directory.User

	updateCalls int

	listError error
	findError error
}

func newMockRepository(users ...directory.User) *mockRepository {
	m := &mockRepository{users: make(map[string]*directory.User)}
	for i := range users {
		user := users[i]
		m.users[user.Email] = &user
	}
	return m
}

func (m *mockRepository) ListUsers(ctx context.Context) ([]directory.User, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	result := make([]directory.User, 0, len(m.users))
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, nil
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*directory.User, error) {
	if m.findError != nil {
		return nil, m.findError
	}
	user, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockRepository) UpdateNames(ctx context.Context, email, firstName, lastName string) (*directory.User, error) {
	m.updateCalls++
	user, ok := m.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.UpdatedAt = time.Now().UTC()
	copied := *user
	return &copied, nil
}

func sampleUser() directory.User {
	created := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return directory.User{
		ID:        "user-1",
		Email:     "ann@x.com",
		FirstName: "Ann",
		LastName:  "Lee",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func strPtr(s string) *string { return &s }

func TestListUsers(t *testing.T) {
	repo := newMockRepository(sampleUser())
	svc := directory.NewService(nil, repo)

	profiles, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "ann@x.com", profiles[0].Email)
	assert.Equal(t, "Ann", profiles[0].FirstName)
}

func TestListUsersStoreFailure(t *testing.T) {
	repo := newMockRepository()
	repo.listError = errors.New("connection reset")
	svc := directory.NewService(nil, repo)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, shared.ErrStore)
}

func TestGetByEmail(t *testing.T) {
	svc := directory.NewService(nil, newMockRepository(sampleUser()))

	user, err := svc.GetByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.FirstName)
	assert.Equal(t, "Lee", user.LastName)

	_, err = svc.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.GetByEmail(context.Background(), "  ")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateRejectsEmailChange(t *testing.T) {
	repo := newMockRepository(sampleUser())
	svc := directory.NewService(nil, repo)

	_, err := svc.Update(context.Background(), "ann@x.com", &directory.Patch{
		Email:     strPtr("other@x.com"),
		FirstName: strPtr("Anne"),
	})
	assert.ErrorIs(t, err, shared.ErrEmailImmutable)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateAllowsSameEmailValue(t *testing.T) {
	repo := newMockRepository(sampleUser())
	svc := directory.NewService(nil, repo)

	profile, err := svc.Update(context.Background(), "ann@x.com", &directory.Patch{
		Email:     strPtr("ann@x.com"),
		FirstName: strPtr("Anne"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Anne", profile.FirstName)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestUpdateRejectsCreatedAtChange(t *testing.T) {
	repo := newMockRepository(sampleUser())
	svc := directory.NewService(nil, repo)

	when := time.Now().UTC()
	_, err := svc.Update(context.Background(), "ann@x.com", &directory.Patch{CreatedAt: &when})
	assert.ErrorIs(t, err, shared.ErrCreatedAtImmutable)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateNoOpSkipsWrite(t *testing.T) {
	user := sampleUser()
	repo := newMockRepository(user)
	svc := directory.NewService(nil, repo)

	profile, err := svc.Update(context.Background(), "ann@x.com", &directory.Patch{
		FirstName: strPtr("Ann"),
		LastName:  strPtr("Lee"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", profile.FirstName)
	assert.Equal(t, "Lee", profile.LastName)
	assert.Zero(t, repo.updateCalls)
}

func TestUpdateBlankFieldsIgnored(t *testing.T) {
	repo := newMockRepository(sampleUser())
	svc := directory.NewService(nil, repo)

	profile, err := svc.Update(context.Background(), "ann@x.com", &directory.Patch{
		FirstName: strPtr("   "),
		LastName:  strPtr("Li"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann", profile.FirstName)
	assert.Equal(t, "Li", profile.LastName)
	assert.Equal(t, 1, repo.updateCalls)
}

func TestUpdateValidation(t *testing.T) {
	svc := directory.NewService(nil, newMockRepository(sampleUser()))

	_, err := svc.Update(context.Background(), "", &directory.Patch{FirstName: strPtr("Anne")})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(context.Background(), "ann@x.com", nil)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateUnknownUser(t *testing.T) {
	svc := directory.NewService(nil, newMockRepository())

	_, err := svc.Update(context.Background(), "nobody@x.com", &directory.Patch{FirstName: strPtr("Anne")})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
