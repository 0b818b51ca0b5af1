package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jget-crm/backoffice/internal/domain/auth"
	"github.com/jget-crm/backoffice/internal/domain/user"
	"github.com/jget-crm/backoffice/internal/pkg/jwt"
)

type fakeUserRepo struct {
	users map[string]user.User
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *fakeUserRepo) List(context.Context) ([]user.User, error) { return nil, nil }

func (r *fakeUserRepo) Update(_ context.Context, u user.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(r.users, id)
	return nil
}

func newAuthFixture(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{users: map[string]user.User{}}
	jwtService := jwt.NewJWTService("test-secret", "15m", "168h")
	return NewService(repo, jwtService), repo
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := user.User{
		ID:           "u-1",
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Marat S.",
		Role:         user.RoleManager,
	}
	repo.users[u.ID] = u
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "marat", "secret123")

	resp, refreshToken, refreshExpiresAt, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "marat",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Greater(t, refreshExpiresAt, int64(0))
	assert.Equal(t, "marat", resp.User.Username)
}

func TestLogin_WrongPasswordAndUnknownUserLookTheSame(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "marat", "secret123")

	_, _, _, errWrongPass := svc.Login(context.Background(), auth.LoginRequest{
		Username: "marat",
		Password: "nope",
	})
	_, _, _, errUnknown := svc.Login(context.Background(), auth.LoginRequest{
		Username: "ghost",
		Password: "secret123",
	})

	assert.ErrorIs(t, errWrongPass, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "marat", "secret123")

	_, refreshToken, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "marat",
		Password: "secret123",
	})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRefresh_AccessTokenIsNotAcceptable(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "marat", "secret123")

	resp, _, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "marat",
		Password: "secret123",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestRefresh_DeletedUser(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "marat", "secret123")

	_, refreshToken, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "marat",
		Password: "secret123",
	})
	require.NoError(t, err)

	delete(repo.users, "u-1")

	_, err = svc.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUser(t, repo, "marat", "secret123")

	_, refreshToken, _, err := svc.Login(context.Background(), auth.LoginRequest{
		Username: "marat",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), refreshToken))

	_, err = svc.Refresh(context.Background(), refreshToken)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}
