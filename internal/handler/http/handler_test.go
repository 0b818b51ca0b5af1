package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jget-crm/backoffice/internal/domain/authz"
	"github.com/jget-crm/backoffice/internal/domain/org"
	"github.com/jget-crm/backoffice/internal/handler/http/middleware"
	"github.com/jget-crm/backoffice/internal/handler/http/response"
	orgservice "github.com/jget-crm/backoffice/internal/service/org"
)

type stubCityRepo struct{}

func (stubCityRepo) Create(_ context.Context, c org.City) (org.City, error) { return c, nil }
func (stubCityRepo) GetByID(context.Context, string) (org.City, error) {
	return org.City{}, org.ErrCityNotFound
}
func (stubCityRepo) List(context.Context) ([]org.City, error) { return nil, nil }
func (stubCityRepo) Update(context.Context, org.City) error { return nil }
func (stubCityRepo) Delete(context.Context, string) error { return nil }
func (stubCityRepo) CountBranches(context.Context, string) (int, error) { return 0, nil }

type stubBranchRepo struct {
	branches map[string]org.Branch
}

func (r *stubBranchRepo) Create(_ context.Context, b org.Branch) (org.Branch, error) {
	r.branches[b.ID] = b
	return b, nil
}

func (r *stubBranchRepo) GetByID(_ context.Context, id string) (org.Branch, error) {
	b, ok := r.branches[id]
	if !ok {
		return org.Branch{}, org.ErrBranchNotFound
	}
	return b, nil
}

func (r *stubBranchRepo) List(context.Context, authz.Scope) ([]org.Branch, error) { return nil, nil }
func (r *stubBranchRepo) Update(context.Context, org.Branch) error { return nil }
func (r *stubBranchRepo) Delete(context.Context, string) error { return nil }
func (r *stubBranchRepo) CountShifts(context.Context, string) (int, error) { return 0, nil }
func (r *stubBranchRepo) GetStatistics(context.Context, string) (org.BranchStatistics, error) {
	return org.BranchStatistics{}, nil
}

// newProtectedMux mounts the branch detail route behind the same
// verifier and auth middleware pair the real router uses.
func newProtectedMux(branches map[string]org.Branch) (*chi.Mux, *jwtauth.JWTAuth) {
	ja := jwtauth.New("HS256", []byte("handler-test-secret"), nil)
	svc := orgservice.NewService(stubCityRepo{}, &stubBranchRepo{branches: branches})
	h := NewOrgHandler(svc)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(ja))
		r.Use(middleware.AuthRequired(ja))
		r.Get("/branches/{id}", h.GetBranch)
	})
	return r, ja
}

func signToken(t *testing.T, ja *jwtauth.JWTAuth, claims map[string]interface{}) string {
	t.Helper()
	_, tok, err := ja.Encode(claims)
	require.NoError(t, err)
	return tok
}

func doGet(mux *chi.Mux, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestAuthRequired_MissingToken(t *testing.T) {
	mux, _ := newProtectedMux(map[string]org.Branch{})

	w := doGet(mux, "/branches/b-1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestAuthRequired_RefreshTokenRejected(t *testing.T) {
	mux, ja := newProtectedMux(map[string]org.Branch{})
	tok := signToken(t, ja, map[string]interface{}{
		"user_id": "u-1", "role": "manager", "type": "refresh",
	})

	w := doGet(mux, "/branches/b-1", tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_MaterializesScope(t *testing.T) {
	ja := jwtauth.New("HS256", []byte("handler-test-secret"), nil)

	var got authz.Context
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(ja))
		r.Use(middleware.AuthRequired(ja))
		r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			got, _ = authz.FromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	})

	tok := signToken(t, ja, map[string]interface{}{
		"user_id": "u-7", "role": "admin", "city_id": "city-1", "type": "access",
	})
	w := doGet(r, "/whoami", tok)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "u-7", got.UserID)
	assert.Equal(t, "admin", string(got.Role))
	require.NotNil(t, got.CityID)
	assert.Equal(t, "city-1", *got.CityID)
	assert.Nil(t, got.BranchID)
}

func TestGetBranch_StatusMapping(t *testing.T) {
	city := "city-1"
	mux, ja := newProtectedMux(map[string]org.Branch{
		"b-1": {ID: "b-1", Name: "North", CityID: &city},
	})

	ownCity := signToken(t, ja, map[string]interface{}{
		"user_id": "u-1", "role": "admin", "city_id": "city-1", "type": "access",
	})
	otherCity := signToken(t, ja, map[string]interface{}{
		"user_id": "u-2", "role": "admin", "city_id": "city-2", "type": "access",
	})

	// In scope: the branch comes back in the success envelope.
	w := doGet(mux, "/branches/b-1", ownCity)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "b-1", data["id"])

	// Out of scope: the branch exists, so 403 rather than 404.
	w = doGet(mux, "/branches/b-1", otherCity)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)

	// Missing row: 404 regardless of scope.
	w = doGet(mux, "/branches/b-9", ownCity)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
