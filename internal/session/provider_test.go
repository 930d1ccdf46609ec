package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundarly/learnflow-junction/internal/models"
)

func TestStubProviderRoleInference(t *testing.T) {
	provider := NewStubProvider(0)

	cases := []struct {
		email string
		role  models.Role
		name  string
	}{
		{"super_admin@platform.io", models.RoleSuperAdmin, "John Admin"},
		{"admin@college.edu", models.RoleAdmin, "John Admin"},
		{"trainer@college.edu", models.RoleTrainer, "Sarah Trainer"},
		{"staff@college.edu", models.RoleStaff, "Mike Staff"},
		{"alice@college.edu", models.RoleStudent, "Alice Student"},
	}

	for _, tc := range cases {
		identity, token, err := provider.Authenticate(context.Background(), models.LoginRequest{Email: tc.email, Password: "password"})
		require.NoError(t, err, tc.email)
		assert.Equal(t, tc.role, identity.Role, tc.email)
		assert.Equal(t, tc.name, identity.Name, tc.email)
		assert.Equal(t, models.StatusActive, identity.Status)
		assert.NotEmpty(t, token)
	}
}

func TestStubProviderSuperAdminHasNoCollege(t *testing.T) {
	provider := NewStubProvider(0)

	identity, _, err := provider.Authenticate(context.Background(), models.LoginRequest{Email: "super@platform.io", Password: "password"})
	require.NoError(t, err)
	assert.Nil(t, identity.CollegeID)
	assert.Nil(t, identity.CollegeName)

	identity, _, err = provider.Authenticate(context.Background(), models.LoginRequest{Email: "staff@college.edu", Password: "password"})
	require.NoError(t, err)
	require.NotNil(t, identity.CollegeID)
	assert.Equal(t, "college-1", *identity.CollegeID)
}

func TestAPIProviderAuthenticate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		resp := loginEnvelope{Data: &models.LoginResponse{
			AccessToken: "server-token",
			User:        models.Identity{ID: "u9", Email: req.Email, Role: models.RoleAdmin, Status: models.StatusActive},
		}}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := NewAPIProvider(server.URL, 0)
	identity, token, err := provider.Authenticate(context.Background(), models.LoginRequest{Email: "admin@college.edu", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, "server-token", token)
	assert.Equal(t, "u9", identity.ID)
	assert.Equal(t, models.RoleAdmin, identity.Role)
}

func TestAPIProviderErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_CREDENTIALS","message":"invalid email or password","status":401}}`))
	}))
	defer server.Close()

	provider := NewAPIProvider(server.URL, 0)
	_, _, err := provider.Authenticate(context.Background(), models.LoginRequest{Email: "admin@college.edu", Password: "wrong"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")
}
