package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foundarly/learnflow-junction/internal/models"
	appErrors "github.com/foundarly/learnflow-junction/pkg/errors"
)

// Provider performs the actual authentication call. The session manager never
// contains credential logic itself: production wires APIProvider, tests and
// offline development wire StubProvider.
type Provider interface {
	Authenticate(ctx context.Context, req models.LoginRequest) (*models.Identity, string, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, string, error)
}

// StubProvider derives a deterministic identity from the submitted email.
// Any syntactically valid input succeeds; there is no credential check.
type StubProvider struct {
	// Delay simulates network latency. Zero means immediate.
	Delay time.Duration
	now   func() time.Time
}

// NewStubProvider builds a stub provider.
func NewStubProvider(delay time.Duration) *StubProvider {
	return &StubProvider{Delay: delay, now: time.Now}
}

// Authenticate maps email substrings onto a role and display name.
func (p *StubProvider) Authenticate(ctx context.Context, req models.LoginRequest) (*models.Identity, string, error) {
	if err := p.wait(ctx); err != nil {
		return nil, "", err
	}

	role := roleFromEmail(req.Email)
	identity := &models.Identity{
		ID:          "1",
		Email:       req.Email,
		Name:        nameFromEmail(req.Email),
		Role:        role,
		Department:  strPtr("Computer Science"),
		Phone:       strPtr("+1234567890"),
		JoinDate:    "2024-01-01",
		Status:      models.StatusActive,
		Permissions: []string{},
	}
	if role != models.RoleSuperAdmin {
		identity.CollegeID = strPtr("college-1")
		identity.CollegeName = strPtr("Tech University")
	}

	return identity, p.token(), nil
}

// Register builds the identity directly from the submitted fields.
func (p *StubProvider) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, string, error) {
	if err := p.wait(ctx); err != nil {
		return nil, "", err
	}

	identity := &models.Identity{
		ID:          uuid.NewString(),
		Email:       req.Email,
		Name:        req.Name,
		Role:        req.Role,
		CollegeID:   req.CollegeID,
		JoinDate:    p.now().Format("2006-01-02"),
		Status:      models.StatusActive,
		Permissions: []string{},
	}
	if req.CollegeID != nil {
		identity.CollegeName = strPtr("Tech University")
	}

	return identity, p.token(), nil
}

func (p *StubProvider) wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *StubProvider) token() string {
	return fmt.Sprintf("stub_token_%d", p.now().UnixNano())
}

func roleFromEmail(email string) models.Role {
	switch {
	case strings.Contains(email, "super"):
		return models.RoleSuperAdmin
	case strings.Contains(email, "admin"):
		return models.RoleAdmin
	case strings.Contains(email, "trainer"):
		return models.RoleTrainer
	case strings.Contains(email, "staff"):
		return models.RoleStaff
	default:
		return models.RoleStudent
	}
}

func nameFromEmail(email string) string {
	switch {
	case strings.Contains(email, "admin"):
		return "John Admin"
	case strings.Contains(email, "trainer"):
		return "Sarah Trainer"
	case strings.Contains(email, "staff"):
		return "Mike Staff"
	default:
		return "Alice Student"
	}
}

func strPtr(s string) *string {
	return &s
}

// APIProvider authenticates against the learnflow API over HTTP. The bearer
// token returned by the server becomes the persisted session token.
type APIProvider struct {
	baseURL string
	client  *http.Client
}

// NewAPIProvider builds an HTTP-backed provider.
func NewAPIProvider(baseURL string, timeout time.Duration) *APIProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type loginEnvelope struct {
	Data  *models.LoginResponse `json:"data"`
	Error *appErrors.Error      `json:"error"`
}

// Authenticate calls POST /auth/login.
func (p *APIProvider) Authenticate(ctx context.Context, req models.LoginRequest) (*models.Identity, string, error) {
	return p.post(ctx, "/auth/login", req)
}

// Register calls POST /auth/register.
func (p *APIProvider) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, string, error) {
	return p.post(ctx, "/auth/register", req)
}

func (p *APIProvider) post(ctx context.Context, path string, payload interface{}) (*models.Identity, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("encode auth payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("build auth request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "auth request failed")
	}
	defer resp.Body.Close()

	var envelope loginEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "decode auth response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if envelope.Error != nil {
			return nil, "", envelope.Error
		}
		return nil, "", appErrors.Clone(appErrors.ErrInvalidCredentials, fmt.Sprintf("authentication failed with status %d", resp.StatusCode))
	}
	if envelope.Data == nil {
		return nil, "", appErrors.Clone(appErrors.ErrInternal, "empty auth response")
	}

	identity := envelope.Data.User
	return &identity, envelope.Data.AccessToken, nil
}
