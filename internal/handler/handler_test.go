package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/generator"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/repository"
	"github.com/passgen/passgen-go/internal/service"
)

type memUsers struct {
	users []*model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = int64(len(m.users) + 1)
	stored := *u
	m.users = append(m.users, &stored)
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type memProfiles struct {
	profiles map[string]model.Profile
}

func (m *memProfiles) Create(_ context.Context, p *model.Profile) error {
	for _, other := range m.profiles {
		if other.UserID == p.UserID && other.Name == p.Name {
			return repository.ErrDuplicateProfile
		}
	}
	m.profiles[p.ProfileID] = *p
	return nil
}

func (m *memProfiles) Get(_ context.Context, userID int64, id string) (*model.Profile, error) {
	p, ok := m.profiles[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memProfiles) ListByUser(_ context.Context, userID int64) ([]model.Profile, error) {
	var out []model.Profile
	for _, p := range m.profiles {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProfiles) Update(_ context.Context, p *model.Profile) error {
	if _, ok := m.profiles[p.ProfileID]; !ok {
		return repository.ErrProfileNotFound
	}
	m.profiles[p.ProfileID] = *p
	return nil
}

func (m *memProfiles) Delete(_ context.Context, userID int64, id string) error {
	p, ok := m.profiles[id]
	if !ok || p.UserID != userID {
		return repository.ErrProfileNotFound
	}
	delete(m.profiles, id)
	return nil
}

type testServer struct {
	handler http.Handler
	tokens  *crypto.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tokens, err := crypto.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager() unexpected error: %v", err)
	}
	hasher := crypto.NewHasher(crypto.HashParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	genService := service.NewGeneratorService(generator.New(generator.NewSeededSource(3)), service.DefaultGeneratorSettings())
	authService := service.NewAuthService(&memUsers{}, hasher, tokens)
	profileService := service.NewProfileService(&memProfiles{profiles: make(map[string]model.Profile)}, genService)

	return &testServer{
		handler: NewRouter(Routes{
			Generator: NewGeneratorHandler(genService),
			Auth:      NewAuthHandler(authService),
			Profiles:  NewProfileHandler(profileService),
			Tokens:    tokens,
		}),
		tokens: tokens,
	}
}

func (s *testServer) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec := srv.do(t, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestHandleGenerate(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantLen     int
		wantSymbols bool
		wantErr     string
	}{
		{name: "empty body uses defaults", body: "", wantStatus: http.StatusOK, wantLen: 16, wantSymbols: true},
		{name: "empty object uses defaults", body: `{}`, wantStatus: http.StatusOK, wantLen: 16, wantSymbols: true},
		{name: "twelve with symbols", body: `{"length":12,"symbols":true}`, wantStatus: http.StatusOK, wantLen: 12, wantSymbols: true},
		{name: "eight without symbols", body: `{"length":8,"symbols":false}`, wantStatus: http.StatusOK, wantLen: 8},
		{name: "zero", body: `{"length":0}`, wantStatus: http.StatusOK, wantLen: 0, wantSymbols: true},
		{name: "negative", body: `{"length":-4}`, wantStatus: http.StatusBadRequest, wantErr: generator.ErrInvalidLength.Error()},
		{name: "string length", body: `{"length":"ten"}`, wantStatus: http.StatusBadRequest, wantErr: generator.ErrInvalidLength.Error()},
		{name: "fractional length", body: `{"length":12.5}`, wantStatus: http.StatusBadRequest, wantErr: generator.ErrInvalidLength.Error()},
		{name: "too long", body: `{"length":5000}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{"length":`, wantStatus: http.StatusBadRequest, wantErr: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/api/v1/generate", tt.body, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantStatus != http.StatusOK {
				if tt.wantErr != "" {
					if got := decode[map[string]string](t, rec)["error"]; got != tt.wantErr {
						t.Errorf("error = %q, want %q", got, tt.wantErr)
					}
				}
				return
			}

			resp := decode[model.GenerateResponse](t, rec)
			if len(resp.Password) != tt.wantLen || resp.Length != tt.wantLen {
				t.Errorf("length = %d, want %d", len(resp.Password), tt.wantLen)
			}
			if resp.Symbols != tt.wantSymbols {
				t.Errorf("symbols = %v, want %v", resp.Symbols, tt.wantSymbols)
			}
			alphabet := generator.Alphabet(tt.wantSymbols)
			for _, c := range resp.Password {
				if !strings.ContainsRune(alphabet, c) {
					t.Errorf("unexpected character %q", c)
				}
			}
		})
	}
}

func TestHandleGenerateBodyTooLarge(t *testing.T) {
	srv := newTestServer(t)
	body := `{"length":8,"pad":"` + strings.Repeat("a", maxBodyBytes) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandleGenerateQuery(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		wantStatus  int
		wantLen     int
		wantSymbols bool
	}{
		{name: "defaults", query: "", wantStatus: http.StatusOK, wantLen: 16, wantSymbols: true},
		{name: "checkbox absent keeps symbols", query: "?length=10", wantStatus: http.StatusOK, wantLen: 10, wantSymbols: true},
		{name: "checkbox on", query: "?length=10&symbols=on", wantStatus: http.StatusOK, wantLen: 10, wantSymbols: true},
		{name: "symbols off", query: "?length=8&symbols=false", wantStatus: http.StatusOK, wantLen: 8},
		{name: "zero", query: "?length=0", wantStatus: http.StatusOK, wantLen: 0, wantSymbols: true},
		{name: "non numeric", query: "?length=abc", wantStatus: http.StatusBadRequest},
		{name: "fractional", query: "?length=3.5", wantStatus: http.StatusBadRequest},
		{name: "negative", query: "?length=-2", wantStatus: http.StatusBadRequest},
		{name: "bad symbols", query: "?symbols=maybe", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, "/api/v1/generate"+tt.query, "", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			resp := decode[model.GenerateResponse](t, rec)
			if len(resp.Password) != tt.wantLen {
				t.Errorf("length = %d, want %d", len(resp.Password), tt.wantLen)
			}
			if resp.Symbols != tt.wantSymbols {
				t.Errorf("symbols = %v, want %v", resp.Symbols, tt.wantSymbols)
			}
		})
	}
}

func TestHandleGenerateBatch(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/generate/batch", `{"length":6,"symbols":false,"count":3}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	resp := decode[model.BatchResponse](t, rec)
	if len(resp.Passwords) != 3 {
		t.Fatalf("expected 3 passwords, got %d", len(resp.Passwords))
	}
	for _, p := range resp.Passwords {
		if len(p) != 6 || strings.ContainsAny(p, "!@#$%^&*()_+") {
			t.Errorf("unexpected password %q", p)
		}
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/generate/batch", `{"count":1000}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleAlphabet(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/api/v1/alphabet?symbols=false", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[model.AlphabetResponse](t, rec)
	if resp.Size != 62 || resp.Alphabet != generator.Alphabet(false) {
		t.Errorf("unexpected alphabet %+v", resp)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/alphabet", "", "")
	if resp := decode[model.AlphabetResponse](t, rec); resp.Size != 74 {
		t.Errorf("expected 74 characters by default, got %d", resp.Size)
	}
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/register", `{"email":"me@example.com","password":"pw"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d (%s)", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/register", `{"email":"me@example.com","password":"pw"}`, "")
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"me@example.com","password":"bad"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/auth/login", `{"email":"me@example.com","password":"pw"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	auth := decode[model.AuthResponse](t, rec)

	rec = srv.do(t, http.MethodGet, "/api/v1/auth/me", "", auth.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	if me := decode[model.UserResponse](t, rec); me.Email != "me@example.com" {
		t.Errorf("me email = %q", me.Email)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/auth/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous me status = %d, want 401", rec.Code)
	}
}

func TestHandleMe_UnknownUser(t *testing.T) {
	srv := newTestServer(t)
	token, err := srv.tokens.Issue(42)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	rec := srv.do(t, http.MethodGet, "/api/v1/auth/me", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("me status for unknown user = %d, want 401", rec.Code)
	}
}

func TestRegister_CreatedAtIsSet(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/register", `{"email":"ts@example.com","password":"pw"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d (%s)", rec.Code, rec.Body.String())
	}
	if resp := decode[model.AuthResponse](t, rec); resp.User.CreatedAt.IsZero() {
		t.Error("expected created_at in register response")
	}
}

func TestProfileFlow(t *testing.T) {
	srv := newTestServer(t)
	token, err := srv.tokens.Issue(1)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	rec := srv.do(t, http.MethodPost, "/api/v1/profiles", `{"name":"router","length":20,"symbols":false}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", rec.Code, rec.Body.String())
	}
	created := decode[model.ProfileResponse](t, rec)
	base := "/api/v1/profiles/" + created.ProfileID

	rec = srv.do(t, http.MethodPost, "/api/v1/profiles", `{"name":"router","length":20}`, token)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", rec.Code)
	}

	rec = srv.do(t, http.MethodPost, "/api/v1/profiles", `{"name":"x"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid create status = %d, want 400", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/profiles", "", token)
	if list := decode[[]model.ProfileResponse](t, rec); len(list) != 1 {
		t.Errorf("expected 1 profile, got %d", len(list))
	}

	rec = srv.do(t, http.MethodPost, base+"/generate", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d (%s)", rec.Code, rec.Body.String())
	}
	if gen := decode[model.GenerateResponse](t, rec); len(gen.Password) != 20 || gen.Symbols {
		t.Errorf("unexpected generation %+v", gen)
	}

	rec = srv.do(t, http.MethodPut, base, `{"name":"router","length":32,"symbols":true}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d (%s)", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, http.MethodGet, base, "", token)
	if got := decode[model.ProfileResponse](t, rec); got.Length != 32 || !got.Symbols {
		t.Errorf("update not visible: %+v", got)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/profiles/not-a-uuid", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, base, "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	other, _ := srv.tokens.Issue(2)
	rec = srv.do(t, http.MethodGet, base, "", other)
	if rec.Code != http.StatusNotFound {
		t.Errorf("other user status = %d, want 404", rec.Code)
	}

	rec = srv.do(t, http.MethodDelete, base, "", token)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	rec = srv.do(t, http.MethodDelete, base, "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestRouterWithoutDatabase(t *testing.T) {
	genService := service.NewGeneratorService(nil, service.DefaultGeneratorSettings())
	h := NewRouter(Routes{Generator: NewGeneratorHandler(genService)})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("profiles without database status = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/generate?length=4", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("generate status = %d, want 200", rec.Code)
	}
}
