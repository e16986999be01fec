package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/passgen/passgen-go/internal/crypto"
	"github.com/passgen/passgen-go/internal/middleware"
)

// Routes bundles the handlers mounted by NewRouter. Auth and Profiles are
// optional; their routes are only mounted when a database is available.
type Routes struct {
	Generator *GeneratorHandler
	Auth      *AuthHandler
	Profiles  *ProfileHandler
	Tokens    *crypto.TokenManager
	Limiter   *middleware.IPRateLimiter
}

// NewRouter builds the API router.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/v1/alphabet", rt.Generator.HandleAlphabet)

	r.Group(func(r chi.Router) {
		if rt.Limiter != nil {
			r.Use(middleware.RateLimit(rt.Limiter))
		}
		r.Get("/api/v1/generate", rt.Generator.HandleGenerateQuery)
		r.Post("/api/v1/generate", rt.Generator.HandleGenerate)
		r.Post("/api/v1/generate/batch", rt.Generator.HandleGenerateBatch)

		if rt.Auth != nil {
			r.Post("/api/v1/auth/register", rt.Auth.HandleRegister)
			r.Post("/api/v1/auth/login", rt.Auth.HandleLogin)
		}
	})

	if rt.Tokens == nil || (rt.Auth == nil && rt.Profiles == nil) {
		return r
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(rt.Tokens))

		if rt.Auth != nil {
			r.Get("/api/v1/auth/me", rt.Auth.HandleMe)
		}

		if rt.Profiles != nil {
			r.Route("/api/v1/profiles", func(r chi.Router) {
				r.Get("/", rt.Profiles.HandleListProfiles)
				r.Post("/", rt.Profiles.HandleCreateProfile)
				r.Get("/{profile_id}", rt.Profiles.HandleGetProfile)
				r.Put("/{profile_id}", rt.Profiles.HandleUpdateProfile)
				r.Delete("/{profile_id}", rt.Profiles.HandleDeleteProfile)
				r.Post("/{profile_id}/generate", rt.Profiles.HandleGenerateFromProfile)
			})
		}
	})

	return r
}
