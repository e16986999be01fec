package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/repository"
)

var (
	ErrInvalidProfile   = errors.New("invalid profile")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrProfileNameTaken = errors.New("profile name already taken")
)

// ProfileStore is the persistence ProfileService needs.
type ProfileStore interface {
	Create(ctx context.Context, p *model.Profile) error
	Get(ctx context.Context, userID int64, profileID string) (*model.Profile, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Profile, error)
	Update(ctx context.Context, p *model.Profile) error
	Delete(ctx context.Context, userID int64, profileID string) error
}

var _ ProfileStore = (*repository.ProfileRepository)(nil)

// ProfileService manages saved generator settings and generates from them.
type ProfileService struct {
	store     ProfileStore
	generator *GeneratorService
	validate  *validator.Validate
	now       func() time.Time
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store ProfileStore, gen *GeneratorService) *ProfileService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &ProfileService{
		store:     store,
		generator: gen,
		validate:  v,
		now:       time.Now,
	}
}

// CreateProfile saves a new profile for the user.
func (s *ProfileService) CreateProfile(ctx context.Context, userID int64, req model.ProfileRequest) (model.ProfileResponse, error) {
	if err := s.check(&req); err != nil {
		return model.ProfileResponse{}, err
	}

	now := timestamp(s.now())
	p := model.Profile{
		ProfileID: uuid.NewString(),
		UserID:    userID,
		Name:      req.Name,
		Length:    *req.Length,
		Symbols:   boolOrDefault(req.Symbols, s.generator.Settings().DefaultSymbols),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, &p); err != nil {
		return model.ProfileResponse{}, mapProfileError(err)
	}

	return toProfileResponse(p), nil
}

// GetProfile returns a single profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64, profileID string) (model.ProfileResponse, error) {
	p, err := s.store.Get(ctx, userID, profileID)
	if err != nil {
		return model.ProfileResponse{}, mapProfileError(err)
	}
	return toProfileResponse(*p), nil
}

// ListProfiles returns all of the user's profiles.
func (s *ProfileService) ListProfiles(ctx context.Context, userID int64) ([]model.ProfileResponse, error) {
	profiles, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.ProfileResponse, len(profiles))
	for i, p := range profiles {
		result[i] = toProfileResponse(p)
	}
	return result, nil
}

// UpdateProfile replaces the settings of an existing profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, profileID string, req model.ProfileRequest) (model.ProfileResponse, error) {
	if err := s.check(&req); err != nil {
		return model.ProfileResponse{}, err
	}

	existing, err := s.store.Get(ctx, userID, profileID)
	if err != nil {
		return model.ProfileResponse{}, mapProfileError(err)
	}

	existing.Name = req.Name
	existing.Length = *req.Length
	existing.Symbols = boolOrDefault(req.Symbols, s.generator.Settings().DefaultSymbols)
	existing.UpdatedAt = timestamp(s.now())

	if err := s.store.Update(ctx, existing); err != nil {
		return model.ProfileResponse{}, mapProfileError(err)
	}

	return toProfileResponse(*existing), nil
}

// DeleteProfile removes a profile.
func (s *ProfileService) DeleteProfile(ctx context.Context, userID int64, profileID string) error {
	return mapProfileError(s.store.Delete(ctx, userID, profileID))
}

// GenerateFromProfile generates a password with a saved profile's settings.
func (s *ProfileService) GenerateFromProfile(ctx context.Context, userID int64, profileID string) (model.GenerateResponse, error) {
	p, err := s.store.Get(ctx, userID, profileID)
	if err != nil {
		return model.GenerateResponse{}, mapProfileError(err)
	}

	return s.generator.Generate(model.GenerateRequest{
		Length:  &p.Length,
		Symbols: &p.Symbols,
	})
}

// check trims and validates a request. Struct rules come from the validate
// tags; the upper length bound comes from the generator settings.
func (s *ProfileService) check(req *model.ProfileRequest) error {
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(fields, ", "))
		}
		return err
	}

	return s.generator.CheckLength(*req.Length)
}

func mapProfileError(err error) error {
	switch {
	case errors.Is(err, repository.ErrProfileNotFound):
		return ErrProfileNotFound
	case errors.Is(err, repository.ErrDuplicateProfile):
		return ErrProfileNameTaken
	}
	return err
}

func toProfileResponse(p model.Profile) model.ProfileResponse {
	return model.ProfileResponse{
		ProfileID: p.ProfileID,
		Name:      p.Name,
		Length:    p.Length,
		Symbols:   p.Symbols,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
