package service

import (
	"errors"
	"fmt"

	"github.com/passgen/passgen-go/internal/generator"
	"github.com/passgen/passgen-go/internal/model"
)

const MaxBatch = 100

var (
	ErrLengthTooLong = errors.New("password length exceeds the maximum")
	ErrInvalidCount  = fmt.Errorf("count must be between 1 and %d", MaxBatch)
)

// GeneratorSettings holds the defaults applied to requests that omit fields.
type GeneratorSettings struct {
	DefaultLength  int
	MaxLength      int
	DefaultSymbols bool
}

// DefaultGeneratorSettings uses generator.DefaultOptions and allows at most
// 4096 characters.
func DefaultGeneratorSettings() GeneratorSettings {
	opts := generator.DefaultOptions()
	return GeneratorSettings{
		DefaultLength:  opts.Length,
		MaxLength:      4096,
		DefaultSymbols: opts.IncludeSymbols,
	}
}

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	gen      *generator.Generator
	settings GeneratorSettings
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(gen *generator.Generator, settings GeneratorSettings) *GeneratorService {
	if gen == nil {
		gen = generator.New(nil)
	}
	return &GeneratorService{gen: gen, settings: settings}
}

// Settings returns the defaults and bounds in effect.
func (s *GeneratorService) Settings() GeneratorSettings {
	return s.settings
}

// Generate produces a password based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := s.options(req)

	password, err := s.GenerateWith(opts.Length, opts.IncludeSymbols)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password: password,
		Length:   len(password),
		Symbols:  opts.IncludeSymbols,
	}, nil
}

// GenerateBatch produces req.Count passwords sharing the same settings.
func (s *GeneratorService) GenerateBatch(req model.GenerateRequest) (model.BatchResponse, error) {
	count := intOrDefault(req.Count, 1)
	if count < 1 || count > MaxBatch {
		return model.BatchResponse{}, ErrInvalidCount
	}

	opts := s.options(req)
	passwords := make([]string, 0, count)
	for i := 0; i < count; i++ {
		password, err := s.GenerateWith(opts.Length, opts.IncludeSymbols)
		if err != nil {
			return model.BatchResponse{}, err
		}
		passwords = append(passwords, password)
	}

	return model.BatchResponse{
		Passwords: passwords,
		Length:    opts.Length,
		Symbols:   opts.IncludeSymbols,
	}, nil
}

// GenerateWith applies the length bounds and runs the generator.
func (s *GeneratorService) GenerateWith(length int, symbols bool) (string, error) {
	if err := s.CheckLength(length); err != nil {
		return "", err
	}
	return s.gen.Generate(generator.Options{Length: length, IncludeSymbols: symbols})
}

// CheckLength validates length against 0..MaxLength.
func (s *GeneratorService) CheckLength(length int) error {
	if length < 0 {
		return generator.ErrInvalidLength
	}
	if length > s.settings.MaxLength {
		return fmt.Errorf("%w (%d)", ErrLengthTooLong, s.settings.MaxLength)
	}
	return nil
}

// Alphabet describes the characters eligible for the given symbols flag.
func (s *GeneratorService) Alphabet(symbols *bool) model.AlphabetResponse {
	include := boolOrDefault(symbols, s.settings.DefaultSymbols)
	alphabet := generator.Alphabet(include)
	return model.AlphabetResponse{
		Alphabet: alphabet,
		Size:     len(alphabet),
		Symbols:  include,
	}
}

func (s *GeneratorService) options(req model.GenerateRequest) generator.Options {
	return generator.Options{
		Length:         intOrDefault(req.Length, s.settings.DefaultLength),
		IncludeSymbols: boolOrDefault(req.Symbols, s.settings.DefaultSymbols),
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func intOrDefault(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
