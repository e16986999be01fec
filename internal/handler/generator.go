package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/passgen/passgen-go/internal/generator"
	"github.com/passgen/passgen-go/internal/model"
	"github.com/passgen/passgen-go/internal/service"
)

var errInvalidSymbols = errors.New("symbols must be a boolean")

// GeneratorHandler handles HTTP requests for password generation.
type GeneratorHandler struct {
	service *service.GeneratorService
}

// NewGeneratorHandler creates a new GeneratorHandler.
func NewGeneratorHandler(svc *service.GeneratorService) *GeneratorHandler {
	return &GeneratorHandler{service: svc}
}

// HandleGenerate handles POST /api/v1/generate requests. An empty body uses
// the configured defaults.
func (h *GeneratorHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	resp, err := h.service.Generate(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGenerateQuery handles GET /api/v1/generate?length=&symbols= requests,
// the shape a plain HTML form submits.
func (h *GeneratorHandler) HandleGenerateQuery(w http.ResponseWriter, r *http.Request) {
	req, err := parseGenerateQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	resp, err := h.service.Generate(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGenerateBatch handles POST /api/v1/generate/batch requests.
func (h *GeneratorHandler) HandleGenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	resp, err := h.service.GenerateBatch(req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleAlphabet handles GET /api/v1/alphabet?symbols= requests.
func (h *GeneratorHandler) HandleAlphabet(w http.ResponseWriter, r *http.Request) {
	symbols, err := parseSymbols(r.URL.Query().Get("symbols"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, h.service.Alphabet(symbols))
}

func (h *GeneratorHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if isValidationError(err) {
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	internalError(w, r, err)
}

func parseGenerateQuery(r *http.Request) (model.GenerateRequest, error) {
	var req model.GenerateRequest
	q := r.URL.Query()

	if v := strings.TrimSpace(q.Get("length")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, generator.ErrInvalidLength
		}
		req.Length = &n
	}

	symbols, err := parseSymbols(q.Get("symbols"))
	if err != nil {
		return req, err
	}
	req.Symbols = symbols

	return req, nil
}

// parseSymbols maps a query value to the symbols flag. An absent value means
// "use the default"; "on" is what a checked HTML checkbox sends.
func parseSymbols(v string) (*bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if strings.EqualFold(v, "on") {
		b := true
		return &b, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, errInvalidSymbols
	}
	return &b, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, generator.ErrInvalidLength) ||
		errors.Is(err, service.ErrLengthTooLong) ||
		errors.Is(err, service.ErrInvalidCount) ||
		errors.Is(err, service.ErrInvalidProfile)
}
