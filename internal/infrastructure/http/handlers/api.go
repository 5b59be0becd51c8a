// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/nutrilens/v1/internal/domain/assessment"
	"github.com/nutrilens/v1/internal/ports/inbound"
	apperrors "github.com/nutrilens/v1/pkg/errors"
	"go.uber.org/zap"
)

// APIHandlers handles REST API requests
type APIHandlers struct {
	service  inbound.AssessmentService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(service inbound.AssessmentService, logger *zap.Logger) *APIHandlers {
	return &APIHandlers{
		service:  service,
		validate: validator.New(),
		logger:   logger.Named("api"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// profileDTO is the wire form of a user profile.
type profileDTO struct {
	Conditions []string `json:"conditions" validate:"dive,min=1"`
	Allergens  []string `json:"allergens" validate:"dive,min=1"`
	Goal       string   `json:"goal"`
}

// amountDTO is a nutrient amount with its declared unit.
type amountDTO struct {
	Value float64 `json:"value" validate:"gte=0"`
	Unit  string  `json:"unit"`
}

// assessRequest carries one product or menu item to assess.
type assessRequest struct {
	Name        string               `json:"name"`
	Nutrients   map[string]amountDTO `json:"nutrients" validate:"dive"`
	Ingredients []string             `json:"ingredients" validate:"dive,min=1"`
	Profile     profileDTO           `json:"profile"`
}

// compareRequest carries two products to score side by side.
type compareRequest struct {
	ProductA assessRequest `json:"product_a" validate:"required"`
	ProductB assessRequest `json:"product_b" validate:"required"`
}

// AssessProduct handles POST /api/v1/assess/product
func (h *APIHandlers) AssessProduct(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.decodeAssess(w, r)
	if !ok {
		return
	}

	result, err := h.service.ScoreProduct(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

// AssessMenuItem handles POST /api/v1/assess/menu-item
func (h *APIHandlers) AssessMenuItem(w http.ResponseWriter, r *http.Request) {
	cmd, ok := h.decodeAssess(w, r)
	if !ok {
		return
	}

	rec, err := h.service.ClassifyMenuItem(r.Context(), cmd)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: rec})
}

// CompareProducts handles POST /api/v1/assess/compare
func (h *APIHandlers) CompareProducts(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewAppError(apperrors.CodeBadRequest, "invalid request body", err.Error()))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperrors.NewValidationError(err.Error()))
		return
	}

	cmdA, err := toCommand(req.ProductA)
	if err != nil {
		h.writeError(w, err)
		return
	}
	cmdB, err := toCommand(req.ProductB)
	if err != nil {
		h.writeError(w, err)
		return
	}

	cmp, err := h.service.CompareProducts(r.Context(), cmdA, cmdB)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: cmp})
}

// GetAdditive handles GET /api/v1/additives/{name}
func (h *APIHandlers) GetAdditive(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	ev, err := h.service.ResolveAdditiveEvidence(r.Context(), name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: ev})
}

// GetProduct handles GET /api/v1/products/{barcode}
// Profile context comes from query parameters: conditions, allergens
// (comma separated) and goal.
func (h *APIHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	barcode := chi.URLParam(r, "barcode")

	profile, err := assessment.NewUserProfile(
		splitParam(r.URL.Query().Get("conditions")),
		splitParam(r.URL.Query().Get("allergens")),
		r.URL.Query().Get("goal"),
	)
	if err != nil {
		h.writeError(w, apperrors.NewAppError(apperrors.CodeInvalidProfile, "invalid profile", err.Error()))
		return
	}

	result, err := h.service.AssessBarcode(r.Context(), barcode, profile)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: result})
}

// decodeAssess decodes, validates and converts an assess request body.
func (h *APIHandlers) decodeAssess(w http.ResponseWriter, r *http.Request) (inbound.AssessCommand, bool) {
	var req assessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewAppError(apperrors.CodeBadRequest, "invalid request body", err.Error()))
		return inbound.AssessCommand{}, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, apperrors.NewValidationError(err.Error()))
		return inbound.AssessCommand{}, false
	}

	cmd, err := toCommand(req)
	if err != nil {
		h.writeError(w, err)
		return inbound.AssessCommand{}, false
	}
	return cmd, true
}

// toCommand converts a wire request into a validated domain command.
func toCommand(req assessRequest) (inbound.AssessCommand, error) {
	profile, err := assessment.NewUserProfile(req.Profile.Conditions, req.Profile.Allergens, req.Profile.Goal)
	if err != nil {
		return inbound.AssessCommand{}, apperrors.NewAppError(apperrors.CodeInvalidProfile, "invalid profile", err.Error())
	}

	facts := assessment.NutrientFacts{}
	for name, a := range req.Nutrients {
		facts[assessment.Nutrient(strings.ToLower(strings.TrimSpace(name)))] = assessment.Amount{
			Value: a.Value,
			Unit:  a.Unit,
		}
	}

	return inbound.AssessCommand{
		Name:        req.Name,
		Nutrients:   facts,
		Ingredients: assessment.IngredientList(req.Ingredients),
		Profile:     profile,
	}, nil
}

func splitParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// writeError maps an error onto the structured error response.
func (h *APIHandlers) writeError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, "internal error")
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.Error(err))
	}

	h.writeJSON(w, status, APIResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    string(appErr.Code),
	})
}

func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
