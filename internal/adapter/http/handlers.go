package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
	"github.com/fundlens/fundlens-backend/internal/usecase/plan"
)

// errorResponse is the JSON shape of every non-2xx response.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// PlanHandler exposes plan lifecycle, valuation, and instrument search
// over HTTP.
type PlanHandler struct {
	Plans *plan.Service
}

// NewPlanHandler creates a new PlanHandler instance
func NewPlanHandler(plans *plan.Service) *PlanHandler {
	return &PlanHandler{Plans: plans}
}

type createPlanRequest struct {
	Symbol          string  `json:"symbol"`
	StartDate       string  `json:"startDate"` // ISO date, e.g. 2023-01-01
	MonthlyAmount   string  `json:"monthlyAmount"`
	AutoTopup       bool    `json:"autoTopup"`
	TopupPercentage float64 `json:"topupPercentage"`
}

type planResponse struct {
	ID              string  `json:"id"`
	Symbol          string  `json:"symbol"`
	StartDate       string  `json:"startDate"`
	MonthlyAmount   string  `json:"monthlyAmount"`
	AutoTopup       bool    `json:"autoTopup"`
	TopupPercentage float64 `json:"topupPercentage"`
	IsActive        bool    `json:"isActive"`
}

func toPlanResponse(p *domain.Plan) planResponse {
	return planResponse{
		ID:              p.ID.String(),
		Symbol:          p.Symbol,
		StartDate:       p.StartDate.Format("2006-01-02"),
		MonthlyAmount:   p.MonthlyAmount.String(),
		AutoTopup:       p.AutoTopup,
		TopupPercentage: p.TopupPercentage,
		IsActive:        p.IsActive,
	}
}

// CreatePlan handles POST /v1/plans
func (h *PlanHandler) CreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body", err)
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return badRequest(c, "invalid startDate, want YYYY-MM-DD", err)
	}

	amount, err := decimal.NewFromString(req.MonthlyAmount)
	if err != nil {
		return badRequest(c, "invalid monthlyAmount", err)
	}

	created, err := h.Plans.Create(c.Context(), plan.CreateInput{
		Symbol:          req.Symbol,
		StartDate:       startDate,
		MonthlyAmount:   amount,
		AutoTopup:       req.AutoTopup,
		TopupPercentage: req.TopupPercentage,
	})
	if err != nil {
		return badRequest(c, "plan rejected", err)
	}

	return c.Status(fiber.StatusCreated).JSON(toPlanResponse(created))
}

// ListPlans handles GET /v1/plans
func (h *PlanHandler) ListPlans(c *fiber.Ctx) error {
	activeOnly := c.QueryBool("active", false)

	plans, err := h.Plans.List(c.Context(), activeOnly)
	if err != nil {
		return internalError(c, err)
	}

	out := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanResponse(p))
	}
	return c.JSON(out)
}

// GetPlan handles GET /v1/plans/:id
func (h *PlanHandler) GetPlan(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid plan id", err)
	}

	p, err := h.Plans.Get(c.Context(), id)
	if err != nil {
		return planError(c, err)
	}

	return c.JSON(toPlanResponse(p))
}

// DeactivatePlan handles DELETE /v1/plans/:id
func (h *PlanHandler) DeactivatePlan(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid plan id", err)
	}

	if err := h.Plans.Deactivate(c.Context(), id); err != nil {
		return planError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetValuation handles GET /v1/plans/:id/valuation
func (h *PlanHandler) GetValuation(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid plan id", err)
	}

	result, err := h.Plans.Valuate(c.Context(), id)
	if err != nil {
		return planError(c, err)
	}

	return c.JSON(result)
}

// GetPerformance handles GET /v1/plans/:id/performance?benchmark=SYMBOL
func (h *PlanHandler) GetPerformance(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid plan id", err)
	}

	benchmark := c.Query("benchmark")
	if benchmark == "" {
		return badRequest(c, "benchmark query parameter is required", nil)
	}

	comparison, err := h.Plans.CheckPerformance(c.Context(), id, benchmark)
	if err != nil {
		return planError(c, err)
	}

	return c.JSON(comparison)
}

// SearchInstruments handles GET /v1/instruments/search?q=QUERY
func (h *PlanHandler) SearchInstruments(c *fiber.Ctx) error {
	query := c.Query("q")
	if len(query) < 2 {
		return badRequest(c, "query must be at least 2 characters", nil)
	}

	instruments, err := h.Plans.Search(c.Context(), query)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{
			Error:   "instrument search failed",
			Message: err.Error(),
			Code:    fiber.StatusBadGateway,
		})
	}

	return c.JSON(instruments)
}

// Health handles GET /health
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	resp := errorResponse{Error: message, Code: fiber.StatusBadRequest}
	if err != nil {
		resp.Message = err.Error()
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

func internalError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{
		Error:   "internal error",
		Message: err.Error(),
		Code:    fiber.StatusInternalServerError,
	})
}

// planError maps domain errors onto HTTP statuses.
func planError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrPlanNotFound):
		return c.Status(fiber.StatusNotFound).JSON(errorResponse{
			Error: "plan not found",
			Code:  fiber.StatusNotFound,
		})
	case errors.Is(err, domain.ErrInsufficientData):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{
			Error:   "insufficient price data for valuation",
			Message: err.Error(),
			Code:    fiber.StatusUnprocessableEntity,
		})
	default:
		return internalError(c, err)
	}
}
