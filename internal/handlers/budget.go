package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/smart-budgetter/backend/internal/ai"
	"example.com/smart-budgetter/backend/internal/auth"
	"example.com/smart-budgetter/backend/internal/budget"
	"example.com/smart-budgetter/backend/internal/models"
	"example.com/smart-budgetter/backend/internal/repository"
)

const (
	aiRequestAllocate  = "allocate"
	aiRequestRebalance = "rebalance"

	historyLimit = 5

	// Oracle arithmetic drift beyond this is logged, not corrected.
	sumDriftTolerance = 0.01
)

type BudgetHandler struct {
	Service       *ai.Service
	Budgets       *repository.BudgetRepository
	AIRepo        *repository.AIRepository
	Model         string
	NormalizePlan bool
}

// NewBudgetHandler создает обработчик зарплатного бюджета.
func NewBudgetHandler(service *ai.Service, budgets *repository.BudgetRepository, aiRepo *repository.AIRepository, model string, normalizePlan bool) *BudgetHandler {
	return &BudgetHandler{
		Service:       service,
		Budgets:       budgets,
		AIRepo:        aiRepo,
		Model:         model,
		NormalizePlan: normalizePlan,
	}
}

type AllocateRequest struct {
	SalaryAmount float64  `json:"salary_amount" validate:"gt=0"`
	Frequency    string   `json:"frequency" validate:"required"`
	ItemNames    []string `json:"item_names" validate:"required,min=1"`
	ItemAmounts  []string `json:"item_amounts" validate:"required,min=1"`
	Save         bool     `json:"save"`
}

type BudgetItemResponse struct {
	Name         string  `json:"name"`
	UserAmount   float64 `json:"user_amount"`
	AIAmount     float64 `json:"ai_amount"`
	IsAutoFilled bool    `json:"is_auto_filled"`
}

type AllocateResponse struct {
	Status     string               `json:"status"`
	Message    string               `json:"message"`
	TotalFixed float64              `json:"total_fixed"`
	Remaining  float64              `json:"remaining"`
	Items      []BudgetItemResponse `json:"items"`
	Reasoning  string               `json:"reasoning,omitempty"`
	BudgetID   *uuid.UUID           `json:"budget_id,omitempty"`
}

type ChatItem struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount"`
}

type ChatContext struct {
	SalaryAmount float64    `json:"salary_amount" validate:"gt=0"`
	Frequency    string     `json:"frequency"`
	Items        []ChatItem `json:"items" validate:"required,min=1,dive"`
}

type ChatRequest struct {
	Message string      `json:"message" validate:"required"`
	Context ChatContext `json:"context"`
}

type ChatResponse struct {
	Reply string     `json:"reply"`
	Items []ChatItem `json:"items,omitempty"`
}

type BudgetSummaryResponse struct {
	ID           uuid.UUID        `json:"id"`
	SalaryAmount float64          `json:"salary_amount"`
	Frequency    models.Frequency `json:"frequency"`
	Reasoning    *string          `json:"reasoning,omitempty"`
	CreatedAt    string           `json:"created_at"`
}

type BudgetDetailResponse struct {
	Budget BudgetSummaryResponse `json:"budget"`
	Items  []BudgetItemResponse  `json:"items"`
}

// Allocate распределяет остаток зарплаты по незаполненным категориям.
// Oracle failures are never fatal here: the equal-split fallback keeps the
// request usable.
func (h *BudgetHandler) Allocate(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req AllocateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}
	if len(req.ItemNames) != len(req.ItemAmounts) {
		return badRequest(c, "item_names and item_amounts must have the same length")
	}

	frequency, ok := mapFrequency(req.Frequency)
	if !ok {
		return badRequest(c, "invalid frequency")
	}

	classification := budget.Classify(req.ItemNames, req.ItemAmounts)
	if len(classification.Items) == 0 {
		return badRequest(c, "no valid budget items")
	}

	summary := budget.Summarize(req.SalaryAmount, classification.TotalFixed, len(classification.UnfilledIndices))

	reasoning := ""
	if summary.Status == budget.StatusNeedsAllocation {
		reasoning = h.allocateRemaining(c.Request().Context(), userID, req, classification, summary)
	}

	response := AllocateResponse{
		Status:     string(summary.Status),
		Message:    summary.Message,
		TotalFixed: classification.TotalFixed,
		Remaining:  summary.Remaining,
		Items:      toItemResponses(classification.Items),
		Reasoning:  reasoning,
	}

	if !req.Save {
		return c.JSON(http.StatusOK, response)
	}

	var reasoningPtr *string
	if reasoning != "" {
		reasoningPtr = &reasoning
	}

	saved, err := h.Budgets.CreateWithItems(c.Request().Context(), userID, req.SalaryAmount, frequency, reasoningPtr, toItemInputs(classification.Items))
	if err != nil {
		if errors.Is(err, repository.ErrInvalid) {
			return badRequest(c, "budget cannot be saved")
		}
		return serverError(c)
	}

	response.BudgetID = &saved.ID
	return c.JSON(http.StatusCreated, response)
}

// Chat пересчитывает план по текстовой команде пользователя.
// A reply without a new plan means "message only, no change applied".
func (h *BudgetHandler) Chat(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "validation failed")
	}

	input := ai.RebalanceInput{
		SalaryAmount: req.Context.SalaryAmount,
		Frequency:    req.Context.Frequency,
		Items:        toPlanSnapshot(req.Context.Items),
		Instruction:  req.Message,
	}

	inputPayload, _ := json.Marshal(input)
	result, prompt, raw, err := h.Service.Rebalance(c.Request().Context(), input)
	responsePayload := []byte(nil)
	if err == nil {
		responsePayload, _ = json.Marshal(result)
	}

	h.logAIRequest(c.Request().Context(), userID, aiRequestRebalance, prompt, inputPayload, responsePayload, raw, err)

	if err != nil {
		slog.Warn("rebalance unavailable", slog.String("user_id", userID.String()), slog.String("error", err.Error()))
		return c.JSON(http.StatusOK, ChatResponse{
			Reply: "The budgeting assistant is unavailable right now. Your plan was not changed.",
		})
	}

	response := ChatResponse{Reply: result.Reply}
	if len(result.NewPlan) > 0 {
		total := sumEntries(result.NewPlan)
		if drift := total - req.Context.SalaryAmount; math.Abs(drift) > sumDriftTolerance {
			slog.Warn("rebalance sum drift",
				slog.String("user_id", userID.String()),
				slog.Float64("salary", req.Context.SalaryAmount),
				slog.Float64("plan_total", total),
			)
		}

		items := make([]ChatItem, 0, len(result.NewPlan))
		for _, entry := range result.NewPlan {
			items = append(items, ChatItem{Name: entry.Name, Amount: entry.Amount})
		}
		response.Items = items
	}

	return c.JSON(http.StatusOK, response)
}

// History возвращает последние сохраненные бюджеты.
func (h *BudgetHandler) History(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budgets, err := h.Budgets.ListByUser(c.Request().Context(), userID, historyLimit)
	if err != nil {
		return serverError(c)
	}

	response := make([]BudgetSummaryResponse, 0, len(budgets))
	for _, row := range budgets {
		response = append(response, toBudgetSummary(row))
	}

	return c.JSON(http.StatusOK, map[string][]BudgetSummaryResponse{"budgets": response})
}

// Get возвращает сохраненный бюджет вместе с позициями.
func (h *BudgetHandler) Get(c echo.Context) error {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return badRequest(c, "invalid budget id")
	}

	row, items, err := h.Budgets.GetByID(c.Request().Context(), userID, budgetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "budget not found")
		}
		return serverError(c)
	}

	itemResponses := make([]BudgetItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, BudgetItemResponse{
			Name:         item.ItemName,
			UserAmount:   item.UserAmount,
			AIAmount:     item.AIAmount,
			IsAutoFilled: item.IsAutoFilled,
		})
	}

	return c.JSON(http.StatusOK, BudgetDetailResponse{
		Budget: toBudgetSummary(row),
		Items:  itemResponses,
	})
}

// allocateRemaining запрашивает план у оракула и сопоставляет его с категориями.
func (h *BudgetHandler) allocateRemaining(ctx context.Context, userID uuid.UUID, req AllocateRequest, classification budget.Classification, summary budget.Summary) string {
	input := ai.AllocationInput{
		SalaryAmount: req.SalaryAmount,
		Frequency:    req.Frequency,
		Fixed:        toFixedItems(classification.Items),
		Unfilled:     unfilledNames(classification),
		Remaining:    summary.Remaining,
		StatusNote:   budget.FixedRatioNote(req.SalaryAmount, classification.TotalFixed),
	}

	inputPayload, _ := json.Marshal(input)
	suggestion, prompt, raw, err := h.Service.SuggestAllocation(ctx, input)
	responsePayload := []byte(nil)
	if err == nil {
		responsePayload, _ = json.Marshal(suggestion)
	}

	h.logAIRequest(ctx, userID, aiRequestAllocate, prompt, inputPayload, responsePayload, raw, err)

	if err != nil {
		budget.EqualSplit(classification.Items, classification.UnfilledIndices, summary.Remaining)
		slog.Warn("allocation fallback used",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()),
		)
		return fmt.Sprintf("The suggestion service was unavailable, so the remaining %.2f was split equally across %d categories.", summary.Remaining, len(classification.UnfilledIndices))
	}

	result := budget.Reconcile(classification.Items, classification.UnfilledIndices, toPlanEntries(suggestion.Plan))
	for _, key := range result.UnusedKeys {
		slog.Warn("allocation suggestion unmatched",
			slog.String("user_id", userID.String()),
			slog.String("suggested_category", key),
		)
	}

	if h.NormalizePlan {
		budget.ScaleToRemaining(classification.Items, classification.UnfilledIndices, summary.Remaining)
	}

	slog.Info("allocation generated",
		slog.String("user_id", userID.String()),
		slog.Int("matched", result.Matched),
		slog.Int("unmatched", len(result.UnmatchedItems)),
	)

	return suggestion.Reasoning
}

func (h *BudgetHandler) logAIRequest(ctx context.Context, userID uuid.UUID, requestType string, prompt string, requestPayload, responsePayload []byte, raw []byte, err error) {
	log := repository.AIRequestLog{
		UserID:          userID,
		RequestType:     requestType,
		Model:           h.Model,
		Prompt:          prompt,
		RequestPayload:  requestPayload,
		ResponsePayload: responsePayload,
		RawResponse:     string(raw),
		Success:         err == nil,
	}
	if err != nil {
		errMsg := err.Error()
		log.ErrorMessage = &errMsg
	}

	_ = h.AIRepo.LogRequest(ctx, log)
}

func mapFrequency(value string) (models.Frequency, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "-")
	switch normalized {
	case string(models.FrequencyWeekly):
		return models.FrequencyWeekly, true
	case string(models.FrequencyBiWeekly), "biweekly":
		return models.FrequencyBiWeekly, true
	case string(models.FrequencySemiMonthly), "semimonthly":
		return models.FrequencySemiMonthly, true
	case string(models.FrequencyMonthly):
		return models.FrequencyMonthly, true
	default:
		return "", false
	}
}

func toFixedItems(items []budget.Item) []ai.FixedItem {
	out := make([]ai.FixedItem, 0, len(items))
	for _, item := range items {
		if item.UserAmount > 0 {
			out = append(out, ai.FixedItem{Name: item.Name, Amount: item.UserAmount})
		}
	}
	return out
}

func unfilledNames(classification budget.Classification) []string {
	out := make([]string, 0, len(classification.UnfilledIndices))
	for _, idx := range classification.UnfilledIndices {
		out = append(out, classification.Items[idx].Name)
	}
	return out
}

func toPlanEntries(plan ai.PlanEntries) []budget.PlanEntry {
	out := make([]budget.PlanEntry, 0, len(plan))
	for _, entry := range plan {
		out = append(out, budget.PlanEntry{Name: entry.Name, Amount: entry.Amount})
	}
	return out
}

func toPlanSnapshot(items []ChatItem) []ai.PlanEntry {
	out := make([]ai.PlanEntry, 0, len(items))
	for _, item := range items {
		out = append(out, ai.PlanEntry{Name: item.Name, Amount: item.Amount})
	}
	return out
}

func toItemResponses(items []budget.Item) []BudgetItemResponse {
	out := make([]BudgetItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, BudgetItemResponse{
			Name:         item.Name,
			UserAmount:   item.UserAmount,
			AIAmount:     item.AIAmount,
			IsAutoFilled: item.IsAutoFilled,
		})
	}
	return out
}

func toItemInputs(items []budget.Item) []repository.BudgetItemInput {
	out := make([]repository.BudgetItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, repository.BudgetItemInput{
			Name:         item.Name,
			UserAmount:   item.UserAmount,
			AIAmount:     item.AIAmount,
			IsAutoFilled: item.IsAutoFilled,
		})
	}
	return out
}

func toBudgetSummary(row models.SalaryBudget) BudgetSummaryResponse {
	return BudgetSummaryResponse{
		ID:           row.ID,
		SalaryAmount: row.SalaryAmount,
		Frequency:    row.Frequency,
		Reasoning:    row.AIReasoning,
		CreatedAt:    row.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func sumEntries(plan ai.PlanEntries) float64 {
	var total float64
	for _, entry := range plan {
		total += entry.Amount
	}
	return total
}
