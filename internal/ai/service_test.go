package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubClient struct {
	content string
	err     error
}

func (s *stubClient) Chat(ctx context.Context, messages []Message) (string, []byte, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.content, []byte(s.content), nil
}

// TestExtractJSON проверяет выделение JSON-объекта из свободного текста.
func TestExtractJSON(t *testing.T) {
	input := "Sure, here is the plan:\n{\"plan\": {\"Food\": 100}}\nLet me know!"
	if got := extractJSON(input); got != `{"plan": {"Food": 100}}` {
		t.Fatalf("unexpected extraction: %q", got)
	}

	fenced := "```json\n{\"reply\": \"done\"}\n```"
	if got := extractJSON(fenced); got != `{"reply": "done"}` {
		t.Fatalf("unexpected fenced extraction: %q", got)
	}

	if got := extractJSON("no object here"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

// TestPlanEntriesOrder проверяет сохранение порядка ключей плана.
func TestPlanEntriesOrder(t *testing.T) {
	var plan PlanEntries
	payload := `{"Savings": 5000, "Food": "2000", "Notes": "ignore me", "Misc": 1000}`

	if err := plan.UnmarshalJSON([]byte(payload)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(plan) != 3 {
		t.Fatalf("expected 3 numeric entries, got %d", len(plan))
	}

	names := []string{plan[0].Name, plan[1].Name, plan[2].Name}
	if names[0] != "Savings" || names[1] != "Food" || names[2] != "Misc" {
		t.Fatalf("expected key order preserved, got %v", names)
	}

	if plan[1].Amount != 2000 {
		t.Fatalf("expected numeric string parsed, got %v", plan[1].Amount)
	}
}

// TestPlanEntriesRejectsNonObject проверяет отказ на не-объекте.
func TestPlanEntriesRejectsNonObject(t *testing.T) {
	var plan PlanEntries
	if err := plan.UnmarshalJSON([]byte(`[1, 2]`)); err == nil {
		t.Fatal("expected error for non-object plan")
	}
}

// TestSuggestAllocation проверяет успешный разбор подсказки.
func TestSuggestAllocation(t *testing.T) {
	client := &stubClient{content: `Here you go: {"plan": {"Food": 4000, "Misc": 3000}, "reasoning": "split by need"}`}
	service := NewService(client)

	suggestion, prompt, _, err := service.SuggestAllocation(context.Background(), AllocationInput{
		SalaryAmount: 10000,
		Frequency:    "monthly",
		Unfilled:     []string{"Food", "Misc"},
		Remaining:    7000,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(suggestion.Plan) != 2 || suggestion.Plan[0].Name != "Food" {
		t.Fatalf("unexpected plan: %+v", suggestion.Plan)
	}
	if suggestion.Reasoning != "split by need" {
		t.Fatalf("unexpected reasoning: %q", suggestion.Reasoning)
	}
	if !strings.Contains(prompt, "7000.00") {
		t.Fatalf("expected remaining in prompt, got %q", prompt)
	}
	if !strings.Contains(prompt, `"Food"`) {
		t.Fatalf("expected category names in prompt, got %q", prompt)
	}
}

// TestSuggestAllocationMissingPlan проверяет ошибку при отсутствии плана.
func TestSuggestAllocationMissingPlan(t *testing.T) {
	client := &stubClient{content: `{"reasoning": "no plan today"}`}
	service := NewService(client)

	_, _, _, err := service.SuggestAllocation(context.Background(), AllocationInput{Remaining: 100, Unfilled: []string{"Food"}})
	if err == nil {
		t.Fatal("expected error for missing plan")
	}
}

// TestSuggestAllocationTransportError проверяет проброс сетевой ошибки.
func TestSuggestAllocationTransportError(t *testing.T) {
	client := &stubClient{err: errors.New("connection refused")}
	service := NewService(client)

	_, _, _, err := service.SuggestAllocation(context.Background(), AllocationInput{Remaining: 100, Unfilled: []string{"Food"}})
	if err == nil {
		t.Fatal("expected transport error")
	}
}

// TestRebalance проверяет разбор полного нового плана.
func TestRebalance(t *testing.T) {
	client := &stubClient{content: `{"new_plan": {"Rent": 3000, "Food": 6000, "Savings": 1000}, "reply": "Food set to 6000, savings reduced."}`}
	service := NewService(client)

	result, _, _, err := service.Rebalance(context.Background(), RebalanceInput{
		SalaryAmount: 10000,
		Frequency:    "monthly",
		Items: []PlanEntry{
			{Name: "Rent", Amount: 3000},
			{Name: "Food", Amount: 2000},
			{Name: "Savings", Amount: 5000},
		},
		Instruction: "Set Food to 6000",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var total float64
	for _, entry := range result.NewPlan {
		total += entry.Amount
	}
	if total != 10000 {
		t.Fatalf("expected plan to sum to salary, got %v", total)
	}
	if result.NewPlan[0].Name != "Rent" || result.NewPlan[0].Amount != 3000 {
		t.Fatalf("expected Rent unchanged, got %+v", result.NewPlan[0])
	}
	if result.Reply == "" {
		t.Fatal("expected confirmation reply")
	}
}

// TestRebalanceMalformedReply проверяет возврат сырого текста без плана.
func TestRebalanceMalformedReply(t *testing.T) {
	client := &stubClient{content: "I can't change your rent, it is a fixed cost."}
	service := NewService(client)

	result, _, _, err := service.Rebalance(context.Background(), RebalanceInput{Instruction: "Set Rent to 0"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.NewPlan) != 0 {
		t.Fatalf("expected no plan, got %+v", result.NewPlan)
	}
	if result.Reply != "I can't change your rent, it is a fixed cost." {
		t.Fatalf("expected raw text reply, got %q", result.Reply)
	}
}

// TestRebalanceMissingPlanField проверяет ответ с reply без new_plan.
func TestRebalanceMissingPlanField(t *testing.T) {
	client := &stubClient{content: `{"reply": "Nothing to change."}`}
	service := NewService(client)

	result, _, _, err := service.Rebalance(context.Background(), RebalanceInput{Instruction: "keep it"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.NewPlan) != 0 || result.Reply != "Nothing to change." {
		t.Fatalf("unexpected result: %+v", result)
	}
}
