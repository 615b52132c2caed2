package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	client Client
}

// NewService создает сервис работы с AI-клиентом.
func NewService(client Client) *Service {
	return &Service{client: client}
}

// SuggestAllocation запрашивает у AI распределение остатка зарплаты.
// The reply is untrusted free text; only the first JSON object span is parsed
// and a reply without a usable plan is reported as an error so callers can
// fall back.
func (s *Service) SuggestAllocation(ctx context.Context, input AllocationInput) (AllocationSuggestion, string, []byte, error) {
	prompt, err := buildAllocationPrompt(input)
	if err != nil {
		return AllocationSuggestion{}, "", nil, err
	}

	messages := []Message{
		{Role: "system", Content: "You are a salary budgeting assistant. Respond with JSON only, without extra text."},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	if err != nil {
		return AllocationSuggestion{}, prompt, raw, err
	}

	var suggestion AllocationSuggestion
	if err := parseJSON(content, &suggestion); err != nil {
		return AllocationSuggestion{}, prompt, raw, err
	}

	if len(suggestion.Plan) == 0 {
		return AllocationSuggestion{}, prompt, raw, errors.New("ai suggestion missing plan")
	}

	return suggestion, prompt, raw, nil
}

// Rebalance запрашивает у AI пересчет плана по текстовой команде.
// Transport failures surface as errors. A reply that does not parse into a
// structured result is not an error: the raw text comes back as the reply with
// no plan, and the caller must treat that as "message only, no change".
func (s *Service) Rebalance(ctx context.Context, input RebalanceInput) (RebalanceResult, string, []byte, error) {
	prompt, err := buildRebalancePrompt(input)
	if err != nil {
		return RebalanceResult{}, "", nil, err
	}

	messages := []Message{
		{Role: "system", Content: rebalanceContract},
		{Role: "user", Content: prompt},
	}

	content, raw, err := s.client.Chat(ctx, messages)
	if err != nil {
		return RebalanceResult{}, prompt, raw, err
	}

	var result RebalanceResult
	if err := parseJSON(content, &result); err != nil {
		return RebalanceResult{Reply: strings.TrimSpace(content)}, prompt, raw, nil
	}

	if len(result.NewPlan) == 0 {
		reply := strings.TrimSpace(result.Reply)
		if reply == "" {
			reply = strings.TrimSpace(content)
		}
		return RebalanceResult{Reply: reply}, prompt, raw, nil
	}

	return result, prompt, raw, nil
}

const rebalanceContract = `You are a salary budgeting assistant that rebalances an existing allocation.
Rules:
- Identify the single new constraint in the user's instruction.
- Keep fixed categories unchanged unless the instruction explicitly targets them.
- Redistribute salary minus fixed costs minus the constrained amount proportionally across the remaining flexible categories.
- Never reduce a flexible category to zero while funds remain.
- The sum of all amounts must equal the salary.
Respond with JSON only, without extra text:
{"new_plan": {"<category>": <amount>, ... every category ...}, "reply": "<short confirmation>"}`

func buildAllocationPrompt(input AllocationInput) (string, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}

	names, err := json.Marshal(input.Unfilled)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Distribute the remaining salary across the unfilled budget categories.

Requirements:
- Output JSON only, no code fences, no extra text.
- Distribute exactly %.2f in total.
- Use these exact category names as keys: %s.
- Use numbers for amounts.
- Schema:
{
  "plan": {"<category>": <amount>},
  "reasoning": "<one short paragraph>"
}

Input:
%s`, input.Remaining, string(names), string(payload))

	return prompt, nil
}

func buildRebalancePrompt(input RebalanceInput) (string, error) {
	payload, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`Current budget:
%s

Instruction: %s`, string(payload), strings.TrimSpace(input.Instruction))

	return prompt, nil
}

func parseJSON(input string, target interface{}) error {
	payload := extractJSON(input)
	if payload == "" {
		return errors.New("ai response does not contain json")
	}

	return json.Unmarshal([]byte(payload), target)
}

func extractJSON(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimPrefix(strings.TrimSpace(trimmed), "json")
		trimmed = strings.TrimSpace(trimmed)
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return trimmed[start : end+1]
}
