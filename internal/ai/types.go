package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

type FixedItem struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type AllocationInput struct {
	SalaryAmount float64     `json:"salary_amount"`
	Frequency    string      `json:"frequency"`
	Fixed        []FixedItem `json:"fixed_items"`
	Unfilled     []string    `json:"unfilled_categories"`
	Remaining    float64     `json:"remaining"`
	StatusNote   string      `json:"status_note,omitempty"`
}

type PlanEntry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// PlanEntries хранит план оракула с сохранением порядка ключей.
// A plain map would randomize iteration and break first-key-wins matching.
type PlanEntries []PlanEntry

type AllocationSuggestion struct {
	Plan      PlanEntries `json:"plan"`
	Reasoning string      `json:"reasoning"`
}

type RebalanceInput struct {
	SalaryAmount float64     `json:"salary_amount"`
	Frequency    string      `json:"frequency"`
	Items        []PlanEntry `json:"items"`
	Instruction  string      `json:"-"`
}

type RebalanceResult struct {
	NewPlan PlanEntries `json:"new_plan"`
	Reply   string      `json:"reply"`
}

// UnmarshalJSON разбирает объект плана, сохраняя порядок ключей.
// Values that are not numbers (or numeric strings) are skipped, the oracle
// output is untrusted.
func (p *PlanEntries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	token, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := token.(json.Delim); !ok || delim != '{' {
		return errors.New("plan must be a json object")
	}

	entries := make(PlanEntries, 0)
	for dec.More() {
		keyToken, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyToken.(string)
		if !ok {
			return errors.New("plan key must be a string")
		}

		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}

		amount, ok := toAmount(value)
		if !ok {
			continue
		}

		entries = append(entries, PlanEntry{Name: key, Amount: amount})
	}

	*p = entries
	return nil
}

// MarshalJSON сериализует план обратно в объект в исходном порядке.
func (p PlanEntries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, entry := range p {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(entry.Amount, 'f', -1, 64))
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toAmount(value any) (float64, bool) {
	switch typed := value.(type) {
	case json.Number:
		parsed, err := typed.Float64()
		if err != nil {
			return 0, false
		}
		return parsed, true
	case string:
		parsed, err := strconv.ParseFloat(typed, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
