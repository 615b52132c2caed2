package budget

import (
	"strconv"
	"strings"
)

// Item хранит пользовательскую и итоговую суммы одной строки бюджета.
type Item struct {
	Name         string
	UserAmount   float64
	AIAmount     float64
	IsAutoFilled bool
}

// Classification содержит результат разбора формы бюджета.
type Classification struct {
	Items           []Item
	TotalFixed      float64
	UnfilledIndices []int
}

// Classify разбирает параллельные списки имен и сумм на фиксированные и
// незаполненные позиции.
// Names and amounts are zipped positionally; blank names are dropped, amounts
// that fail to parse become 0. Only strictly positive amounts count as fixed,
// zero and negative amounts join the unfilled set.
func Classify(names, amounts []string) Classification {
	result := Classification{
		Items:           make([]Item, 0, len(names)),
		UnfilledIndices: make([]int, 0),
	}

	for i, rawName := range names {
		name := strings.TrimSpace(rawName)
		if name == "" {
			continue
		}

		amount := 0.0
		if i < len(amounts) {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(amounts[i]), 64)
			if err == nil {
				amount = parsed
			}
		}

		item := Item{Name: name, UserAmount: amount, AIAmount: amount}
		if amount > 0 {
			result.TotalFixed += amount
		} else {
			result.UnfilledIndices = append(result.UnfilledIndices, len(result.Items))
		}

		result.Items = append(result.Items, item)
	}

	return result
}
