package budget

import (
	"strings"
	"unicode"
)

// PlanEntry описывает одну позицию плана распределения от оракула.
// Entries keep the oracle's own key order, the substring rule below depends
// on it.
type PlanEntry struct {
	Name   string
	Amount float64
}

// ReconcileResult содержит итог сопоставления плана оракула с категориями.
type ReconcileResult struct {
	Matched        int
	UnmatchedItems []string
	UnusedKeys     []string
}

// Reconcile сопоставляет ключи плана оракула с незаполненными категориями.
// Matching per unfilled item, in order: exact key, normalized equality,
// normalized item name as substring of a normalized key (first key wins).
// Items with no match keep a zero amount and stay manual.
func Reconcile(items []Item, unfilled []int, plan []PlanEntry) ReconcileResult {
	result := ReconcileResult{}
	used := make([]bool, len(plan))

	normalizedKeys := make([]string, len(plan))
	for i, entry := range plan {
		normalizedKeys[i] = normalizeName(entry.Name)
	}

	for _, idx := range unfilled {
		if idx < 0 || idx >= len(items) {
			continue
		}

		match := -1
		for i, entry := range plan {
			if entry.Name == items[idx].Name {
				match = i
				break
			}
		}

		if match == -1 {
			normalized := normalizeName(items[idx].Name)
			for i, key := range normalizedKeys {
				if key == normalized || (normalized != "" && strings.Contains(key, normalized)) {
					match = i
					break
				}
			}
		}

		if match == -1 {
			result.UnmatchedItems = append(result.UnmatchedItems, items[idx].Name)
			continue
		}

		items[idx].AIAmount = plan[match].Amount
		items[idx].IsAutoFilled = true
		used[match] = true
		result.Matched++
	}

	for i, entry := range plan {
		if !used[i] {
			result.UnusedKeys = append(result.UnusedKeys, entry.Name)
		}
	}

	return result
}

// EqualSplit поровну делит остаток между незаполненными категориями.
// Fallback path for oracle failures; a no-op unless remaining is positive and
// there is something to fill.
func EqualSplit(items []Item, unfilled []int, remaining float64) {
	if remaining <= 0 || len(unfilled) == 0 {
		return
	}

	share := remaining / float64(len(unfilled))
	for _, idx := range unfilled {
		if idx < 0 || idx >= len(items) {
			continue
		}
		items[idx].AIAmount = share
		items[idx].IsAutoFilled = true
	}
}

// ScaleToRemaining масштабирует авто-заполненные суммы к точному остатку.
// Optional hardening pass: the oracle's amounts are advisory and may not sum
// to the remainder, scaling preserves their proportions.
func ScaleToRemaining(items []Item, unfilled []int, remaining float64) {
	if remaining <= 0 {
		return
	}

	var total float64
	for _, idx := range unfilled {
		if idx >= 0 && idx < len(items) && items[idx].IsAutoFilled {
			total += items[idx].AIAmount
		}
	}

	if total <= 0 || total == remaining {
		return
	}

	factor := remaining / total
	for _, idx := range unfilled {
		if idx >= 0 && idx < len(items) && items[idx].IsAutoFilled {
			items[idx].AIAmount *= factor
		}
	}
}

func normalizeName(name string) string {
	var builder strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}

	return strings.ToLower(strings.TrimSpace(builder.String()))
}
