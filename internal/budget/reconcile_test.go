package budget

import (
	"reflect"
	"testing"
)

// TestReconcileExactAndNormalized проверяет точное и нормализованное сопоставление.
func TestReconcileExactAndNormalized(t *testing.T) {
	items := []Item{
		{Name: "Rent", UserAmount: 3000, AIAmount: 3000},
		{Name: "Food & Drinks"},
		{Name: "Misc"},
	}
	plan := []PlanEntry{
		{Name: "food & drinks", Amount: 4000},
		{Name: "Misc", Amount: 3000},
	}

	result := Reconcile(items, []int{1, 2}, plan)

	if result.Matched != 2 {
		t.Fatalf("expected 2 matches, got %d", result.Matched)
	}
	if items[1].AIAmount != 4000 || !items[1].IsAutoFilled {
		t.Fatalf("expected normalized match for Food & Drinks, got %+v", items[1])
	}
	if items[2].AIAmount != 3000 || !items[2].IsAutoFilled {
		t.Fatalf("expected exact match for Misc, got %+v", items[2])
	}
}

// TestReconcileSubstring проверяет сопоставление по подстроке.
func TestReconcileSubstring(t *testing.T) {
	items := []Item{{Name: "Food"}}
	plan := []PlanEntry{{Name: "groceries and food", Amount: 2500}}

	result := Reconcile(items, []int{0}, plan)

	if result.Matched != 1 || items[0].AIAmount != 2500 {
		t.Fatalf("expected substring match, got %+v", items[0])
	}
}

// TestReconcileUnmatched проверяет, что чужие ключи не распределяются.
func TestReconcileUnmatched(t *testing.T) {
	items := []Item{{Name: "Savings"}}
	plan := []PlanEntry{{Name: "Transportation", Amount: 1200}}

	result := Reconcile(items, []int{0}, plan)

	if result.Matched != 0 {
		t.Fatalf("expected no matches, got %d", result.Matched)
	}
	if items[0].AIAmount != 0 || items[0].IsAutoFilled {
		t.Fatalf("expected item left at zero, got %+v", items[0])
	}
	if !reflect.DeepEqual(result.UnmatchedItems, []string{"Savings"}) {
		t.Fatalf("expected Savings unmatched, got %v", result.UnmatchedItems)
	}
	if !reflect.DeepEqual(result.UnusedKeys, []string{"Transportation"}) {
		t.Fatalf("expected Transportation unused, got %v", result.UnusedKeys)
	}
}

// TestReconcileFirstKeyWins проверяет порядок ключей при нескольких кандидатах.
func TestReconcileFirstKeyWins(t *testing.T) {
	items := []Item{{Name: "Food"}}
	plan := []PlanEntry{
		{Name: "food delivery", Amount: 1000},
		{Name: "food at home", Amount: 2000},
	}

	Reconcile(items, []int{0}, plan)

	if items[0].AIAmount != 1000 {
		t.Fatalf("expected first key to win, got %v", items[0].AIAmount)
	}
}

// TestEqualSplit проверяет равное деление остатка.
func TestEqualSplit(t *testing.T) {
	items := []Item{
		{Name: "Rent", UserAmount: 3000, AIAmount: 3000},
		{Name: "Food"},
		{Name: "Misc"},
	}

	EqualSplit(items, []int{1, 2}, 7000)

	for _, idx := range []int{1, 2} {
		if items[idx].AIAmount != 3500 || !items[idx].IsAutoFilled {
			t.Fatalf("expected 3500 auto-filled at %d, got %+v", idx, items[idx])
		}
	}
	if items[0].AIAmount != 3000 || items[0].IsAutoFilled {
		t.Fatalf("expected fixed item untouched, got %+v", items[0])
	}
}

// TestEqualSplitGuard проверяет, что деление не выполняется без остатка.
func TestEqualSplitGuard(t *testing.T) {
	items := []Item{{Name: "Food"}}

	EqualSplit(items, []int{0}, 0)
	EqualSplit(items, []int{0}, -100)

	if items[0].AIAmount != 0 || items[0].IsAutoFilled {
		t.Fatalf("expected no split for non-positive remaining, got %+v", items[0])
	}
}

// TestScaleToRemaining проверяет нормализацию сумм оракула к остатку.
func TestScaleToRemaining(t *testing.T) {
	items := []Item{
		{Name: "Food", AIAmount: 4000, IsAutoFilled: true},
		{Name: "Misc", AIAmount: 4000, IsAutoFilled: true},
		{Name: "Savings"},
	}

	ScaleToRemaining(items, []int{0, 1, 2}, 4000)

	if items[0].AIAmount != 2000 || items[1].AIAmount != 2000 {
		t.Fatalf("expected amounts scaled to 2000, got %v and %v", items[0].AIAmount, items[1].AIAmount)
	}
	if items[2].AIAmount != 0 {
		t.Fatalf("expected unresolved item untouched, got %v", items[2].AIAmount)
	}
}

// TestNormalizeName проверяет нормализацию имен категорий.
func TestNormalizeName(t *testing.T) {
	if got := normalizeName("  Food & Drinks! "); got != "food  drinks" {
		t.Fatalf("unexpected normalization: %q", got)
	}

	if got := normalizeName("$$$"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
