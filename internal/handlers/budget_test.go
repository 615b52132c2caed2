package handlers

import (
	"testing"

	"example.com/smart-budgetter/backend/internal/ai"
	"example.com/smart-budgetter/backend/internal/budget"
	"example.com/smart-budgetter/backend/internal/models"
)

// TestMapFrequency проверяет маппинг периодичности зарплаты.
func TestMapFrequency(t *testing.T) {
	value, ok := mapFrequency("Semi-Monthly")
	if !ok || value != models.FrequencySemiMonthly {
		t.Fatalf("expected semi-monthly, got %v (ok=%v)", value, ok)
	}

	value, ok = mapFrequency(" weekly ")
	if !ok || value != models.FrequencyWeekly {
		t.Fatalf("expected weekly, got %v (ok=%v)", value, ok)
	}

	value, ok = mapFrequency("biweekly")
	if !ok || value != models.FrequencyBiWeekly {
		t.Fatalf("expected bi-weekly, got %v (ok=%v)", value, ok)
	}

	if _, ok := mapFrequency("quarterly"); ok {
		t.Fatal("expected invalid frequency")
	}
}

// TestUnfilledNames проверяет выбор имен незаполненных категорий.
func TestUnfilledNames(t *testing.T) {
	classification := budget.Classify(
		[]string{"Rent", "Food", "Misc"},
		[]string{"3000", "0", "0"},
	)

	names := unfilledNames(classification)
	if len(names) != 2 || names[0] != "Food" || names[1] != "Misc" {
		t.Fatalf("unexpected unfilled names: %v", names)
	}
}

// TestToFixedItems проверяет отбор фиксированных позиций для промпта.
func TestToFixedItems(t *testing.T) {
	items := []budget.Item{
		{Name: "Rent", UserAmount: 3000},
		{Name: "Food", UserAmount: 0},
	}

	fixed := toFixedItems(items)
	if len(fixed) != 1 || fixed[0].Name != "Rent" || fixed[0].Amount != 3000 {
		t.Fatalf("unexpected fixed items: %v", fixed)
	}
}

// TestSumEntries проверяет суммирование плана.
func TestSumEntries(t *testing.T) {
	plan := ai.PlanEntries{
		{Name: "Rent", Amount: 3000},
		{Name: "Food", Amount: 6000},
		{Name: "Savings", Amount: 1000},
	}

	if total := sumEntries(plan); total != 10000 {
		t.Fatalf("expected 10000, got %v", total)
	}
}
