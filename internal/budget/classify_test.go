package budget

import (
	"reflect"
	"testing"
)

// TestClassify проверяет разбор фиксированных и незаполненных позиций.
func TestClassify(t *testing.T) {
	result := Classify(
		[]string{"Rent", "Food", "Misc"},
		[]string{"3000", "0", "abc"},
	)

	if result.TotalFixed != 3000 {
		t.Fatalf("expected fixed total 3000, got %v", result.TotalFixed)
	}

	if !reflect.DeepEqual(result.UnfilledIndices, []int{1, 2}) {
		t.Fatalf("expected unfilled indices [1 2], got %v", result.UnfilledIndices)
	}

	if result.Items[2].UserAmount != 0 {
		t.Fatalf("expected unparsable amount to become 0, got %v", result.Items[2].UserAmount)
	}
}

// TestClassifySkipsBlankNames проверяет пропуск пустых имен.
func TestClassifySkipsBlankNames(t *testing.T) {
	result := Classify(
		[]string{"  ", "Savings"},
		[]string{"100", "200"},
	)

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}

	if result.Items[0].Name != "Savings" || result.TotalFixed != 200 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

// TestClassifyNegativeAmount проверяет, что отрицательные суммы не фиксируются.
func TestClassifyNegativeAmount(t *testing.T) {
	result := Classify(
		[]string{"Refund"},
		[]string{"-50"},
	)

	if result.TotalFixed != 0 {
		t.Fatalf("expected fixed total 0, got %v", result.TotalFixed)
	}

	if !reflect.DeepEqual(result.UnfilledIndices, []int{0}) {
		t.Fatalf("expected negative amount in unfilled set, got %v", result.UnfilledIndices)
	}
}

// TestClassifyShortAmounts проверяет нехватку сумм в параллельном списке.
func TestClassifyShortAmounts(t *testing.T) {
	result := Classify(
		[]string{"Rent", "Food"},
		[]string{"1500"},
	)

	if result.TotalFixed != 1500 {
		t.Fatalf("expected fixed total 1500, got %v", result.TotalFixed)
	}

	if !reflect.DeepEqual(result.UnfilledIndices, []int{1}) {
		t.Fatalf("expected missing amount to be unfilled, got %v", result.UnfilledIndices)
	}
}
