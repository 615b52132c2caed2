package budget

import (
	"strings"
	"testing"
)

// TestSummarizeNeedsAllocation проверяет положительный остаток с пустыми позициями.
func TestSummarizeNeedsAllocation(t *testing.T) {
	summary := Summarize(10000, 3000, 2)

	if summary.Remaining != 7000 {
		t.Fatalf("expected remaining 7000, got %v", summary.Remaining)
	}
	if summary.Status != StatusNeedsAllocation {
		t.Fatalf("expected needs_allocation, got %s", summary.Status)
	}
}

// TestSummarizeBalanced проверяет нулевой остаток.
func TestSummarizeBalanced(t *testing.T) {
	summary := Summarize(3000, 3000, 2)

	if summary.Status != StatusBalanced || summary.Remaining != 0 {
		t.Fatalf("expected balanced with zero remaining, got %+v", summary)
	}
}

// TestSummarizeDeficit проверяет перерасход.
func TestSummarizeDeficit(t *testing.T) {
	summary := Summarize(2000, 3000, 2)

	if summary.Status != StatusDeficit {
		t.Fatalf("expected deficit, got %s", summary.Status)
	}
	if summary.Remaining != -1000 {
		t.Fatalf("expected remaining -1000, got %v", summary.Remaining)
	}
	if !strings.Contains(summary.Message, "1000.00") {
		t.Fatalf("expected overspend amount in message, got %q", summary.Message)
	}
}

// TestSummarizeSurplusWithoutUnfilled проверяет профицит без пустых позиций.
func TestSummarizeSurplusWithoutUnfilled(t *testing.T) {
	summary := Summarize(10000, 6000, 0)

	if summary.Status != StatusBalanced {
		t.Fatalf("expected balanced surplus, got %s", summary.Status)
	}
	if summary.Remaining != 4000 {
		t.Fatalf("expected remaining 4000, got %v", summary.Remaining)
	}
}

// TestFixedRatioNote проверяет пороги аннотации фиксированных расходов.
func TestFixedRatioNote(t *testing.T) {
	if note := FixedRatioNote(10000, 7000); !strings.Contains(note, "high fixed cost") {
		t.Fatalf("expected high fixed cost note, got %q", note)
	}

	if note := FixedRatioNote(10000, 3000); !strings.Contains(note, "high disposable income") {
		t.Fatalf("expected high disposable income note, got %q", note)
	}

	if note := FixedRatioNote(10000, 5000); !strings.Contains(note, "moderate") {
		t.Fatalf("expected moderate note, got %q", note)
	}

	if note := FixedRatioNote(0, 5000); note != "" {
		t.Fatalf("expected empty note for zero salary, got %q", note)
	}
}
