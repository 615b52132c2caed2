package budget

import "fmt"

type Status string

const (
	StatusDeficit         Status = "deficit"
	StatusBalanced        Status = "balanced"
	StatusNeedsAllocation Status = "needs_allocation"
)

// Summary описывает остаток зарплаты и статус распределения.
type Summary struct {
	Remaining float64
	Status    Status
	Message   string
}

// Summarize вычисляет остаток и статус бюджета.
// Branch order matters: deficit is checked before the zero and surplus cases.
func Summarize(salary, totalFixed float64, unfilledCount int) Summary {
	remaining := salary - totalFixed

	switch {
	case remaining < 0:
		return Summary{
			Remaining: remaining,
			Status:    StatusDeficit,
			Message:   fmt.Sprintf("Your fixed items exceed your salary by %.2f. Reduce some amounts before allocating.", -remaining),
		}
	case remaining == 0:
		return Summary{
			Remaining: 0,
			Status:    StatusBalanced,
			Message:   "Your salary is fully allocated.",
		}
	case unfilledCount > 0:
		return Summary{
			Remaining: remaining,
			Status:    StatusNeedsAllocation,
			Message:   fmt.Sprintf("%.2f left to distribute across %d categories.", remaining, unfilledCount),
		}
	default:
		// Surplus with nothing to fill stays unassigned.
		return Summary{
			Remaining: remaining,
			Status:    StatusBalanced,
			Message:   fmt.Sprintf("All items are filled, %.2f of your salary is left unassigned.", remaining),
		}
	}
}

// FixedRatioNote возвращает текстовую оценку доли фиксированных расходов.
// Used only to annotate the oracle's context, never to gate allocation.
func FixedRatioNote(salary, totalFixed float64) string {
	if salary <= 0 {
		return ""
	}

	ratio := totalFixed / salary * 100

	switch {
	case ratio > 60:
		return fmt.Sprintf("high fixed cost (%.0f%% of salary)", ratio)
	case ratio < 40:
		return fmt.Sprintf("high disposable income (%.0f%% fixed)", ratio)
	default:
		return fmt.Sprintf("moderate fixed cost (%.0f%% of salary)", ratio)
	}
}
