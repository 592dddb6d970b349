package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fundlens/fundlens-backend/internal/domain"
)

// GenerateContributions expands a plan's schedule into the ordered list of
// individual contribution events between startDate and now.
//
// Logic:
//   - The number of events is the calendar-month difference between
//     startDate and now (year*12+month arithmetic), inclusive of the
//     starting month. Day-count division would drift with variable month
//     lengths, so it is never used here.
//   - Event k (0-indexed) is dated startDate + k months.
//   - When autoTopup is set, the amount steps up at every 12th event
//     (k > 0 && k%12 == 0) to monthlyAmount * (1+topupPercentage/100)^(k/12)
//     and stays at that level for the rest of the year. The step-up
//     compounds across years, it is not reset.
//
// Returns an empty slice when now is before startDate: the plan has not
// started and the caller treats zero contributions as "nothing to value".
func GenerateContributions(startDate, now time.Time, monthlyAmount decimal.Decimal, autoTopup bool, topupPercentage float64) []domain.ContributionEvent {
	if now.Before(startDate) {
		return []domain.ContributionEvent{}
	}

	months := (now.Year()-startDate.Year())*12 + int(now.Month()) - int(startDate.Month())
	if months <= 0 {
		return []domain.ContributionEvent{}
	}

	stepFactor := decimal.NewFromFloat(1 + topupPercentage/100)

	events := make([]domain.ContributionEvent, 0, months)
	amount := monthlyAmount
	for k := 0; k < months; k++ {
		if autoTopup && k > 0 && k%12 == 0 {
			amount = monthlyAmount.Mul(stepFactor.Pow(decimal.NewFromInt(int64(k / 12))))
		}

		events = append(events, domain.ContributionEvent{
			Date:   startDate.AddDate(0, k, 0),
			Amount: amount,
		})
	}

	return events
}
