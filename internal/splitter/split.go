// Package splitter resolves an expense's raw input into a canonical
// per-member owed-amount map.
package splitter

import (
	"errors"
	"fmt"
	"math"

	"github.com/Pram0n0/Travelog/internal/models"
)

// tolerance is how far the resolved sum may drift from the total before
// the input is rejected.
const tolerance = 0.01

var (
	ErrNonPositiveTotal = errors.New("total must be greater than 0")
	ErrNoParticipants   = errors.New("must have at least one participant")
	ErrUnknownStrategy  = errors.New("unknown split strategy")
	ErrSumMismatch      = errors.New("split amounts do not add up to the total")
)

// Input is the raw split request. Exactly one of the strategy-specific
// maps is consulted, depending on Strategy.
type Input struct {
	// Total is the expense total. For multi-payer expenses the caller
	// derives it with PayerTotal before resolving.
	Total float64

	// Strategy selects the split rule.
	Strategy models.SplitType

	// Participants are the members splitting the expense.
	Participants []string

	// Exact maps participant to their owed amount (unequally).
	Exact map[string]float64

	// Percents maps participant to their percentage of the total
	// (percentages); the values should sum to 100.
	Percents map[string]float64

	// Adjustments maps participant to the delta on top of an equal base
	// share (adjustment); deltas may be negative and default to 0.
	Adjustments map[string]float64

	// Shares maps participant to their weight (shares); missing weights
	// default to 1.
	Shares map[string]float64
}

// PayerTotal sums a multi-payer expense's declared contributions.
func PayerTotal(payers []models.PayerShare) float64 {
	var total float64
	for _, p := range payers {
		total += p.Amount
	}
	return total
}

// Resolve computes the per-member owed amounts for the given input.
// The resolved amounts always sum to the total within 0.01; any input that
// cannot satisfy that is rejected rather than corrected.
func Resolve(in Input) (map[string]float64, error) {
	if in.Total <= 0 {
		return nil, ErrNonPositiveTotal
	}
	if len(in.Participants) == 0 {
		return nil, ErrNoParticipants
	}

	amounts := make(map[string]float64, len(in.Participants))

	switch in.Strategy {
	case models.SplitEqually:
		share := in.Total / float64(len(in.Participants))
		for _, p := range in.Participants {
			amounts[p] = share
		}

	case models.SplitUnequally:
		for _, p := range in.Participants {
			amounts[p] = in.Exact[p]
		}

	case models.SplitPercentages:
		for _, p := range in.Participants {
			amounts[p] = in.Percents[p] / 100 * in.Total
		}

	case models.SplitAdjustment:
		var adjusted float64
		for _, p := range in.Participants {
			adjusted += in.Adjustments[p]
		}
		base := (in.Total - adjusted) / float64(len(in.Participants))
		for _, p := range in.Participants {
			amounts[p] = base + in.Adjustments[p]
		}

	case models.SplitShares:
		var totalShares float64
		for _, p := range in.Participants {
			totalShares += weight(in.Shares, p)
		}
		if totalShares <= 0 {
			return nil, fmt.Errorf("%w: total shares must be greater than 0", ErrSumMismatch)
		}
		shareValue := in.Total / totalShares
		for _, p := range in.Participants {
			amounts[p] = shareValue * weight(in.Shares, p)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, in.Strategy)
	}

	var sum float64
	for _, amount := range amounts {
		sum += amount
	}
	if math.Abs(sum-in.Total) > tolerance {
		return nil, fmt.Errorf("%w: got %.2f, want %.2f", ErrSumMismatch, sum, in.Total)
	}

	return amounts, nil
}

func weight(shares map[string]float64, participant string) float64 {
	if w, ok := shares[participant]; ok {
		return w
	}
	return 1
}
