package ledger

import (
	"fmt"
	"strings"

	"github.com/example/hamlet/internal/core/catalog"
	"github.com/example/hamlet/internal/core/failure"
)

const (
	CodeNegativeAmount = "negative_amount"
	CodeInsufficient   = "insufficient_resources"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Code    string
	Reason  string
}

// Error converts the guard result to a validation failure if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return failure.Validation(r.Code, r.Reason)
}

// CanCredit checks a yield credit.
func CanCredit(kind catalog.ResourceKind, amount int) GuardResult {
	if amount < 0 {
		return GuardResult{Code: CodeNegativeAmount, Reason: fmt.Sprintf("cannot credit %d %s", amount, kind)}
	}
	return GuardResult{Allowed: true}
}

// CanAfford checks a balance against a cost and lists every shortfall.
func CanAfford(balance, cost catalog.Bundle) GuardResult {
	var missing []string
	for _, k := range catalog.ResourceKinds {
		if have, need := balance.Get(k), cost.Get(k); have < need {
			missing = append(missing, fmt.Sprintf("%d %s", need-have, k))
		}
	}
	if len(missing) > 0 {
		return GuardResult{
			Code:   CodeInsufficient,
			Reason: "not enough resources: missing " + strings.Join(missing, ", "),
		}
	}
	return GuardResult{Allowed: true}
}
