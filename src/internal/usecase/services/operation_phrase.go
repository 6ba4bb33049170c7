package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/api-sage/account-ledger/src/internal/commons"
	"github.com/api-sage/account-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// The feed uses the upstream system's Spanish keywords on the wire.
const withdrawalKeyword = "RETIRO"
const depositKeyword = "DEPOSITO"

var phraseValuePattern = regexp.MustCompile(`\d+([.,]\d+)?`)

// ParseOperationPhrase classifies a free-text movement phrase and extracts its
// magnitude. The first decimal-looking substring is the value, accepting
// either '.' or ',' as the separator. A phrase with a recognized keyword but
// no number yields a zero magnitude, which downstream treats as a zero-effect
// movement rather than an error.
func ParseOperationPhrase(phrase string) (domain.MovementType, decimal.Decimal, error) {
	upper := strings.ToUpper(phrase)

	var movementType domain.MovementType
	switch {
	case strings.Contains(upper, withdrawalKeyword):
		movementType = domain.MovementTypeWithdrawal
	case strings.Contains(upper, depositKeyword):
		movementType = domain.MovementTypeDeposit
	default:
		return "", decimal.Zero, fmt.Errorf("%w: %q", commons.ErrUnsupportedOperation, phrase)
	}

	raw := phraseValuePattern.FindString(upper)
	if raw == "" {
		return movementType, decimal.Zero, nil
	}

	value, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return movementType, decimal.Zero, nil
	}

	return movementType, value, nil
}
