package accounting

import (
	"fmt"

	"github.com/hroffice/gl_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceTolerance is the rounding slack allowed when comparing debit and
// credit totals (one cent of the base currency unit).
var BalanceTolerance = decimal.NewFromFloat(0.01)

// BalanceDelta computes the signed change a journal line applies to its
// account's running balance, based on the account's normal-balance side.
// An account that grows on the debit side moves by +(debit-credit); an account
// that grows on the credit side moves by +(credit-debit).
func BalanceDelta(line domain.JournalLine, normalBalance domain.NormalBalance) (decimal.Decimal, error) {
	net := line.Debit.Sub(line.Credit)
	switch normalBalance {
	case domain.NormalDebit:
		return net, nil
	case domain.NormalCredit:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal balance side '%s' for account %s", normalBalance, line.AccountCode)
	}
}

// ValidateEntryBalance checks the double-entry rule over an entry's lines:
// at least two lines, no negative amounts, no line with both sides set, and
// total debits equal to total credits within BalanceTolerance.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return fmt.Errorf("journal entry must have at least two lines")
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, line := range lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("line amounts must not be negative for account %s", line.AccountCode)
		}
		if line.Debit.IsPositive() && line.Credit.IsPositive() {
			return fmt.Errorf("line for account %s carries both a debit and a credit", line.AccountCode)
		}
		if line.Debit.IsZero() && line.Credit.IsZero() {
			return fmt.Errorf("line for account %s carries no amount", line.AccountCode)
		}
		debits = debits.Add(line.Debit)
		credits = credits.Add(line.Credit)
	}

	if debits.Sub(credits).Abs().GreaterThan(BalanceTolerance) {
		return fmt.Errorf("debits: %s, credits: %s", debits, credits)
	}
	return nil
}

// NetBalanceChanges aggregates the per-account signed balance deltas for all
// lines of an entry, given the accounts' normal-balance sides.
func NetBalanceChanges(lines []domain.JournalLine, normalBalances map[string]domain.NormalBalance) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal)
	for _, line := range lines {
		side, ok := normalBalances[line.AccountCode]
		if !ok {
			return nil, fmt.Errorf("normal balance side not found for account %s", line.AccountCode)
		}
		delta, err := BalanceDelta(line, side)
		if err != nil {
			return nil, err
		}
		changes[line.AccountCode] = changes[line.AccountCode].Add(delta)
	}
	return changes, nil
}

// SwapDebitCredit returns copies of the lines with debit and credit swapped,
// used to build a reversing entry.
func SwapDebitCredit(lines []domain.JournalLine) []domain.JournalLine {
	swapped := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		swapped[i] = line
		swapped[i].Debit = line.Credit
		swapped[i].Credit = line.Debit
	}
	return swapped
}
