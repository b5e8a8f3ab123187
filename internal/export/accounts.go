package export

import (
	"errors"
	"strings"
)

var (
	ErrMissingDebitArtskonto  = errors.New("missing debit artskonto")
	ErrMissingCreditArtskonto = errors.New("missing credit artskonto")
)

// AccountCodes are the two artskonti every posting goes to: the bank account
// that is debited and the revenue account that is credited. Both come from
// configuration and are constant for a report run.
type AccountCodes struct {
	Debit  string
	Credit string
}

func NewAccountCodes(debit, credit string) (AccountCodes, error) {
	if strings.TrimSpace(debit) == "" {
		return AccountCodes{}, ErrMissingDebitArtskonto
	}
	if strings.TrimSpace(credit) == "" {
		return AccountCodes{}, ErrMissingCreditArtskonto
	}
	return AccountCodes{Debit: debit, Credit: credit}, nil
}
