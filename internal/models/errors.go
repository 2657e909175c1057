package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidState        = errors.New("invalid state")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrInvalidArgument     = errors.New("invalid argument")
)

// InvalidStateError reports a settlement transition that the current
// status does not permit.
type InvalidStateError struct {
	SettlementID string
	Current      SettlementStatus
	Action       string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s settlement %s: status is %s", e.Action, e.SettlementID, e.Current)
}

// Is makes errors.Is(err, ErrInvalidState) match.
func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}
