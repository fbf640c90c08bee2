package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentStatus represents the payment axis of an order, independent of the
// fulfillment status. Cash-on-delivery orders move unpaid -> cod_pending ->
// paid; prepaid orders go straight to paid. No transition table applies:
// payment state is reported by accounting, not negotiated here.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// Unpaid means no payment has been received or promised.
	Unpaid

	// CodPending means the order ships cash-on-delivery and settlement
	// is expected from the carrier.
	CodPending

	// Paid means payment has been settled.
	Paid
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown: "unknown",
		Unpaid:         "unpaid",
		CodPending:     "cod_pending",
		Paid:           "paid",
	}
}

// ParsePaymentStatus converts an external vocabulary string to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a known payment status", s))
}

// Validate checks the PaymentStatus is a member of the closed vocabulary.
func (s PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[s]; !ok || s == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the external vocabulary string for the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}
