package enums

import "fmt"

// PaymentMode describes how a shopper intends to settle an order.
type PaymentMode string

const (
	PaymentModeCard PaymentMode = "CARD"
	PaymentModeUPI  PaymentMode = "UPI"
	PaymentModeCOD  PaymentMode = "COD"
)

// Legacy spellings still emitted by older clients. They are accepted on input
// and normalized before the order request leaves the gateway.
const (
	legacyPaymentModeCreditCard PaymentMode = "CREDIT_CARD"
	legacyPaymentModeDebitCard  PaymentMode = "DEBIT_CARD"
)

var validPaymentModes = []PaymentMode{
	PaymentModeCard,
	PaymentModeUPI,
	PaymentModeCOD,
}

var legacyPaymentModes = map[PaymentMode]PaymentMode{
	legacyPaymentModeCreditCard: PaymentModeCard,
	legacyPaymentModeDebitCard:  PaymentModeCard,
}

// String implements fmt.Stringer.
func (p PaymentMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known canonical PaymentMode.
func (p PaymentMode) IsValid() bool {
	for _, candidate := range validPaymentModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMode converts raw input into a canonical PaymentMode,
// translating legacy spellings.
func ParsePaymentMode(value string) (PaymentMode, error) {
	mode := PaymentMode(value)
	if canonical, ok := legacyPaymentModes[mode]; ok {
		return canonical, nil
	}
	for _, candidate := range validPaymentModes {
		if candidate == mode {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment mode %q", value)
}
