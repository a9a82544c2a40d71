package models

import (
	"strings"

	"tesouro/season-xlsx/internal/textutils"
)

// Payment method values produced by NormalizePaymentMethod.
const (
	PaymentBankTransfer = "bank_transfer"
	PaymentCash         = "cash"
	PaymentCard         = "card"
	PaymentCheck        = "check"
	PaymentDirectDebit  = "direct_debit"
	PaymentOther        = "other"
)

// paymentAliases maps treasurer vocabulary onto payment method values.
// Ordered so matching is deterministic; aliases are matched as substrings of
// the normalized cell.
var paymentAliases = []struct {
	alias  string
	method string
}{
	{"transferencia", PaymentBankTransfer},
	{"transfer", PaymentBankTransfer},
	{"transf", PaymentBankTransfer},
	{"banco", PaymentBankTransfer},
	{"efectivo", PaymentCash},
	{"metalico", PaymentCash},
	{"tarjeta", PaymentCard},
	{"tarx", PaymentCard},
	{"cheque", PaymentCheck},
	{"domiciliacion", PaymentDirectDebit},
	{"recibo", PaymentDirectDebit},
	{"bizum", PaymentOther},
	{"paypal", PaymentOther},
}

// NormalizePaymentMethod maps a free-text payment method cell onto the
// payment method enum. Empty input defaults to bank transfer (the club's
// overwhelmingly common case); recognized aliases map to their method; any
// other non-empty text becomes "other".
func NormalizePaymentMethod(value string) string {
	norm := textutils.Normalize(value)
	if norm == "" {
		return PaymentBankTransfer
	}
	for _, pa := range paymentAliases {
		if strings.Contains(norm, pa.alias) {
			return pa.method
		}
	}
	return PaymentOther
}
