package service

import (
	"fmt"
	"strings"
)

// epcPayload builds the EPC069-12 "Girocode" payload for a SEPA credit
// transfer. Banking apps scan this to prefill the payment. The BIC line is
// left empty; it is optional for SEPA since version 002.
func epcPayload(begunstigde, iban string, bedragCents int64, kenmerk string) string {
	regels := []string{
		"BCD",
		"002",
		"1", // UTF-8
		"SCT",
		"", // BIC
		begunstigde,
		strings.ToUpper(strings.ReplaceAll(iban, " ", "")),
		fmt.Sprintf("EUR%d.%02d", bedragCents/100, bedragCents%100),
		"", // purpose
		"", // structured reference
		kenmerk,
	}
	return strings.Join(regels, "\n")
}
