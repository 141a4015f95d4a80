package catalog

import "strings"

type PaymentPolicy string

const (
	PolicyFree              PaymentPolicy = "free"
	PolicyTotalPay          PaymentPolicy = "total_pay"
	PolicyMandatoryDonation PaymentPolicy = "mandatory_donation"
	PolicyVoluntaryDonation PaymentPolicy = "voluntary_donation"
)

// PolicyFromCode maps the catalog service's short codes to a policy.
// An empty code means a free title. An unknown non-empty code is treated
// as a full purchase so that mistyped catalog data can never unlock a
// paid title for nothing.
func PolicyFromCode(code string) PaymentPolicy {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "":
		return PolicyFree
	case "PT":
		return PolicyTotalPay
	case "DO":
		return PolicyMandatoryDonation
	case "DV":
		return PolicyVoluntaryDonation
	default:
		return PolicyTotalPay
	}
}

// Paid reports whether watching requires a recorded entitlement.
func (p PaymentPolicy) Paid() bool {
	return p != PolicyFree
}
