package privacy

import (
	"strings"
)

// MaskMSISDN masks a phone number for logging, keeping the last 4 digits.
// Example: "+1234567890" -> "+******7890"
func MaskMSISDN(msisdn string) string {
	if msisdn == "" {
		return ""
	}

	if strings.HasPrefix(msisdn, "+") {
		if len(msisdn) == 1 {
			return msisdn
		}
		if len(msisdn) <= 5 {
			return "+" + strings.Repeat("*", len(msisdn)-1)
		}
		return "+" + strings.Repeat("*", len(msisdn)-5) + msisdn[len(msisdn)-4:]
	}

	if len(msisdn) <= 4 {
		return strings.Repeat("*", len(msisdn))
	}
	return strings.Repeat("*", len(msisdn)-4) + msisdn[len(msisdn)-4:]
}
