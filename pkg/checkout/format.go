package checkout

import "strings"

// FormatField applies the input mask for the named form field. Unknown
// fields are returned unchanged.
func FormatField(name, value string) string {
	switch name {
	case "cardNumber":
		digits := onlyDigits(value)
		var b strings.Builder
		for i, r := range digits {
			b.WriteRune(r)
			if (i+1)%4 == 0 {
				b.WriteByte(' ')
			}
		}
		return truncate(strings.TrimSpace(b.String()), 19)
	case "expiryDate":
		digits := onlyDigits(value)
		if len(digits) >= 2 {
			digits = digits[:2] + "/" + digits[2:]
		}
		return truncate(digits, 5)
	case "cvv":
		return truncate(onlyDigits(value), 4)
	case "zipCode":
		return truncate(onlyDigits(value), 5)
	case "email":
		return strings.ToLower(value)
	}
	return value
}

// FormatForm masks every field of f.
func FormatForm(f Form) Form {
	f.Email = FormatField("email", f.Email)
	f.ZipCode = FormatField("zipCode", f.ZipCode)
	f.CardNumber = FormatField("cardNumber", f.CardNumber)
	f.ExpiryDate = FormatField("expiryDate", f.ExpiryDate)
	f.CVV = FormatField("cvv", f.CVV)
	return f
}

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
