package service

import "time"

// passesLuhn implements the standard mod-10 checksum used by card
// issuers.
func passesLuhn(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	alternate := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		n := int(c - '0')
		if alternate {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alternate = !alternate
	}
	return sum%10 == 0
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// cardExpired reports whether the month/year expiry is in the past.
// A card expiring this month is still valid.
func cardExpired(month, year int, now time.Time) bool {
	if year < now.Year() {
		return true
	}
	if year == now.Year() && time.Month(month) < now.Month() {
		return true
	}
	return false
}
