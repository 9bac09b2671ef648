package ussd

import "strings"

// isPIN reports whether input is exactly 4 digits
func isPIN(input string) bool {
	if len(input) != 4 {
		return false
	}
	for _, c := range input {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// isYes / isNo match the confirmation inputs case-insensitively
func isYes(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "Y")
}

func isNo(input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), "N")
}
