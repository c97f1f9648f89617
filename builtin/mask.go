package builtin

import (
	"strings"
	"unicode"
)

// stars returns n asterisks.
func stars(n int) string {
	return strings.Repeat("*", n)
}

// digitsOf keeps only the decimal digits of s.
func digitsOf(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// lastFour returns the trailing four digits of s, or false if s has fewer.
func lastFour(s string) (digits string, tail string, ok bool) {
	digits = digitsOf(s)
	if len(digits) < 4 {
		return digits, "", false
	}
	return digits, digits[len(digits)-4:], true
}

func maskSSN(s string) string {
	_, tail, ok := lastFour(s)
	if !ok {
		return stars(len(s))
	}
	return "***-**-" + tail
}

// maskEmail keeps the first character of the local part and the domain.
func maskEmail(s string) string {
	at := strings.LastIndex(s, "@")
	if at < 1 {
		return stars(len(s))
	}
	return s[:1] + "***" + s[at:]
}

func maskPhone(s string) string {
	digits, tail, ok := lastFour(s)
	switch {
	case !ok:
		return stars(len(s))
	case len(digits) >= 10 && strings.HasPrefix(s, "("):
		return "(***) ***-" + tail
	case len(digits) >= 10:
		return "***-***-" + tail
	default:
		return "***-" + tail
	}
}

// maskCard keeps the last four digits and the grouping separator, if any.
func maskCard(s string) string {
	digits, tail, ok := lastFour(s)
	if !ok {
		return stars(len(s))
	}

	var sep string
	switch {
	case strings.Contains(s, " "):
		sep = " "
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return stars(len(digits)-4) + tail
	}

	groups := make([]string, (len(digits)-1)/4, (len(digits)-1)/4+1)
	for i := range groups {
		groups[i] = "****"
	}
	return strings.Join(append(groups, tail), sep)
}

// maskIP keeps the network half of an address: two IPv4 octets or four
// IPv6 groups.
func maskIP(s string) string {
	if octets := strings.Split(s, "."); len(octets) == 4 {
		return octets[0] + "." + octets[1] + ".xxx.xxx"
	}
	if !strings.Contains(s, ":") {
		return stars(len(s))
	}
	groups, ok := ipv6Groups(s)
	if !ok {
		return stars(len(s))
	}
	return strings.Join(groups[:4], ":") + ":xxxx:xxxx:xxxx:xxxx"
}

// ipv6Groups expands "::" and returns the eight groups of an IPv6 address.
func ipv6Groups(s string) ([]string, bool) {
	head, rest, compressed := strings.Cut(s, "::")
	if !compressed {
		groups := strings.Split(s, ":")
		return groups, len(groups) == 8
	}
	if strings.Contains(rest, "::") {
		return nil, false
	}

	var left, right []string
	if head != "" {
		left = strings.Split(head, ":")
	}
	if rest != "" {
		right = strings.Split(rest, ":")
	}
	missing := 8 - len(left) - len(right)
	if missing < 0 {
		return nil, false
	}

	groups := make([]string, 0, 8)
	groups = append(groups, left...)
	for range missing {
		groups = append(groups, "0000")
	}
	return append(groups, right...), true
}

func maskUUID(s string) string {
	head, _, _ := strings.Cut(s, "-")
	if strings.Count(s, "-") != 4 {
		return stars(len(s))
	}
	return head + "-****-****-****-************"
}

// maskIBAN keeps the country code, check digits and last four characters.
func maskIBAN(s string) string {
	if len(s) <= 8 {
		return stars(len(s))
	}
	return s[:4] + stars(len(s)-8) + s[len(s)-4:]
}

// maskName keeps the first letter of every word.
func maskName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(r[0]) + stars(len(r)-1)
	}
	return strings.Join(words, " ")
}
