// Package phone reconciles Brazilian mobile numbers written with or without
// the country code and with or without the mobile "9" prefix.
package phone

import "strings"

const countryCode = "55"

// Digits strips everything that is not 0-9.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// withCountry prefixes 55 to local numbers (up to 11 digits) that lack it.
func withCountry(digits string) string {
	if !strings.HasPrefix(digits, countryCode) && len(digits) <= 11 {
		return countryCode + digits
	}
	return digits
}

// Normalize returns the 13-digit standard (55 + area code + 9 + 8 digits)
// when the input allows it. It is idempotent.
func Normalize(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}

	full := withCountry(digits)
	if len(full) == 12 && strings.HasPrefix(full, countryCode) {
		return insertNine(full)
	}
	return full
}

// Variations returns the other plausible spellings of the same number: with
// and without the mobile 9, with and without the country code. The input
// itself (and its country-prefixed form) is never part of the result.
func Variations(raw string) []string {
	digits := Digits(raw)
	if digits == "" {
		return nil
	}

	full := withCountry(digits)
	var out []string
	seen := map[string]bool{digits: true, full: true}
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}

	if !strings.HasPrefix(full, countryCode) {
		return nil
	}

	switch len(full) {
	case 12:
		with9 := insertNine(full)
		add(with9)
		add(strings.TrimPrefix(with9, countryCode))
		add(strings.TrimPrefix(full, countryCode))
	case 13:
		if full[4] == '9' {
			without9 := full[:4] + full[5:]
			add(without9)
			add(strings.TrimPrefix(full, countryCode))
			add(strings.TrimPrefix(without9, countryCode))
		}
	}
	return out
}

// Candidates lists every representation worth querying for raw, most
// specific first: normalized standard, raw digits, then variations.
func Candidates(raw string) []string {
	digits := Digits(raw)
	if digits == "" {
		return nil
	}

	var out []string
	seen := map[string]bool{}
	for _, v := range append([]string{Normalize(digits), digits}, Variations(digits)...) {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ForMessaging returns the number the messaging gateway expects.
func ForMessaging(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}
	return withCountry(digits)
}

func insertNine(full string) string {
	return full[:4] + "9" + full[4:]
}
