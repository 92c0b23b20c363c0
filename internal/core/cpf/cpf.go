// Package cpf validates and formats Brazilian individual taxpayer numbers.
package cpf

import (
	"strings"
)

// Length is the number of digits of an unformatted CPF.
const Length = 11

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether s (formatted or not) is a CPF with correct check
// digits. Sequences of one repeated digit are rejected even though they
// satisfy the checksum.
func Valid(s string) bool {
	d := Digits(s)
	if len(d) != Length {
		return false
	}
	if repeated(d) {
		return false
	}
	first, second := CheckDigits(d[:9])
	return int(d[9]-'0') == first && int(d[10]-'0') == second
}

// CheckDigits computes both verifying digits for a 9-digit base.
// The base must contain exactly nine ASCII digits.
func CheckDigits(base string) (int, int) {
	first := checkDigit(base, 10)
	second := checkDigit(base+string(rune('0'+first)), 11)
	return first, second
}

func checkDigit(digits string, weight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}

// Mask formats the digits of s as 000.000.000-00. Partial input is masked
// progressively, the same way a form field does while typing.
func Mask(s string) string {
	d := Digits(s)
	if len(d) > Length {
		d = d[:Length]
	}
	var b strings.Builder
	for i, r := range d {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MaskPhone formats a Brazilian phone number as (00) 00000-0000 or
// (00) 0000-0000 depending on its length.
func MaskPhone(s string) string {
	d := Digits(s)
	if len(d) < 3 {
		return d
	}
	area, rest := d[:2], d[2:]
	if len(rest) <= 4 {
		return "(" + area + ") " + rest
	}
	split := len(rest) - 4
	return "(" + area + ") " + rest[:split] + "-" + rest[split:]
}
