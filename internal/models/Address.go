package models

import "strings"

// Address identifies an account on the custody ledger: the injector itself,
// a receiver, the keeper or the owner.
type Address string

const ZeroAddress Address = "0x0000000000000000000000000000000000000000"

// NewAddress normalizes a textual address to lower case without surrounding spaces.
func NewAddress(s string) Address {
	return Address(strings.ToLower(strings.TrimSpace(s)))
}

// IsZero reports whether a is empty or consists only of zero digits.
func (a Address) IsZero() bool {
	s := strings.TrimPrefix(strings.ToLower(string(a)), "0x")
	return strings.Trim(s, "0") == ""
}

func (a Address) String() string {
	return string(a)
}

// IsValidAddress accepts 0x-prefixed hex strings of 40 digits.
func IsValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return false
	}
	for _, c := range s[2:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func AddressesFromStrings(in []string) []Address {
	out := make([]Address, len(in))
	for i, s := range in {
		out[i] = NewAddress(s)
	}
	return out
}
