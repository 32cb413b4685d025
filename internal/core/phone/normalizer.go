// Package phone turns the many shapes a WhatsApp sender or a spreadsheet cell
// can take into one comparison key.
package phone

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Canonical is a normalized phone in the form "+<country code><national number>".
type Canonical string

// Invalid is returned for input that carries no digits. It never equals any
// other canonical value, itself included.
const Invalid Canonical = "invalid"

// DefaultNationalLength is the longest local number (without country code)
// accepted before a number is considered international.
const DefaultNationalLength = 9

var channelPrefixes = []string{"whatsapp:", "tel:", "sms:"}

// Normalizer canonicalizes raw phone strings.
type Normalizer struct {
	countryCode    string
	region         string
	nationalLength int
}

// NewNormalizer builds a normalizer for the given default country code ("51", "+51" and "0051" are all accepted).
func NewNormalizer(countryCode string) *Normalizer {
	cc := digitsOnly(countryCode)
	cc = strings.TrimPrefix(cc, "00")
	region := "ZZ"
	if code, err := strconv.Atoi(cc); err == nil {
		region = phonenumbers.GetRegionCodeForCountryCode(code)
	}
	return &Normalizer{
		countryCode:    cc,
		region:         region,
		nationalLength: DefaultNationalLength,
	}
}

// WithNationalLength overrides the local number length used to decide when to
// prepend the country code.
func (n *Normalizer) WithNationalLength(length int) *Normalizer {
	if length > 0 {
		n.nationalLength = length
	}
	return n
}

// CountryCode returns the configured default country code, digits only.
func (n *Normalizer) CountryCode() string {
	return n.countryCode
}

// Normalize strips channel markers, spreadsheet artifacts and punctuation and
// makes sure the result carries exactly one country code. A leading "+" or
// "00" means the country code is already present; the trunk prefix after it
// is dropped, so "+51 0987654321" and "0987654321" share a key.
func (n *Normalizer) Normalize(raw string) Canonical {
	c := n.normalizeOnce(raw)
	for i := 0; i < 3 && c.Valid(); i++ {
		next := n.normalizeOnce(string(c))
		if next == c {
			break
		}
		c = next
	}
	return c
}

func (n *Normalizer) normalizeOnce(raw string) Canonical {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "'\"`")
	s = strings.TrimSpace(s)

	lower := strings.ToLower(s)
	for _, prefix := range channelPrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			lower = lower[len(prefix):]
		}
	}

	// JIDs: 51987654321@s.whatsapp.net, 51987654321:12@s.whatsapp.net
	if at := strings.IndexByte(s, '@'); at >= 0 {
		s = s[:at]
	}
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		s = s[:colon]
	}

	digits := digitsOnly(s)
	if digits == "" {
		return Invalid
	}
	international := strings.HasPrefix(strings.TrimSpace(s), "+")
	if strings.HasPrefix(digits, "00") && len(digits) > 2 {
		digits = digits[2:]
		international = true
	}
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return Invalid
	}

	if !international {
		switch {
		case n.countryCode != "" && strings.HasPrefix(digits, n.countryCode):
		case len(digits) <= n.nationalLength:
			digits = n.countryCode + digits
		}
	}
	return n.e164("+" + digits)
}

// e164 lets the numbering plan drop a trunk prefix after the country code.
// Numbers the plan cannot parse keep their digits.
func (n *Normalizer) e164(candidate string) Canonical {
	num, err := phonenumbers.Parse(candidate, n.region)
	if err != nil {
		return Canonical(candidate)
	}
	formatted := phonenumbers.Format(num, phonenumbers.E164)
	if len(formatted) < 2 || formatted[0] != '+' {
		return Canonical(candidate)
	}
	return Canonical(formatted)
}

// Equal reports whether two raw values name the same phone.
func (n *Normalizer) Equal(a, b string) bool {
	ca, cb := n.Normalize(a), n.Normalize(b)
	return ca.Valid() && cb.Valid() && ca == cb
}

// Valid reports whether c is a usable key.
func (c Canonical) Valid() bool {
	return c != Invalid && len(c) > 1 && c[0] == '+'
}

// Digits returns the number without the leading "+", the shape whatsmeow and
// WAHA expect.
func (c Canonical) Digits() string {
	if !c.Valid() {
		return ""
	}
	return string(c[1:])
}

// WhatsAppAddress returns the "whatsapp:+..." address used by Twilio.
func (c Canonical) WhatsAppAddress() string {
	if !c.Valid() {
		return ""
	}
	return "whatsapp:" + string(c)
}

func (c Canonical) String() string {
	return string(c)
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
