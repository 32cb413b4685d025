package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_EquivalentRepresentations(t *testing.T) {
	n := NewNormalizer("51")
	want := Canonical("+51987654321")

	inputs := []string{
		"987654321",
		"51987654321",
		"+51987654321",
		"+51 987 654 321",
		"+51-987-654-321",
		"'51987654321",
		"'+51987654321",
		" 51987654321 ",
		"whatsapp:+51987654321",
		"WhatsApp:+51987654321",
		"51987654321@c.us",
		"51987654321@s.whatsapp.net",
		"51987654321:12@s.whatsapp.net",
		"0051987654321",
		"(51) 987-654-321",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, n.Normalize(in))
		})
	}
}

func TestNormalize_Invalid(t *testing.T) {
	n := NewNormalizer("51")

	for _, in := range []string{"", "   ", "'", "whatsapp:", "abc", "@c.us", "+", "000"} {
		got := n.Normalize(in)
		assert.Equal(t, Invalid, got, "input %q", in)
		assert.False(t, got.Valid())
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer("+51")

	for _, in := range []string{"5551", "987654321", "+14155238886", "whatsapp:+51 999 888 777", "'0051999888777"} {
		once := n.Normalize(in)
		twice := n.Normalize(string(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalize_ShortSenderGetsCountryCode(t *testing.T) {
	n := NewNormalizer("51")

	assert.Equal(t, Canonical("+515551"), n.Normalize("5551"))
	assert.Equal(t, "515551", n.Normalize("5551").Digits())
	assert.Equal(t, "whatsapp:+515551", n.Normalize("5551").WhatsAppAddress())
}

func TestNormalize_ForeignNumberKept(t *testing.T) {
	n := NewNormalizer("51")

	assert.Equal(t, Canonical("+14155238886"), n.Normalize("whatsapp:+14155238886"))
}

func TestNormalize_ExplicitCountryCodeIsNotPrefixed(t *testing.T) {
	n := NewNormalizer("51")

	cases := map[string]Canonical{
		"+1 5551234":        "+15551234",
		"001 5551234":       "+15551234",
		"+51 0987654321":    "+51987654321",
		"0987654321":        "+51987654321",
		"+44 020 7946 0958": "+442079460958",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, n.Normalize(in))
		})
	}
	assert.True(t, n.Equal("+51 0987654321", "0987654321"))
}

func TestEqual(t *testing.T) {
	n := NewNormalizer("51")

	assert.True(t, n.Equal("'+51 987654321", "987654321@c.us"))
	assert.False(t, n.Equal("987654321", "987654322"))
	assert.False(t, n.Equal("", ""), "invalid values must never match")
	assert.False(t, n.Equal("abc", "xyz"))
}

func TestCanonical_InvalidAccessors(t *testing.T) {
	assert.Equal(t, "", Invalid.Digits())
	assert.Equal(t, "", Invalid.WhatsAppAddress())
}
