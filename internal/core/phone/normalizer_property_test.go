//go:build property
// +build property

package phone_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/MuhamadAgungGumelar/cafe-order-bot/internal/core/phone"
)

// nationalNumber generates 9-digit mobile numbers ("9" followed by 8 digits).
func nationalNumber() gopter.Gen {
	return gen.SliceOfN(8, gen.IntRange(0, 9)).Map(func(ds []int) string {
		var b strings.Builder
		b.WriteByte('9')
		for _, d := range ds {
			b.WriteByte(byte('0' + d))
		}
		return b.String()
	})
}

// TestNormalizeIdempotent verifies normalize(normalize(x)) == normalize(x).
func TestNormalizeIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	n := phone.NewNormalizer("51")

	properties.Property("normalize is idempotent on arbitrary strings", prop.ForAll(
		func(raw string) bool {
			once := n.Normalize(raw)
			return n.Normalize(string(once)) == once
		},
		gen.AnyString(),
	))

	properties.Property("normalize is idempotent on numeric strings", prop.ForAll(
		func(raw string) bool {
			once := n.Normalize(raw)
			return n.Normalize(string(once)) == once
		},
		gen.NumString(),
	))

	properties.TestingRun(t)
}

// TestNormalizeCollapsesRepresentations verifies every prefix/punctuation
// variant of the same number maps to one key.
func TestNormalizeCollapsesRepresentations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	n := phone.NewNormalizer("51")

	properties.Property("variants normalize to the same key", prop.ForAll(
		func(national string) bool {
			want := phone.Canonical("+51" + national)
			variants := []string{
				national,
				"51" + national,
				"+51" + national,
				"'+51" + national,
				"'" + national,
				"whatsapp:+51" + national,
				"51" + national + "@c.us",
				"51" + national + "@s.whatsapp.net",
				"0051" + national,
				"+51 " + national[:3] + " " + national[3:6] + " " + national[6:],
			}
			for _, v := range variants {
				if n.Normalize(v) != want {
					return false
				}
			}
			return true
		},
		nationalNumber(),
	))

	properties.TestingRun(t)
}
