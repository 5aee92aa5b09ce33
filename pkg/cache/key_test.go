package cache

import (
	"strings"
	"testing"

	"github.com/franela/goblin"
)

func TestDeriveKey(t *testing.T) {
	g := goblin.Goblin(t)

	g.Describe("DeriveKey", func() {
		g.It("Should keep a readable slug of simple queries", func() {
			key, err := DeriveKey("mountains")

			g.Assert(err).IsNil()
			g.Assert(strings.HasPrefix(key, "mountains-")).IsTrue()
			g.Assert(len(key)).Equal(len("mountains-") + hashLength)
		})

		g.It("Should be stable for the same query", func() {
			first, _ := DeriveKey("red car")
			second, _ := DeriveKey("red car")

			g.Assert(first).Equal(second)
		})

		g.It("Should keep queries with equal slugs apart", func() {
			first, _ := DeriveKey("red car")
			second, _ := DeriveKey("red/car")

			g.Assert(strings.HasPrefix(first, "red_car-")).IsTrue()
			g.Assert(strings.HasPrefix(second, "red_car-")).IsTrue()
			g.Assert(first == second).IsFalse()
		})

		g.It("Should not allow path traversal", func() {
			key, err := DeriveKey("../../etc/passwd")

			g.Assert(err).IsNil()
			g.Assert(strings.ContainsAny(key, "/\\.")).IsFalse()
			g.Assert(strings.HasPrefix(key, "etc_passwd-")).IsTrue()
		})

		g.It("Should fall back to q when nothing of the query is kept", func() {
			key, err := DeriveKey("日本")

			g.Assert(err).IsNil()
			g.Assert(strings.HasPrefix(key, "q-")).IsTrue()
		})

		g.It("Should truncate long queries", func() {
			key, err := DeriveKey(strings.Repeat("a", 500))

			g.Assert(err).IsNil()
			g.Assert(len(key)).Equal(maxSlugLength + 1 + hashLength)
		})

		g.It("Should reject empty queries", func() {
			_, err := DeriveKey("")

			g.Assert(err).Equal(ErrInvalidQuery)
		})
	})
}
