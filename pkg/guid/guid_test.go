package guid

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKnownVector(t *testing.T) {
	want := Guid{
		0x28, 0x73, 0x2a, 0xc1, 0x1f, 0xf8, 0xd2, 0x11, 0xba, 0x4b, 0x00, 0xa0, 0xc9, 0x3e, 0xc9, 0x3b,
	}

	g, err := Parse("c12a7328-f81f-11d2-ba4b-00a0c93ec93b")
	require.NoError(t, err)
	assert.Equal(t, want, g)

	g, err = Parse("C12A7328-F81F-11D2-BA4B-00A0C93EC93B")
	require.NoError(t, err)
	assert.Equal(t, want, g)
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"c12a7328f81f11d2ba4b00a0c93ec93b",
		"c12a7328f81f11d2ba4b00a0c93ec93",
		"c12a7328f81f11d2ba4b00a0c93ec93$",
		"",
	}

	for _, c := range cases {
		_, err := Parse(c)
		assert.Error(t, err)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	for i := 0; i < 100; i++ {
		var g Guid
		_, err := rng.Read(g[:])
		require.NoError(t, err)

		s := g.String()
		parsed, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, g, parsed)
	}
}

func TestRenderParseCaseInsensitive(t *testing.T) {
	g, err := Parse("C12A7328-F81F-11D2-BA4B-00A0C93EC93B")
	require.NoError(t, err)

	rendered := g.String()
	assert.True(t, strings.EqualFold(rendered, "c12a7328-f81f-11d2-ba4b-00a0c93ec93b"))
}

func TestRandomIsNotNil(t *testing.T) {
	g, err := Random()
	require.NoError(t, err)
	assert.False(t, g.IsZero())
}
