package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"plain", "harina 000"},
		{"empty", ""},
		{"separator", "a;b;c"},
		{"backslash", `C:\data\files`},
		{"newline", "line one\nline two"},
		{"all together", "a\\;b\nc;"},
		{"unicode", "dulce de leche 500g ñ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.in, Unescape(Escape(tc.in)))
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `a\;b`, Escape("a;b"))
	assert.Equal(t, `a\\b`, Escape(`a\b`))
	assert.Equal(t, `a\nb`, Escape("a\nb"))
}

func TestSplitJoinInverse(t *testing.T) {
	cases := [][]string{
		{"PAN", "Pan lactal", "10"},
		{"", "", ""},
		{"semi;colon", "back\\slash", "new\nline"},
		{"single"},
	}
	for _, fields := range cases {
		line := Join(fields...)
		require.Equal(t, fields, Split(line), "line %q", line)
	}
}

func TestSplitKeepsEmptyFields(t *testing.T) {
	assert.Equal(t, []string{"a", "", "b"}, Split("a;;b"))
	assert.Equal(t, []string{""}, Split(""))
}

func TestUnescapeLoneTrailingBackslash(t *testing.T) {
	assert.Equal(t, "abc", Unescape(`abc\`))
}
