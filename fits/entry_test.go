package fits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseEntryFormat(t *testing.T) {
	f := ParseEntryFormat("A10")
	require.Equal(t, FormatChar, f.Kind)
	require.Equal(t, 10, f.Width)
	require.Equal(t, 10, f.FieldWidth())

	f = ParseEntryFormat("I5")
	require.Equal(t, FormatInt, f.Kind)
	require.Equal(t, 5, f.Width)

	f = ParseEntryFormat("F8.3")
	require.Equal(t, FormatFloat, f.Kind)
	require.Equal(t, 8, f.Width)
	require.Equal(t, 3, f.Precision)
}

func TestParseEntryFormatInvalid(t *testing.T) {
	// Parsing is total: bad codes become Invalid with the original text
	// preserved unchanged.
	for _, code := range []string{"", "A", "X10", "a10", "I", "Ifive", "F8.", "F.3", "A10.2", "I5.1"} {
		f := ParseEntryFormat(code)
		require.Equal(t, FormatInvalid, f.Kind, "code %q", code)
		require.Equal(t, code, f.Raw)
		require.Equal(t, 0, f.FieldWidth())
	}
}

func TestEntryFormatString(t *testing.T) {
	require.Equal(t, "A10", ParseEntryFormat("A10").String())
	require.Equal(t, "I5", ParseEntryFormat("I5").String())
	require.Equal(t, "F8.3", ParseEntryFormat("F8.3").String())
}

func TestEntryFromText(t *testing.T) {
	e, err := entryFromText("hello     ", ParseEntryFormat("A10"))
	require.NoError(t, err)
	require.Equal(t, FormatChar, e.Kind)
	require.Equal(t, "hello", e.Str)

	e, err = entryFromText("  -42", ParseEntryFormat("I5"))
	require.NoError(t, err)
	require.Equal(t, int64(-42), e.Int)

	e, err = entryFromText("  -3.250", ParseEntryFormat("F8.3"))
	require.NoError(t, err)
	require.Equal(t, -3.25, e.Float)
}

func TestEntryFromTextBadNumber(t *testing.T) {
	_, err := entryFromText("x42  ", ParseEntryFormat("I5"))
	require.Error(t, err)

	_, err = entryFromText("     ", ParseEntryFormat("I5"))
	require.Error(t, err)
}
