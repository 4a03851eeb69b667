package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pad(s string) []byte {
	return []byte(s + strings.Repeat(" ", Width-len(s)))
}

func TestParseInt(t *testing.T) {
	c, err := Parse(pad("BITPIX  =                   16 / bits per pixel"))
	require.NoError(t, err)
	require.Equal(t, "BITPIX", c.Keyword)
	require.Equal(t, "16", c.Value)
	require.False(t, c.ValueIsString)
	require.Equal(t, "bits per pixel", c.Comment)

	v, err := c.Int()
	require.NoError(t, err)
	require.Equal(t, int64(16), v)
}

func TestParseNegativeInt(t *testing.T) {
	c, err := Parse(pad("BITPIX  =                  -32"))
	require.NoError(t, err)
	v, err := c.Int()
	require.NoError(t, err)
	require.Equal(t, int64(-32), v)
}

func TestParseString(t *testing.T) {
	c, err := Parse(pad("XTENSION= 'TABLE   '           / ASCII table extension"))
	require.NoError(t, err)
	require.Equal(t, "XTENSION", c.Keyword)
	require.Equal(t, "TABLE", c.Value)
	require.True(t, c.ValueIsString)
	require.Equal(t, "ASCII table extension", c.Comment)
}

func TestParseStringEscapedQuote(t *testing.T) {
	c, err := Parse(pad("OBSERVER= 'O''Brien'"))
	require.NoError(t, err)
	require.Equal(t, "O'Brien", c.Value)
}

func TestParseStringUnterminated(t *testing.T) {
	_, err := Parse(pad("OBSERVER= 'whoops"))
	require.Error(t, err)
}

func TestParseBool(t *testing.T) {
	c, err := Parse(pad("SIMPLE  =                    T / conforms to FITS"))
	require.NoError(t, err)
	v, err := c.Bool()
	require.NoError(t, err)
	require.True(t, v)
}

func TestParseFloatFortranExponent(t *testing.T) {
	c, err := Parse(pad("BSCALE  =              1.25D03"))
	require.NoError(t, err)
	v, err := c.Float()
	require.NoError(t, err)
	require.Equal(t, 1250.0, v)
}

func TestParseEnd(t *testing.T) {
	c, err := Parse(pad("END"))
	require.NoError(t, err)
	require.True(t, c.IsEnd())
}

func TestParseComment(t *testing.T) {
	c, err := Parse(pad("COMMENT here be dragons"))
	require.NoError(t, err)
	require.Equal(t, "COMMENT", c.Keyword)
	require.Equal(t, "here be dragons", c.Comment)
}

func TestParseNonASCII(t *testing.T) {
	raw := pad("SIMPLE  =                    T")
	raw[40] = 0x01
	_, err := Parse(raw)
	require.ErrorIs(t, err, ErrNotASCII)
}

func TestParseWrongLength(t *testing.T) {
	_, err := Parse([]byte("SIMPLE"))
	require.Error(t, err)
}

func TestRenderRoundTrip(t *testing.T) {
	cards := []Card{
		NewBool("SIMPLE", true),
		NewInt("BITPIX", -64),
		NewInt("NAXIS", 2),
		NewStr("XTENSION", "TABLE"),
		NewStr("OBSERVER", "O'Brien"),
		End(),
	}
	for _, c := range cards {
		img := c.Render()
		require.Len(t, img, Width)

		got, err := Parse([]byte(img))
		require.NoError(t, err)
		require.Equal(t, c.Keyword, got.Keyword)
		require.Equal(t, c.Value, got.Value)
		require.Equal(t, c.ValueIsString, got.ValueIsString)
	}
}

func TestRenderFixedFormat(t *testing.T) {
	img := NewInt("NAXIS1", 100).Render()
	// Non-string values are right-justified to column 30.
	require.Equal(t, "NAXIS1  =                  100", img[:30])
}

func TestRenderOverlongStringStaysParseable(t *testing.T) {
	long := strings.Repeat("x", 100)
	img := NewStr("LONGVAL", long).Render()
	require.Len(t, img, Width)

	// The value is truncated to fit the card, closing quote intact.
	got, err := Parse([]byte(img))
	require.NoError(t, err)
	require.True(t, got.ValueIsString)
	require.Equal(t, long[:Width-12], got.Value)
}

func TestRenderOverlongStringCutAtEscapedQuote(t *testing.T) {
	// Force the truncation point to land inside an escaped '' pair.
	long := strings.Repeat("y", 66) + "'" + strings.Repeat("z", 30)
	img := NewStr("LONGVAL", long).Render()
	require.Len(t, img, Width)

	got, err := Parse([]byte(img))
	require.NoError(t, err)
	require.True(t, got.ValueIsString)
}

func TestRenderOverlongCommentTruncated(t *testing.T) {
	c := NewInt("EXPTIME", 30)
	c.Comment = strings.Repeat("a very long remark ", 10)
	img := c.Render()
	require.Len(t, img, Width)

	got, err := Parse([]byte(img))
	require.NoError(t, err)
	require.Equal(t, "30", got.Value)
}
