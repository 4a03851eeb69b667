// Package card parses and renders FITS header cards.
//
// A FITS header is a sequence of 2880-byte blocks, each holding 36 fixed
// 80-character ASCII records ("cards") of the form
//
//	KEYWORD = value / comment
//
// terminated by the END card. This package handles single cards; assembling
// cards into a header and interpreting keyword semantics is the caller's job.
package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Width is the fixed character count of one header card.
	Width = 80
	// PerBlock is the number of cards in one 2880-byte block.
	PerBlock = 36
)

// ErrNotASCII is returned when a card contains bytes outside the printable
// ASCII range required by the FITS standard.
var ErrNotASCII = errors.New("header card contains non-ASCII bytes")

// Card is one parsed header record. Value holds the raw value text with
// string quotes stripped; ValueIsString records whether the value was quoted,
// since '123' (a string) and 123 (an integer) are different values.
type Card struct {
	Keyword       string
	Value         string
	ValueIsString bool
	Comment       string
}

// IsEnd reports whether the card is the END card closing a header.
func (c Card) IsEnd() bool {
	return c.Keyword == "END" && c.Value == ""
}

// commentary keywords carry free text instead of a value indicator.
func commentary(keyword string) bool {
	return keyword == "COMMENT" || keyword == "HISTORY" || keyword == ""
}

// Parse decodes one 80-byte card image.
func Parse(raw []byte) (Card, error) {
	if len(raw) != Width {
		return Card{}, fmt.Errorf("card image is %d bytes, want %d", len(raw), Width)
	}
	for _, b := range raw {
		if b < 0x20 || b > 0x7e {
			return Card{}, fmt.Errorf("byte 0x%02x: %w", b, ErrNotASCII)
		}
	}

	keyword := strings.TrimRight(string(raw[:8]), " ")
	if commentary(keyword) {
		return Card{Keyword: keyword, Comment: strings.TrimRight(string(raw[8:]), " ")}, nil
	}
	if string(raw[8:10]) != "= " {
		// Keyword without a value indicator (END and friends).
		return Card{Keyword: keyword, Comment: strings.TrimSpace(string(raw[8:]))}, nil
	}
	return parseValue(keyword, string(raw[10:]))
}

// parseValue splits the post-indicator text into value and comment.
func parseValue(keyword, rest string) (Card, error) {
	rest = strings.TrimLeft(rest, " ")
	if strings.HasPrefix(rest, "'") {
		return parseString(keyword, rest)
	}
	value := rest
	comment := ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		value = rest[:i]
		comment = strings.TrimSpace(rest[i+1:])
	}
	return Card{
		Keyword: keyword,
		Value:   strings.TrimSpace(value),
		Comment: comment,
	}, nil
}

// parseString decodes a quoted string value. A doubled quote inside the
// string is an escaped literal quote.
func parseString(keyword, rest string) (Card, error) {
	var sb strings.Builder
	i := 1
	closed := false
	for i < len(rest) {
		if rest[i] != '\'' {
			sb.WriteByte(rest[i])
			i++
			continue
		}
		if i+1 < len(rest) && rest[i+1] == '\'' {
			sb.WriteByte('\'')
			i += 2
			continue
		}
		closed = true
		i++
		break
	}
	if !closed {
		return Card{}, fmt.Errorf("keyword %s: unterminated string value", keyword)
	}
	comment := ""
	if k := strings.IndexByte(rest[i:], '/'); k >= 0 {
		comment = strings.TrimSpace(rest[i+k+1:])
	}
	return Card{
		Keyword:       keyword,
		Value:         strings.TrimRight(sb.String(), " "),
		ValueIsString: true,
		Comment:       comment,
	}, nil
}

// Int interprets the card value as an integer.
func (c Card) Int() (int64, error) {
	v, err := strconv.ParseInt(c.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("keyword %s: value %q is not an integer", c.Keyword, c.Value)
	}
	return v, nil
}

// Float interprets the card value as a floating-point number. FITS permits
// 'D' exponents inherited from Fortran double precision.
func (c Card) Float() (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(c.Value, "D", "E"), 64)
	if err != nil {
		return 0, fmt.Errorf("keyword %s: value %q is not a number", c.Keyword, c.Value)
	}
	return v, nil
}

// Bool interprets the card value as a FITS logical (T or F).
func (c Card) Bool() (bool, error) {
	switch c.Value {
	case "T":
		return true, nil
	case "F":
		return false, nil
	}
	return false, fmt.Errorf("keyword %s: value %q is not a logical", c.Keyword, c.Value)
}

// Render encodes the card as an 80-character image.
//
// Fixed-format conventions: the value indicator occupies columns 9-10,
// strings open at column 11, and non-string values are right-justified to
// column 30. A comment that overflows the card is cut at column 80. A string
// value too long for the card (the standard caps string values at 68
// characters) is truncated with its closing quote kept, so the rendered
// image always parses back.
func (c Card) Render() string {
	var sb strings.Builder
	if commentary(c.Keyword) {
		fmt.Fprintf(&sb, "%-8s%s", c.Keyword, c.Comment)
	} else if c.IsEnd() || (c.Value == "" && !c.ValueIsString) {
		fmt.Fprintf(&sb, "%-8s", c.Keyword)
	} else if c.ValueIsString {
		quoted := "'" + strings.ReplaceAll(c.Value, "'", "''") + "'"
		if 10+len(quoted) > Width {
			// Cutting inside an escaped '' pair would leave the string
			// unterminated, so drop any trailing quotes at the cut.
			cut := strings.TrimRight(quoted[:Width-11], "'")
			if cut == "" {
				cut = "'"
			}
			quoted = cut + "'"
		}
		fmt.Fprintf(&sb, "%-8s= %-20s", c.Keyword, quoted)
		if c.Comment != "" {
			fmt.Fprintf(&sb, " / %s", c.Comment)
		}
	} else {
		fmt.Fprintf(&sb, "%-8s= %20s", c.Keyword, c.Value)
		if c.Comment != "" {
			fmt.Fprintf(&sb, " / %s", c.Comment)
		}
	}
	out := sb.String()
	if len(out) > Width {
		return out[:Width]
	}
	return out + strings.Repeat(" ", Width-len(out))
}

// NewInt builds an integer-valued card.
func NewInt(keyword string, v int64) Card {
	return Card{Keyword: keyword, Value: strconv.FormatInt(v, 10)}
}

// NewStr builds a string-valued card.
func NewStr(keyword, v string) Card {
	return Card{Keyword: keyword, Value: v, ValueIsString: true}
}

// NewBool builds a logical-valued card.
func NewBool(keyword string, v bool) Card {
	value := "F"
	if v {
		value = "T"
	}
	return Card{Keyword: keyword, Value: value}
}

// End returns the END card.
func End() Card {
	return Card{Keyword: "END"}
}
