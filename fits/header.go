package fits

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-fits/internal/block"
	"github.com/robert-malhotra/go-fits/internal/card"
)

// Card is one 80-character header record.
type Card = card.Card

// Header holds one HDU's keyword records in file order.
type Header struct {
	cards []card.Card
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	return &Header{}
}

// NewIntCard builds an integer-valued card.
func NewIntCard(keyword string, v int64) Card { return card.NewInt(keyword, v) }

// NewStrCard builds a string-valued card.
func NewStrCard(keyword, v string) Card { return card.NewStr(keyword, v) }

// NewBoolCard builds a logical-valued card.
func NewBoolCard(keyword string, v bool) Card { return card.NewBool(keyword, v) }

// Cards returns the header's cards in file order.
func (h *Header) Cards() []card.Card {
	return h.cards
}

// Append adds a card at the end of the header.
func (h *Header) Append(c card.Card) {
	h.cards = append(h.cards, c)
}

// Get returns the first card with the given keyword.
func (h *Header) Get(keyword string) (card.Card, bool) {
	for _, c := range h.cards {
		if c.Keyword == keyword {
			return c, true
		}
	}
	return card.Card{}, false
}

// Has reports whether the header contains the keyword.
func (h *Header) Has(keyword string) bool {
	_, ok := h.Get(keyword)
	return ok
}

// Int returns the keyword's value as an integer.
func (h *Header) Int(keyword string) (int64, error) {
	c, ok := h.Get(keyword)
	if !ok {
		return 0, fmt.Errorf("missing keyword %s", keyword)
	}
	return c.Int()
}

// IntOr returns the keyword's integer value, or def when the keyword is
// absent. Used for PCOUNT/GCOUNT, which older files omit.
func (h *Header) IntOr(keyword string, def int64) (int64, error) {
	c, ok := h.Get(keyword)
	if !ok {
		return def, nil
	}
	return c.Int()
}

// Str returns the keyword's value as a string.
func (h *Header) Str(keyword string) (string, error) {
	c, ok := h.Get(keyword)
	if !ok {
		return "", fmt.Errorf("missing keyword %s", keyword)
	}
	return c.Value, nil
}

// Bool returns the keyword's value as a FITS logical.
func (h *Header) Bool(keyword string) (bool, error) {
	c, ok := h.Get(keyword)
	if !ok {
		return false, fmt.Errorf("missing keyword %s", keyword)
	}
	return c.Bool()
}

// readHeader reads header blocks until the END card. Blank padding cards are
// dropped. io.EOF is returned untouched when the stream ends cleanly before
// the first block, so callers can detect the end of the HDU list.
func readHeader(r *block.Reader) (*Header, error) {
	h := NewHeader()
	buf := make([]byte, block.Size)
	for blocks := 0; ; blocks++ {
		if err := r.ReadBlocks(buf); err != nil {
			if err == io.EOF {
				if blocks == 0 {
					return nil, io.EOF
				}
				// Blocks were read but no END card appeared.
				return nil, fmt.Errorf("header missing END card: %w", io.ErrUnexpectedEOF)
			}
			return nil, fmt.Errorf("reading header block: %w", err)
		}
		for i := 0; i < card.PerBlock; i++ {
			c, err := card.Parse(buf[i*card.Width : (i+1)*card.Width])
			if err != nil {
				return nil, fmt.Errorf("header card %d: %w", len(h.cards)+1, err)
			}
			if c.IsEnd() {
				return h, nil
			}
			if c.Keyword == "" && c.Comment == "" {
				continue
			}
			h.Append(c)
		}
	}
}

// writeHeader renders the cards plus the END card and pads the final block
// with spaces.
func writeHeader(w *block.Writer, h *Header) error {
	buf := make([]byte, 0, (len(h.cards)+1)*card.Width)
	for _, c := range h.cards {
		buf = append(buf, c.Render()...)
	}
	buf = append(buf, card.End().Render()...)
	if err := w.WritePadded(buf, ' '); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	return nil
}
