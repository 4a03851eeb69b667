package fits

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/block"
	"github.com/robert-malhotra/go-fits/internal/card"
)

// File is an ordered collection of HDUs. The first HDU is the primary HDU;
// the rest are extensions.
type File struct {
	hdus []HDU
}

// New returns an empty file.
func New() *File {
	return &File{}
}

// NumHDUs returns the number of HDUs.
func (f *File) NumHDUs() int {
	return len(f.hdus)
}

// HDU returns HDU i.
func (f *File) HDU(i int) *HDU {
	return &f.hdus[i]
}

// Append adds an HDU at the end of the file.
func (f *File) Append(hdu HDU) {
	f.hdus = append(f.hdus, hdu)
}

// Open reads a FITS file from disk. The file handle lives only for the
// duration of the call.
func Open(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer fd.Close()
	return Read(fd)
}

// Read decodes HDUs from r until the stream ends.
func Read(r io.Reader) (*File, error) {
	br := block.NewReader(r)
	f := New()
	for {
		h, err := readHeader(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("HDU %d: %w", len(f.hdus), err)
		}
		data, err := decodeExtension(br, h, len(f.hdus) == 0)
		if err != nil {
			return nil, fmt.Errorf("HDU %d: %w", len(f.hdus), err)
		}
		f.Append(HDU{Header: h, Data: data})
	}
	if len(f.hdus) == 0 {
		return nil, ErrNotFITS
	}
	return f, nil
}

// decodeExtension reads one HDU's payload, dispatching on header keywords.
func decodeExtension(br *block.Reader, h *Header, primary bool) (Extension, error) {
	if primary {
		simple, err := h.Bool("SIMPLE")
		if err != nil || !simple {
			return nil, ErrNotFITS
		}
		if groups, _ := h.Bool("GROUPS"); groups {
			return decodeRandomGroups(br, h)
		}
		return decodeImageExtension(br, h)
	}

	xt, err := h.Str("XTENSION")
	if err != nil {
		return nil, err
	}
	switch strings.TrimRight(xt, " ") {
	case "IMAGE":
		return decodeImageExtension(br, h)
	case "TABLE":
		return decodeTableExtension(br, h)
	case "BINTABLE":
		return decodeBinTable(br, h)
	}
	return nil, fmt.Errorf("XTENSION %q: %w", xt, ErrUnsupported)
}

// axisShape reads NAXIS and the NAXISn keywords.
func axisShape(h *Header) ([]int, error) {
	naxis, err := h.Int("NAXIS")
	if err != nil {
		return nil, err
	}
	shape := make([]int, naxis)
	for i := range shape {
		d, err := h.Int(fmt.Sprintf("NAXIS%d", i+1))
		if err != nil {
			return nil, err
		}
		shape[i] = int(d)
	}
	return shape, nil
}

func decodeImageExtension(br *block.Reader, h *Header) (Extension, error) {
	code, err := h.Int("BITPIX")
	if err != nil {
		return nil, err
	}
	bpx, err := BitpixFromCode(code)
	if err != nil {
		return nil, err
	}
	shape, err := axisShape(h)
	if err != nil {
		return nil, err
	}
	if len(shape) == 0 {
		// NAXIS = 0: a header-only HDU with no data array.
		return nil, nil
	}
	img, err := decodeImage(br, bpx, shape)
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return &ImageExtension{Image: img}, nil
}

func decodeTableExtension(br *block.Reader, h *Header) (Extension, error) {
	rowWidth, err := h.Int("NAXIS1")
	if err != nil {
		return nil, err
	}
	rowCount, err := h.Int("NAXIS2")
	if err != nil {
		return nil, err
	}
	tfields, err := h.Int("TFIELDS")
	if err != nil {
		return nil, err
	}
	// The standard caps tables at 999 fields (TFORM keyword indices have
	// three digits at most).
	if tfields < 0 || tfields > 999 {
		return nil, fmt.Errorf("TFIELDS %d: %w", tfields, ErrGeometry)
	}

	formats := make([]string, tfields)
	labels := make([]string, tfields)
	for i := range formats {
		if formats[i], err = h.Str(fmt.Sprintf("TFORM%d", i+1)); err != nil {
			return nil, err
		}
		if c, ok := h.Get(fmt.Sprintf("TTYPE%d", i+1)); ok {
			labels[i] = strings.TrimRight(c.Value, " ")
		}
	}

	tbl, err := decodeAsciiTable(br, int(rowWidth), int(rowCount), formats, labels)
	if err != nil {
		return nil, fmt.Errorf("decoding table: %w", err)
	}
	return &TableExtension{Table: tbl}, nil
}

// decodeBinTable retains the payload bytes without interpreting them.
func decodeBinTable(br *block.Reader, h *Header) (Extension, error) {
	naxis1, err := h.Int("NAXIS1")
	if err != nil {
		return nil, err
	}
	naxis2, err := h.Int("NAXIS2")
	if err != nil {
		return nil, err
	}
	pcount, err := h.IntOr("PCOUNT", 0)
	if err != nil {
		return nil, err
	}
	if naxis1 < 0 || naxis2 < 0 || pcount < 0 {
		return nil, fmt.Errorf("binary table %dx%d, PCOUNT %d: %w", naxis1, naxis2, pcount, ErrGeometry)
	}
	size := int(naxis1*naxis2 + pcount)
	raw := make([]byte, block.Align(size))
	if err := br.ReadBlocks(raw); err != nil {
		return nil, fmt.Errorf("decoding binary table: %w", err)
	}
	return &BinTableExtension{Raw: raw[:size]}, nil
}

// decodeRandomGroups retains the payload bytes without interpreting them.
// The payload holds GCOUNT groups of PCOUNT parameters plus the group array
// (NAXIS2..NAXISn elements; NAXIS1 is zero by definition).
func decodeRandomGroups(br *block.Reader, h *Header) (Extension, error) {
	code, err := h.Int("BITPIX")
	if err != nil {
		return nil, err
	}
	bpx, err := BitpixFromCode(code)
	if err != nil {
		return nil, err
	}
	shape, err := axisShape(h)
	if err != nil {
		return nil, err
	}
	pcount, err := h.IntOr("PCOUNT", 0)
	if err != nil {
		return nil, err
	}
	gcount, err := h.IntOr("GCOUNT", 1)
	if err != nil {
		return nil, err
	}
	if pcount < 0 || gcount < 0 {
		return nil, fmt.Errorf("PCOUNT %d, GCOUNT %d: %w", pcount, gcount, ErrGeometry)
	}

	elems := int(pcount)
	groupSize := 1
	for _, d := range shape[1:] {
		if d < 0 {
			return nil, fmt.Errorf("axis length %d: %w", d, ErrGeometry)
		}
		groupSize *= d
	}
	elems += groupSize
	size := int(gcount) * elems * bpx.ByteWidth()

	raw := make([]byte, block.Align(size))
	if err := br.ReadBlocks(raw); err != nil {
		return nil, fmt.Errorf("decoding random groups: %w", err)
	}
	return &RandomGroupsExtension{Raw: raw[:size]}, nil
}

// Write encodes the file to disk. Encoding consumes any ASCII tables in the
// file: their columns move into the output buffer and cannot be reused.
func (f *File) Write(path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := f.WriteTo(fd); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

// WriteTo encodes the file to w, primary HDU first.
func (f *File) WriteTo(w io.Writer) error {
	bw := block.NewWriter(w)
	for i := range f.hdus {
		if err := writeHDU(bw, &f.hdus[i], i == 0); err != nil {
			return fmt.Errorf("HDU %d: %w", i, err)
		}
	}
	return nil
}

func writeHDU(bw *block.Writer, hdu *HDU, primary bool) error {
	switch ext := hdu.Data.(type) {
	case nil:
		h := structuralHeader(hdu.Header, primary, KindImage, Byte, nil, nil)
		return writeHeader(bw, h)
	case *ImageExtension:
		img := &ext.Image
		h := structuralHeader(hdu.Header, primary, KindImage, img.Bitpix(), img.Shape(), nil)
		if err := writeHeader(bw, h); err != nil {
			return err
		}
		return img.encodePayload(bw)
	case *TableExtension:
		if primary {
			return fmt.Errorf("ascii table cannot be the primary HDU: %w", ErrUnsupported)
		}
		plan, err := planAsciiTable(ext.Table)
		if err != nil {
			return err
		}
		fieldCards := []card.Card{card.NewInt("TFIELDS", int64(len(plan.formats)))}
		for i, f := range plan.formats {
			fieldCards = append(fieldCards,
				card.NewStr(fmt.Sprintf("TFORM%d", i+1), f.String()),
				card.NewInt(fmt.Sprintf("TBCOL%d", i+1), int64(plan.offsets[i]+1)))
			if plan.labels[i] != "" {
				fieldCards = append(fieldCards, card.NewStr(fmt.Sprintf("TTYPE%d", i+1), plan.labels[i]))
			}
		}
		h := structuralHeader(hdu.Header, primary, KindAsciiTable, Byte, []int{plan.rowWidth, plan.rows}, fieldCards)
		if err := writeHeader(bw, h); err != nil {
			return err
		}
		return plan.write(bw)
	case *BinTableExtension:
		if err := writeHeader(bw, hdu.Header); err != nil {
			return err
		}
		return bw.WritePadded(ext.Raw, 0)
	case *RandomGroupsExtension:
		if err := writeHeader(bw, hdu.Header); err != nil {
			return err
		}
		return bw.WritePadded(ext.Raw, 0)
	}
	return fmt.Errorf("%T: %w", hdu.Data, ErrUnsupported)
}

// structuralHeader builds the header to write: the structural keywords the
// payload dictates, then the HDU's own cards with any stale structural
// keywords dropped.
func structuralHeader(user *Header, primary bool, kind ExtensionKind, bpx Bitpix, shape []int, extra []card.Card) *Header {
	h := NewHeader()
	if primary {
		h.Append(card.NewBool("SIMPLE", true))
	} else {
		h.Append(card.NewStr("XTENSION", kind.String()))
	}
	h.Append(card.NewInt("BITPIX", bpx.Code()))
	h.Append(card.NewInt("NAXIS", int64(len(shape))))
	for i, d := range shape {
		h.Append(card.NewInt(fmt.Sprintf("NAXIS%d", i+1), int64(d)))
	}
	if !primary {
		h.Append(card.NewInt("PCOUNT", 0))
		h.Append(card.NewInt("GCOUNT", 1))
	}
	for _, c := range extra {
		h.Append(c)
	}
	if user != nil {
		for _, c := range user.Cards() {
			if !structuralKeyword(c.Keyword) {
				h.Append(c)
			}
		}
	}
	return h
}

func structuralKeyword(keyword string) bool {
	switch keyword {
	case "SIMPLE", "XTENSION", "BITPIX", "NAXIS", "PCOUNT", "GCOUNT", "TFIELDS", "END":
		return true
	}
	for _, prefix := range []string{"NAXIS", "TFORM", "TTYPE", "TBCOL"} {
		if strings.HasPrefix(keyword, prefix) && len(keyword) > len(prefix) {
			return true
		}
	}
	return false
}
