package fits

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-fits/internal/block"
)

func buildTestFile(t *testing.T) *File {
	t.Helper()

	img, err := NewArray([]int{3, 2}, []float32{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)

	names := NewColumn[string]("TARGET", ParseEntryFormat("A8"), 0)
	mags := NewColumn[float64]("MAG", ParseEntryFormat("F6.2"), 0)
	for _, n := range []string{"vega", "sirius", "deneb"} {
		names.Push(n)
	}
	for _, m := range []float64{0.03, -1.46, 1.25} {
		mags.Push(m)
	}
	tbl := NewAsciiTable([]AsciiColumn{names, mags}, 3)

	f := New()
	f.Append(NewImageHDU(NewImage(img)))
	f.Append(NewTableHDU(tbl))
	return f
}

func TestFileRoundTrip(t *testing.T) {
	f := buildTestFile(t)

	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))
	require.Zero(t, buf.Len()%block.Size)

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 2, got.NumHDUs())

	imgExt, ok := got.HDU(0).Data.(*ImageExtension)
	require.True(t, ok)
	require.Equal(t, Float, imgExt.Image.Bitpix())
	require.Equal(t, []int{3, 2}, imgExt.Image.Shape())
	arr, err := imgExt.Image.Float32()
	require.NoError(t, err)
	require.Equal(t, []float32{1, 2, 3, 4, 5, 6}, arr.Data())

	tblExt, ok := got.HDU(1).Data.(*TableExtension)
	require.True(t, ok)
	tbl := tblExt.Table
	require.Equal(t, 2, tbl.NumCols())
	require.Equal(t, []string{"vega", "sirius", "deneb"}, tbl.Column(0).(*Column[string]).Cells())
	require.Equal(t, []float64{0.03, -1.46, 1.25}, tbl.Column(1).(*Column[float64]).Cells())
	require.Equal(t, "TARGET", tbl.Column(0).Label())
	require.Equal(t, "MAG", tbl.Column(1).Label())
}

func TestFileStructuralKeywords(t *testing.T) {
	f := buildTestFile(t)
	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	primary := got.HDU(0).Header
	simple, err := primary.Bool("SIMPLE")
	require.NoError(t, err)
	require.True(t, simple)
	bpx, err := primary.Int("BITPIX")
	require.NoError(t, err)
	require.Equal(t, int64(-32), bpx)

	table := got.HDU(1).Header
	xt, err := table.Str("XTENSION")
	require.NoError(t, err)
	require.Equal(t, "TABLE", xt)
	tfields, err := table.Int("TFIELDS")
	require.NoError(t, err)
	require.Equal(t, int64(2), tfields)
	tbcol1, err := table.Int("TBCOL1")
	require.NoError(t, err)
	require.Equal(t, int64(1), tbcol1)
}

func TestFileUserCardsSurvive(t *testing.T) {
	f := buildTestFile(t)
	f.HDU(0).Header.Append(NewStrCard("OBSERVER", "O'Brien"))
	f.HDU(0).Header.Append(NewIntCard("EXPTIME", 130))
	// Stale structural keywords in the user header must not leak through.
	f.HDU(0).Header.Append(NewIntCard("NAXIS", 99))

	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))
	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	h := got.HDU(0).Header
	obs, err := h.Str("OBSERVER")
	require.NoError(t, err)
	require.Equal(t, "O'Brien", obs)
	exp, err := h.Int("EXPTIME")
	require.NoError(t, err)
	require.Equal(t, int64(130), exp)
	naxis, err := h.Int("NAXIS")
	require.NoError(t, err)
	require.Equal(t, int64(2), naxis)
}

func TestReadNotFITS(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	require.ErrorIs(t, err, ErrNotFITS)

	// A header that parses but lacks SIMPLE is not a FITS file either.
	junk := make([]byte, block.Size)
	for i := range junk {
		junk[i] = ' '
	}
	copy(junk, NewIntCard("BITPIX", 8).Render())
	copy(junk[80:], Card{Keyword: "END"}.Render())
	_, err = Read(bytes.NewReader(junk))
	require.ErrorIs(t, err, ErrNotFITS)
}

func TestHeaderOnlyPrimary(t *testing.T) {
	f := New()
	f.Append(HDU{Header: NewHeader()})

	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))
	require.Equal(t, block.Size, buf.Len())

	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 1, got.NumHDUs())
	require.Nil(t, got.HDU(0).Data)
}

func TestBinTablePassThrough(t *testing.T) {
	payload := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	h := NewHeader()
	h.Append(NewStrCard("XTENSION", "BINTABLE"))
	h.Append(NewIntCard("BITPIX", 8))
	h.Append(NewIntCard("NAXIS", 2))
	h.Append(NewIntCard("NAXIS1", 4))
	h.Append(NewIntCard("NAXIS2", 3))
	h.Append(NewIntCard("PCOUNT", 0))
	h.Append(NewIntCard("GCOUNT", 1))
	h.Append(NewIntCard("TFIELDS", 1))

	f := buildTestFile(t)
	f.Append(HDU{Header: h, Data: &BinTableExtension{Raw: payload}})

	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))
	got, err := Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, 3, got.NumHDUs())

	bin, ok := got.HDU(2).Data.(*BinTableExtension)
	require.True(t, ok)
	require.Equal(t, payload, bin.Raw)
}

func TestCorruptTableHeaderGeometry(t *testing.T) {
	tableHeader := func(rowWidth, rowCount, tfields int64, tform string) *Header {
		h := NewHeader()
		h.Append(NewStrCard("XTENSION", "TABLE"))
		h.Append(NewIntCard("BITPIX", 8))
		h.Append(NewIntCard("NAXIS", 2))
		h.Append(NewIntCard("NAXIS1", rowWidth))
		h.Append(NewIntCard("NAXIS2", rowCount))
		h.Append(NewIntCard("TFIELDS", tfields))
		h.Append(NewStrCard("TFORM1", tform))
		return h
	}

	for name, h := range map[string]*Header{
		"negative row count":   tableHeader(4, -1, 1, "I4"),
		"negative row width":   tableHeader(-4, 1, 1, "I4"),
		"oversized TFIELDS":    tableHeader(4, 1, 100000, "I4"),
		"field wider than row": tableHeader(4, 720, 1, "A100"),
	} {
		t.Run(name, func(t *testing.T) {
			br := block.NewReader(bytes.NewReader(make([]byte, block.Size)))
			_, err := decodeTableExtension(br, h)
			require.ErrorIs(t, err, ErrGeometry)
		})
	}
}

func TestUnsupportedExtension(t *testing.T) {
	h := NewHeader()
	h.Append(NewStrCard("XTENSION", "FOREIGN"))
	h.Append(NewIntCard("BITPIX", 8))
	h.Append(NewIntCard("NAXIS", 0))

	f := buildTestFile(t)
	// Write the foreign header by hand after a valid file.
	var buf bytes.Buffer
	require.NoError(t, f.WriteTo(&buf))
	bw := block.NewWriter(&buf)
	require.NoError(t, writeHeader(bw, h))

	_, err := Read(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, ErrUnsupported)
}
