package fits

// ExtensionKind identifies the payload type of an HDU.
type ExtensionKind int

const (
	KindImage ExtensionKind = iota
	KindAsciiTable
	KindBinTable
	KindRandomGroups
)

func (k ExtensionKind) String() string {
	switch k {
	case KindImage:
		return "IMAGE"
	case KindAsciiTable:
		return "TABLE"
	case KindBinTable:
		return "BINTABLE"
	case KindRandomGroups:
		return "GROUPS"
	}
	return "UNKNOWN"
}

// Extension is one HDU's decoded payload. The concrete type is chosen by the
// decoder from header keywords, never guessed from the payload bytes.
type Extension interface {
	Kind() ExtensionKind
}

// ImageExtension holds an N-dimensional typed image payload.
type ImageExtension struct {
	Image TypedImage
}

func (*ImageExtension) Kind() ExtensionKind { return KindImage }

// TableExtension holds a decoded ASCII table.
type TableExtension struct {
	Table *AsciiTable
}

func (*TableExtension) Kind() ExtensionKind { return KindAsciiTable }

// BinTableExtension retains a binary-table payload as raw bytes. Binary
// tables share the block primitives but are not decoded into columns; the
// payload is re-emitted verbatim on write.
type BinTableExtension struct {
	Raw []byte
}

func (*BinTableExtension) Kind() ExtensionKind { return KindBinTable }

// RandomGroupsExtension retains a random-groups payload as raw bytes.
type RandomGroupsExtension struct {
	Raw []byte
}

func (*RandomGroupsExtension) Kind() ExtensionKind { return KindRandomGroups }

// HDU is one header-plus-payload unit. Data is nil for a header-only HDU
// (a primary header with NAXIS = 0).
type HDU struct {
	Header *Header
	Data   Extension
}

// NewImageHDU builds an HDU around an image payload with an empty header.
// Structural keywords are computed at write time.
func NewImageHDU(img TypedImage) HDU {
	return HDU{Header: NewHeader(), Data: &ImageExtension{Image: img}}
}

// NewTableHDU builds an HDU around an ASCII table payload with an empty
// header.
func NewTableHDU(tbl *AsciiTable) HDU {
	return HDU{Header: NewHeader(), Data: &TableExtension{Table: tbl}}
}
