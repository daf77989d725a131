package color

// One bit per primitive color; colorless is the zero mask. The mask of a
// multi-color identity is the bitwise OR of its components.
const (
	MaskColorless = 0
	MaskWhite     = 1 << 0
	MaskBlue      = 1 << 1
	MaskBlack     = 1 << 2
	MaskRed       = 1 << 3
	MaskGreen     = 1 << 4
)

// SymbolColorless is the catalog symbol of the colorless identity.
const SymbolColorless = "c"

// Color is one canonical color-identity row. A row must exist for every
// mask value that can occur, or mask lookups fail.
type Color struct {
	ID     string
	Symbol string
	Slug   string
	Name   string
	Mask   int
}
