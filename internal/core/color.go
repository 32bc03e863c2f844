package core

// Color is a terminal colour specification understood by the renderer:
// an ANSI 256 index ("245") or a hex value ("#FF6B6B").
// The zero value means the terminal default.
type Color string

// Colours used by game chrome. Tile colours come from the game palette.
const (
	ColorDefault Color = ""
	ColorBlack   Color = "#000000"
	ColorWhite   Color = "#FFFFFF"
	ColorGray    Color = "245"
	ColorDim     Color = "240"
	ColorRed     Color = "#FF6B6B"
	ColorOrange  Color = "#FEB47B"
	ColorCyan    Color = "#4ECDC4"
	ColorYellow  Color = "229"
)

// IsDefault reports whether c leaves the terminal colour unchanged.
func (c Color) IsDefault() bool {
	return c == ColorDefault
}
