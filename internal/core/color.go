package core

// Color is a semantic foreground colour for a screen cell. The platform
// layer maps each one to a terminal colour.
type Color uint8

const (
	ColorDefault Color = iota
	ColorFrame
	ColorHuman
	ColorAI
	ColorCursor
	ColorHint
	ColorTreasure
	ColorArtifact
	ColorAlert
	ColorDim
)

var colorNames = [...]string{
	ColorDefault:  "default",
	ColorFrame:    "frame",
	ColorHuman:    "human",
	ColorAI:       "ai",
	ColorCursor:   "cursor",
	ColorHint:     "hint",
	ColorTreasure: "treasure",
	ColorArtifact: "artifact",
	ColorAlert:    "alert",
	ColorDim:      "dim",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}
