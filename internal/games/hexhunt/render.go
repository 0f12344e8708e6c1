package hexhunt

import (
	"fmt"
	"strings"

	pcore "github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
)

// A hexagon is drawn in a 5x3 cell block around its centre:
//
//	 /.\
//	|   |
//	 \./
//
// Neighbouring hexagons share the glyph of their common side.
var sideCells = [6]struct {
	dx, dy int
	glyph  rune
}{
	{1, -1, '\\'},
	{2, 0, '|'},
	{1, 1, '/'},
	{-1, 1, '\\'},
	{-2, 0, '|'},
	{-1, -1, '/'},
}

type point struct{ x, y int }

// boardLayout maps grid elements to screen offsets from the centre hexagon.
type boardLayout struct {
	centers []point
	edges   []point
	glyphs  []rune
	minX    int
	maxX    int
	minY    int
	maxY    int
}

func newBoardLayout(g *core.Grid) boardLayout {
	l := boardLayout{
		centers: make([]point, g.NumHexes()),
		edges:   make([]point, g.NumEdges()),
		glyphs:  make([]rune, g.NumEdges()),
	}
	placed := make([]bool, g.NumEdges())
	for _, h := range g.Hexes() {
		c := point{x: 4*h.Coord.Q + 2*h.Coord.R, y: 2 * h.Coord.R}
		l.centers[h.ID] = c
		for side, e := range h.Edges {
			if placed[e] {
				continue
			}
			placed[e] = true
			sc := sideCells[side]
			l.edges[e] = point{x: c.x + sc.dx, y: c.y + sc.dy}
			l.glyphs[e] = sc.glyph
		}
		l.minX = min(l.minX, c.x-2)
		l.maxX = max(l.maxX, c.x+2)
		l.minY = min(l.minY, c.y-1)
		l.maxY = max(l.maxY, c.y+1)
	}
	return l
}

// Width returns the board width in cells.
func (l boardLayout) Width() int { return l.maxX - l.minX + 1 }

// Height returns the board height in cells.
func (l boardLayout) Height() int { return l.maxY - l.minY + 1 }

var treasureGlyphs = map[core.Treasure]rune{
	core.Copper:   'c',
	core.Silver:   's',
	core.Gold:     'g',
	core.Platinum: 'p',
	core.Diamond:  'd',
}

var artifactGlyphs = map[core.Artifact]rune{
	core.Hourglass: '%',
	core.Compass:   '@',
	core.Gauntlet:  '&',
}

func itemGlyph(it core.Item) (rune, pcore.Color) {
	if r, ok := artifactGlyphs[it.Artifact]; ok {
		return r, pcore.ColorArtifact
	}
	if r, ok := treasureGlyphs[it.Treasure]; ok {
		return r, pcore.ColorTreasure
	}
	return ' ', pcore.ColorDefault
}

func playerColor(p core.Player) pcore.Color {
	switch p {
	case core.Human:
		return pcore.ColorHuman
	case core.AI:
		return pcore.ColorAI
	default:
		return pcore.ColorDim
	}
}

func playerMark(p core.Player) rune {
	switch p {
	case core.Human:
		return 'H'
	case core.AI:
		return 'A'
	default:
		return ' '
	}
}

const (
	hudHeight    = 3
	footerHeight = 3
)

// Render draws the game state to the screen.
func (g *Game) Render(dst *pcore.Screen) {
	dst.Clear()

	if g.session == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	ox, oy := g.boardOrigin()
	g.renderHUD(dst)
	g.renderBoard(dst, ox, oy)
	g.renderFooter(dst)

	if g.showStats {
		g.renderStats(dst)
	}
	if g.session.Finished() {
		g.renderGameOver(dst, ox, oy)
	}
}

// boardOrigin returns the screen position of the centre hexagon.
func (g *Game) boardOrigin() (int, int) {
	bodyH := g.screenH - hudHeight - footerHeight
	ox := (g.screenW-g.layout.Width())/2 - g.layout.minX
	oy := hudHeight + (bodyH-g.layout.Height())/2 - g.layout.minY
	return ox, oy
}

func (g *Game) renderTooSmall(dst *pcore.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", pcore.ColorAlert)
	need := fmt.Sprintf("Need %dx%d for radius %d", g.minWidth(), g.minHeight(), g.radius)
	dst.DrawTextCentered(y+1, need, pcore.ColorDefault)
}

func (g *Game) renderHUD(dst *pcore.Screen) {
	s := g.session.State()
	title := fmt.Sprintf("HexHunt  radius %d  %s", g.radius, g.session.Config().AI.Difficulty)
	dst.DrawTextCentered(0, title, pcore.ColorFrame)

	you := fmt.Sprintf("You %d", s.Score(core.Human))
	ai := fmt.Sprintf("AI %d", s.Score(core.AI))
	dst.DrawTextColor(1, 1, you, pcore.ColorHuman)
	dst.DrawTextColor(g.screenW-1-len(ai), 1, ai, pcore.ColorAI)

	var status string
	switch {
	case s.IsTerminal():
		status = "Game over"
	case g.portalMode:
		status = "Portal: pick a hexagon to take"
	case s.Turn() == core.AI && g.thinking:
		status = "AI thinking..."
	case s.Turn() == core.AI:
		status = "AI to move"
	default:
		status = "Your move"
	}
	dst.DrawTextCentered(1, status, pcore.ColorDefault)

	var flags []string
	for _, p := range []core.Player{core.Human, core.AI} {
		if n := s.BonusCredits(p); n > 0 {
			flags = append(flags, fmt.Sprintf("%s bonus x%d", p, n))
		}
		if _, ok := s.PortalSource(p); ok && len(core.PortalTargets(s, p)) > 0 {
			flags = append(flags, fmt.Sprintf("%s portal ready", p))
		}
		if n := s.GauntletLeft(p); n > 0 {
			flags = append(flags, fmt.Sprintf("%s gauntlet %d left", p, n))
		}
	}
	if len(flags) > 0 {
		dst.DrawTextCentered(2, strings.Join(flags, "  "), pcore.ColorArtifact)
	}
}

func (g *Game) renderBoard(dst *pcore.Screen, ox, oy int) {
	s := g.session.State()
	grid := s.Grid()

	for _, h := range grid.Hexes() {
		c := g.layout.centers[h.ID]
		x, y := ox+c.x, oy+c.y

		dst.SetCell(x, y-1, '.', pcore.ColorDim)
		dst.SetCell(x, y+1, '.', pcore.ColorDim)

		owner := s.Owner(h.ID)
		glyph, color := itemGlyph(s.Layout().Item(h.ID))
		if owner != core.NoPlayer {
			dst.SetCell(x-1, y, playerMark(owner), playerColor(owner))
		}
		dst.SetCell(x, y, glyph, color)
		if v := s.Layout().Value(h.ID); v > 1 {
			dst.SetCell(x+1, y, rune('0'+min(v, 9)), pcore.ColorTreasure)
		}

		if g.portalMode && g.portalIndex < len(g.portalTargets) && g.portalTargets[g.portalIndex] == h.ID {
			dst.SetCell(x-1, y, '[', pcore.ColorCursor)
			dst.SetCell(x+1, y, ']', pcore.ColorCursor)
		}
	}

	lastAI, hasLastAI := g.session.LastAIMove()
	for _, e := range grid.Edges() {
		p := g.layout.edges[e.ID]
		color := playerColor(s.Claim(e.ID))
		switch {
		case !g.portalMode && g.hasCursor && e.ID == g.cursor:
			color = pcore.ColorCursor
		case g.hasHint && g.hint.Kind == core.ClaimEdge && e.ID == g.hint.Edge:
			color = pcore.ColorHint
		case hasLastAI && lastAI.Kind == core.ClaimEdge && e.ID == lastAI.Edge:
			color = pcore.ColorAlert
		}
		glyph := g.layout.glyphs[e.ID]
		if s.Claim(e.ID) == core.NoPlayer && color == pcore.ColorDim {
			glyph = ':'
		}
		dst.SetCell(ox+p.x, oy+p.y, glyph, color)
	}
}

func (g *Game) renderFooter(dst *pcore.Screen) {
	y := g.screenH - footerHeight
	switch {
	case g.note != "":
		dst.DrawTextCentered(y, g.note, pcore.ColorHint)
	case len(g.recent) > 0:
		dst.DrawTextCentered(y, strings.Join(g.recent, "; "), pcore.ColorDefault)
	}
	dst.DrawTextCentered(y+1, "c/s/g/p/d treasure  % hourglass  @ compass  & gauntlet", pcore.ColorDim)
	dst.DrawTextCentered(y+2, g.Controls(), pcore.ColorFrame)
}

func (g *Game) renderStats(dst *pcore.Screen) {
	t := g.session.Telemetry()
	lines := []string{"AI stats"}
	if res, ok := g.session.LastSearch(); ok {
		st := res.Stats
		lines = append(lines,
			fmt.Sprintf("depth   %d", st.Depth),
			fmt.Sprintf("nodes   %d", st.Nodes),
			fmt.Sprintf("cache   %d/%d", st.TTHits, st.TTProbes),
			fmt.Sprintf("time    %dms", st.Elapsed.Milliseconds()),
		)
	} else {
		lines = append(lines, "no move yet")
	}
	lines = append(lines, fmt.Sprintf("total   %d moves", t.Searches))

	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	box := pcore.NewRect(1, hudHeight, w+4, len(lines)+2)
	dst.DrawBox(box, pcore.ColorFrame)
	for i, l := range lines {
		dst.DrawText(box.X+2, box.Y+1+i, l)
	}
}

func (g *Game) renderGameOver(dst *pcore.Screen, ox, oy int) {
	s := g.session.State()
	var headline string
	switch g.session.Result() {
	case "win":
		headline = "YOU WIN"
	case "loss":
		headline = "AI WINS"
	default:
		headline = "DRAW"
	}
	lines := []string{
		headline,
		fmt.Sprintf("%d : %d", s.Score(core.Human), s.Score(core.AI)),
		"Press R to restart",
	}

	w := 0
	for _, l := range lines {
		w = max(w, len(l))
	}
	box := pcore.NewRect(ox-(w+4)/2, oy-len(lines)/2-1, w+4, len(lines)+2)
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawBox(box, pcore.ColorFrame)
	for i, l := range lines {
		dst.DrawTextColor(ox-len(l)/2, box.Y+1+i, l, pcore.ColorCursor)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows: select  Enter: claim  X: portal  G: steal  H: hint  Tab: stats  Q: quit"
}
