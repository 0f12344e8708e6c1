package hexhunt

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexhunt/internal/config"
	pcore "github.com/vovakirdan/hexhunt/internal/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/search"
	"github.com/vovakirdan/hexhunt/internal/storage"
)

// aiDelayTicks is how many ticks the board waits before the AI starts
// thinking, so the human's last claim is visible.
const aiDelayTicks = 8

// Game is the terminal front end for one HexHunt board.
type Game struct {
	id     string
	title  string
	radius int
	cfg    config.HexHuntConfig
	logger *log.Logger

	session *Session
	layout  boardLayout
	order   []core.EdgeID // edges in screen reading order

	screenW  int
	screenH  int
	tooSmall bool

	cursor    core.EdgeID
	hasCursor bool

	portalMode    bool
	portalTargets []core.HexID
	portalIndex   int

	hint      core.Move
	hasHint   bool
	showStats bool
	note      string
	recent    []string

	aiWait   int
	thinking bool // AI search handed to the platform, result not applied yet
	cancelAI context.CancelFunc
	err      error
}

// NewGame returns a game for the configured radius. A radius above zero
// overrides the board radius of cfg.
func NewGame(id string, cfg config.HexHuntConfig, radius int) *Game {
	if radius > 0 {
		cfg.Board.Radius = radius
	}
	return &Game{
		id:     id,
		title:  fmt.Sprintf("HexHunt (radius %d)", cfg.Board.Radius),
		radius: cfg.Board.Radius,
		cfg:    cfg,
		logger: log.New(io.Discard),
	}
}

// SetLogger routes session logs to l.
func (g *Game) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Title returns the display name.
func (g *Game) Title() string { return g.title }

// Session returns the running session, nil before Reset.
func (g *Game) Session() *Session { return g.session }

// Err returns the error that stopped the last Reset, if any.
func (g *Game) Err() error { return g.err }

// Reset starts a new board laid out from cfg.Seed.
func (g *Game) Reset(cfg pcore.RuntimeConfig) {
	g.stopAI()
	g.err = nil
	s, err := NewSession(g.cfg, cfg.Seed, WithSessionLogger(g.logger))
	if err != nil {
		g.err = err
		g.session = nil
		g.logger.Error("reset failed", "err", err)
		return
	}
	g.session = s
	g.layout = newBoardLayout(s.State().Grid())
	g.order = readingOrder(g.layout)

	g.portalMode = false
	g.portalTargets = nil
	g.portalIndex = 0
	g.hasHint = false
	g.showStats = false
	g.note = ""
	g.recent = nil
	g.aiWait = 0
	g.hasCursor = false
	g.moveCursorTo(0)

	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the layout to a new terminal size without restarting.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < g.minWidth() || h < g.minHeight()
}

func (g *Game) minWidth() int {
	return max(8*g.radius+2, 60)
}

func (g *Game) minHeight() int {
	return 4*g.radius + 1 + hudHeight + footerHeight
}

func readingOrder(l boardLayout) []core.EdgeID {
	order := make([]core.EdgeID, len(l.edges))
	for i := range order {
		order[i] = core.EdgeID(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := l.edges[order[i]], l.edges[order[j]]
		if a.y != b.y {
			return a.y < b.y
		}
		return a.x < b.x
	})
	return order
}

// Step advances the game by one tick.
func (g *Game) Step(in pcore.InputFrame) pcore.StepResult {
	if g.session == nil || g.tooSmall {
		return pcore.StepResult{State: g.State()}
	}

	if in.Has(pcore.ActionStats) {
		g.showStats = !g.showStats
	}

	s := g.session.State()
	if s.IsTerminal() {
		return pcore.StepResult{State: g.State()}
	}

	if s.Turn() == core.AI {
		if g.thinking {
			return pcore.StepResult{State: g.State()}
		}
		g.aiWait++
		if g.aiWait < aiDelayTicks {
			return pcore.StepResult{State: g.State()}
		}
		work := g.thinkAI()
		return pcore.StepResult{State: g.State(), Work: work}
	}

	var events []string
	if g.portalMode {
		events = g.stepPortal(in)
	} else {
		events = g.stepEdges(in)
	}
	return pcore.StepResult{State: g.State(), Events: events}
}

func (g *Game) stepEdges(in pcore.InputFrame) []string {
	switch {
	case in.Has(pcore.ActionLeft):
		g.cycleCursor(-1)
	case in.Has(pcore.ActionRight):
		g.cycleCursor(1)
	case in.Has(pcore.ActionUp):
		g.verticalCursor(-1)
	case in.Has(pcore.ActionDown):
		g.verticalCursor(1)
	}

	if in.Has(pcore.ActionHint) {
		g.requestHint()
	}

	if in.Has(pcore.ActionPortal) {
		targets := core.PortalTargets(g.session.State(), core.Human)
		if len(targets) == 0 {
			g.note = "No portal available"
		} else {
			g.portalMode = true
			g.portalTargets = targets
			g.portalIndex = 0
			g.note = ""
		}
		return nil
	}

	if in.Has(pcore.ActionSteal) {
		if !core.CanSteal(g.session.State(), core.Human) {
			g.note = "Nothing to steal"
			return nil
		}
		return g.play(core.StealMove())
	}

	if in.Has(pcore.ActionConfirm) && g.hasCursor {
		return g.play(core.EdgeMove(g.cursor))
	}
	return nil
}

func (g *Game) stepPortal(in pcore.InputFrame) []string {
	n := len(g.portalTargets)
	switch {
	case in.Has(pcore.ActionBack), in.Has(pcore.ActionPortal):
		g.portalMode = false
		return nil
	case in.Has(pcore.ActionLeft), in.Has(pcore.ActionUp):
		g.portalIndex = pcore.Wrap(g.portalIndex-1, n)
	case in.Has(pcore.ActionRight), in.Has(pcore.ActionDown):
		g.portalIndex = pcore.Wrap(g.portalIndex+1, n)
	}

	if in.Has(pcore.ActionConfirm) {
		src, ok := g.session.State().PortalSource(core.Human)
		if !ok {
			g.portalMode = false
			return nil
		}
		g.portalMode = false
		return g.play(core.PortalMove(src, g.portalTargets[g.portalIndex]))
	}
	return nil
}

func (g *Game) play(m core.Move) []string {
	out, err := g.session.Play(m)
	if err != nil {
		g.note = err.Error()
		return nil
	}
	g.hasHint = false
	g.note = ""
	g.aiWait = 0
	g.ensureCursor()
	g.recent = describe("You", out)
	return g.recent
}

// thinkAI returns the AI turn as platform work. The search runs on the
// platform's goroutine; the returned callback plays the move back on the
// tick loop, unless the board was reset in between.
func (g *Game) thinkAI() pcore.Work {
	sess := g.session
	ctx, cancel := context.WithCancel(context.Background())
	g.thinking, g.cancelAI = true, cancel

	return func() func() []string {
		res, err := sess.ThinkAI(ctx)
		return func() []string {
			cancel()
			if g.session != sess || !g.thinking {
				return nil
			}
			g.thinking, g.cancelAI = false, nil
			return g.finishAI(res, err)
		}
	}
}

func (g *Game) finishAI(res search.Result, err error) []string {
	g.aiWait = 0
	if err != nil {
		g.note = err.Error()
		return nil
	}
	out, err := g.session.ApplyAI(res)
	if err != nil {
		g.note = err.Error()
		return nil
	}
	g.ensureCursor()
	g.recent = describe("AI", out)
	return g.recent
}

func (g *Game) stopAI() {
	if g.cancelAI != nil {
		g.cancelAI()
	}
	g.thinking, g.cancelAI = false, nil
}

func (g *Game) requestHint() {
	res, err := g.session.Hint(context.Background())
	if err != nil {
		g.note = err.Error()
		return
	}
	g.hint, g.hasHint = res.Move, true
	switch res.Move.Kind {
	case core.ClaimEdge:
		g.moveCursorTo(g.indexOf(res.Move.Edge))
		g.note = fmt.Sprintf("Hint: %s", res.Move)
	case core.GauntletSteal:
		g.note = "Hint: use the gauntlet (G)"
	default:
		g.note = fmt.Sprintf("Hint: portal to hexagon %d", res.Move.Target)
	}
}

func describe(who string, out core.Outcome) []string {
	var events []string
	for _, c := range out.Completed {
		switch {
		case c.Item.Treasure != core.NoTreasure:
			events = append(events, fmt.Sprintf("%s completed %s (+%d)", who, c.Item.Treasure, c.Points))
		default:
			events = append(events, fmt.Sprintf("%s completed a hexagon (+%d)", who, c.Points))
		}
	}
	if out.BonusGranted > 0 {
		events = append(events, fmt.Sprintf("%s found an hourglass", who))
	}
	if out.PortalGranted {
		events = append(events, fmt.Sprintf("%s found a compass", who))
	}
	if out.PortalUsed {
		events = append(events, fmt.Sprintf("%s used a portal (%+d)", who, out.Gained))
	}
	if out.GauntletGranted {
		events = append(events, fmt.Sprintf("%s found a gauntlet", who))
	}
	if out.Stolen > 0 {
		events = append(events, fmt.Sprintf("%s stole %d with the gauntlet", who, out.Stolen))
	}
	if out.GauntletExpired {
		events = append(events, fmt.Sprintf("%s let the gauntlet expire", who))
	}
	if out.BonusConsumed {
		events = append(events, fmt.Sprintf("%s spent a bonus turn", who))
	}
	if out.Terminal {
		events = append(events, "Game over")
	}
	return events
}

func (g *Game) indexOf(e core.EdgeID) int {
	for i, id := range g.order {
		if id == e {
			return i
		}
	}
	return 0
}

// moveCursorTo places the cursor on the first unclaimed edge at or after
// position i of the reading order.
func (g *Game) moveCursorTo(i int) {
	s := g.session.State()
	n := len(g.order)
	for k := 0; k < n; k++ {
		e := g.order[pcore.Wrap(i+k, n)]
		if s.Claim(e) == core.NoPlayer {
			g.cursor, g.hasCursor = e, true
			return
		}
	}
	g.hasCursor = false
}

func (g *Game) ensureCursor() {
	if !g.hasCursor || g.session.State().Claim(g.cursor) != core.NoPlayer {
		start := 0
		if g.hasCursor {
			start = g.indexOf(g.cursor)
		}
		g.moveCursorTo(start)
	}
}

func (g *Game) cycleCursor(dir int) {
	if !g.hasCursor {
		return
	}
	s := g.session.State()
	n := len(g.order)
	i := g.indexOf(g.cursor)
	for k := 1; k < n; k++ {
		e := g.order[pcore.Wrap(i+dir*k, n)]
		if s.Claim(e) == core.NoPlayer {
			g.cursor = e
			return
		}
	}
}

// verticalCursor jumps to the closest unclaimed edge on the nearest row
// above (dir < 0) or below (dir > 0).
func (g *Game) verticalCursor(dir int) {
	if !g.hasCursor {
		return
	}
	s := g.session.State()
	from := g.layout.edges[g.cursor]

	best, found := g.cursor, false
	bestDY, bestDX := 0, 0
	for _, e := range g.order {
		if s.Claim(e) != core.NoPlayer {
			continue
		}
		p := g.layout.edges[e]
		dy := (p.y - from.y) * dir
		if dy <= 0 {
			continue
		}
		dx := abs(p.x - from.x)
		if !found || dy < bestDY || (dy == bestDY && dx < bestDX) {
			best, bestDY, bestDX, found = e, dy, dx, true
		}
	}
	if found {
		g.cursor = best
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// State returns the current game state.
func (g *Game) State() pcore.GameState {
	if g.session == nil {
		return pcore.GameState{}
	}
	s := g.session.State()
	return pcore.GameState{
		Score:         s.Score(core.Human),
		OpponentScore: s.Score(core.AI),
		GameOver:      s.IsTerminal(),
		Thinking:      g.thinking,
		Result:        g.session.Result(),
	}
}

// MatchRecord summarizes a finished game for storage.
func (g *Game) MatchRecord() (storage.MatchRecord, bool) {
	if g.session == nil || !g.session.Finished() {
		return storage.MatchRecord{}, false
	}
	return g.session.Record(g.id, "tui"), true
}
