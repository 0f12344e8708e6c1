package api

import (
	"fmt"

	"github.com/vovakirdan/hexhunt/internal/games/hexhunt"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/core"
	"github.com/vovakirdan/hexhunt/internal/games/hexhunt/search"
)

// MoveDTO is the wire form of a move. Kind is "edge", "portal" or "steal".
type MoveDTO struct {
	Kind   string `json:"kind"`
	Edge   int    `json:"edge,omitempty"`
	Source int    `json:"source,omitempty"`
	Target int    `json:"target,omitempty"`
}

func moveToDTO(m core.Move) MoveDTO {
	switch m.Kind {
	case core.PortalSwap:
		return MoveDTO{Kind: "portal", Source: int(m.Source), Target: int(m.Target)}
	case core.GauntletSteal:
		return MoveDTO{Kind: "steal"}
	}
	return MoveDTO{Kind: "edge", Edge: int(m.Edge)}
}

func moveFromDTO(d MoveDTO) (core.Move, error) {
	switch d.Kind {
	case "", "edge":
		return core.EdgeMove(core.EdgeID(d.Edge)), nil
	case "portal":
		return core.PortalMove(core.HexID(d.Source), core.HexID(d.Target)), nil
	case "steal":
		return core.StealMove(), nil
	default:
		return core.Move{}, fmt.Errorf("unknown move kind %q", d.Kind)
	}
}

// EdgeDTO describes one edge and who claimed it.
type EdgeDTO struct {
	ID    int    `json:"id"`
	Hexes []int  `json:"hexes"`
	Claim string `json:"claim"`
}

// HexDTO describes one hexagon.
type HexDTO struct {
	ID       int    `json:"id"`
	Q        int    `json:"q"`
	R        int    `json:"r"`
	Edges    []int  `json:"edges"`
	Claimed  int    `json:"claimed"`
	Owner    string `json:"owner"`
	Treasure string `json:"treasure,omitempty"`
	Artifact string `json:"artifact,omitempty"`
	Value    int    `json:"value"`
}

// PlayerDTO carries one player's score and flags.
type PlayerDTO struct {
	Score        int  `json:"score"`
	BonusCredits int  `json:"bonus_credits"`
	PortalSource *int `json:"portal_source,omitempty"`
	GauntletLeft int  `json:"gauntlet_left"`
	LastTreasure int  `json:"last_treasure"`
}

// StateDTO is a full snapshot of one game.
type StateDTO struct {
	ID        string    `json:"id"`
	Radius    int       `json:"radius"`
	Seed      int64     `json:"seed"`
	Turn      string    `json:"turn"`
	Human     PlayerDTO `json:"human"`
	AI        PlayerDTO `json:"ai"`
	MoveCount int       `json:"move_count"`
	Remaining int       `json:"remaining"`
	Terminal  bool      `json:"terminal"`
	Winner    string    `json:"winner,omitempty"`
	Edges     []EdgeDTO `json:"edges"`
	Hexes     []HexDTO  `json:"hexes"`
}

func playerDTO(s *core.State, p core.Player) PlayerDTO {
	d := PlayerDTO{
		Score:        s.Score(p),
		BonusCredits: s.BonusCredits(p),
		GauntletLeft: s.GauntletLeft(p),
		LastTreasure: s.LastTreasure(p),
	}
	if h, ok := s.PortalSource(p); ok {
		id := int(h)
		d.PortalSource = &id
	}
	return d
}

func stateToDTO(id string, sess *hexhunt.Session) StateDTO {
	s := sess.State()
	g := s.Grid()
	dto := StateDTO{
		ID:        id,
		Radius:    s.Radius(),
		Seed:      sess.Seed(),
		Turn:      s.Turn().String(),
		Human:     playerDTO(s, core.Human),
		AI:        playerDTO(s, core.AI),
		MoveCount: s.MoveCount(),
		Remaining: s.Remaining(),
		Terminal:  s.IsTerminal(),
		Edges:     make([]EdgeDTO, 0, g.NumEdges()),
		Hexes:     make([]HexDTO, 0, g.NumHexes()),
	}
	if sess.Finished() {
		dto.Winner = sess.Result()
	}

	for _, e := range g.Edges() {
		hexes := make([]int, 0, 2)
		for _, h := range e.Borders() {
			hexes = append(hexes, int(h))
		}
		dto.Edges = append(dto.Edges, EdgeDTO{ID: int(e.ID), Hexes: hexes, Claim: s.Claim(e.ID).String()})
	}

	for _, h := range g.Hexes() {
		edges := make([]int, 6)
		for i, e := range h.Edges {
			edges[i] = int(e)
		}
		it := s.Layout().Item(h.ID)
		hd := HexDTO{
			ID:      int(h.ID),
			Q:       h.Coord.Q,
			R:       h.Coord.R,
			Edges:   edges,
			Claimed: s.ClaimedEdges(h.ID),
			Owner:   s.Owner(h.ID).String(),
			Value:   s.Layout().Value(h.ID),
		}
		if it.Treasure != core.NoTreasure {
			hd.Treasure = it.Treasure.String()
		}
		if it.Artifact != core.NoArtifact {
			hd.Artifact = it.Artifact.String()
		}
		dto.Hexes = append(dto.Hexes, hd)
	}
	return dto
}

// CompletionDTO reports a hexagon finished by a move.
type CompletionDTO struct {
	Hex    int    `json:"hex"`
	Points int    `json:"points"`
	Item   string `json:"item,omitempty"`
}

// OutcomeDTO is what one move changed.
type OutcomeDTO struct {
	Move            MoveDTO         `json:"move"`
	Player          string          `json:"player"`
	Completed       []CompletionDTO `json:"completed"`
	Gained          int             `json:"gained"`
	BonusGranted    int             `json:"bonus_granted"`
	BonusConsumed   bool            `json:"bonus_consumed"`
	PortalGranted   bool            `json:"portal_granted"`
	PortalUsed      bool            `json:"portal_used"`
	GauntletGranted bool            `json:"gauntlet_granted"`
	GauntletExpired bool            `json:"gauntlet_expired"`
	Stolen          int             `json:"stolen"`
	ExtraTurn       bool            `json:"extra_turn"`
	Next            string          `json:"next"`
	Terminal        bool            `json:"terminal"`
}

func outcomeToDTO(o core.Outcome) OutcomeDTO {
	d := OutcomeDTO{
		Move:            moveToDTO(o.Move),
		Player:          o.Player.String(),
		Completed:       make([]CompletionDTO, 0, len(o.Completed)),
		Gained:          o.Gained,
		BonusGranted:    o.BonusGranted,
		BonusConsumed:   o.BonusConsumed,
		PortalGranted:   o.PortalGranted,
		PortalUsed:      o.PortalUsed,
		GauntletGranted: o.GauntletGranted,
		GauntletExpired: o.GauntletExpired,
		Stolen:          o.Stolen,
		ExtraTurn:       o.ExtraTurn,
		Next:            o.Next.String(),
		Terminal:        o.Terminal,
	}
	for _, c := range o.Completed {
		cd := CompletionDTO{Hex: int(c.Hex), Points: c.Points}
		switch {
		case c.Item.Treasure != core.NoTreasure:
			cd.Item = c.Item.Treasure.String()
		case c.Item.Artifact != core.NoArtifact:
			cd.Item = c.Item.Artifact.String()
		}
		d.Completed = append(d.Completed, cd)
	}
	return d
}

// StatsDTO is the engine telemetry of one search.
type StatsDTO struct {
	Depth      int     `json:"depth"`
	Nodes      int64   `json:"nodes"`
	TTProbes   int64   `json:"tt_probes"`
	TTHits     int64   `json:"tt_hits"`
	HitRate    float64 `json:"hit_rate"`
	Cutoffs    int64   `json:"cutoffs"`
	ElapsedMS  int64   `json:"elapsed_ms"`
	Aborted    bool    `json:"aborted"`
	Violations int64   `json:"invariant_violations"`
}

func statsToDTO(st search.Stats) StatsDTO {
	return StatsDTO{
		Depth:      st.Depth,
		Nodes:      st.Nodes,
		TTProbes:   st.TTProbes,
		TTHits:     st.TTHits,
		HitRate:    st.HitRate(),
		Cutoffs:    st.Cutoffs,
		ElapsedMS:  st.Elapsed.Milliseconds(),
		Aborted:    st.Aborted,
		Violations: st.InvariantViolations,
	}
}

// SearchDTO is an engine answer: the chosen move and its telemetry.
type SearchDTO struct {
	Move  MoveDTO  `json:"move"`
	Score int      `json:"score"`
	Depth int      `json:"depth"`
	Stats StatsDTO `json:"stats"`
}

func searchToDTO(r search.Result) SearchDTO {
	return SearchDTO{
		Move:  moveToDTO(r.Move),
		Score: r.Score,
		Depth: r.Depth,
		Stats: statsToDTO(r.Stats),
	}
}

// MoveResponse answers a move request.
type MoveResponse struct {
	Outcome OutcomeDTO `json:"outcome"`
	Search  *SearchDTO `json:"search,omitempty"`
	State   StateDTO   `json:"state"`
}

// TableDTO reports transposition table counters.
type TableDTO struct {
	Enabled bool    `json:"enabled"`
	Entries int     `json:"entries"`
	Probes  uint64  `json:"probes"`
	Hits    uint64  `json:"hits"`
	Stores  uint64  `json:"stores"`
	Resets  uint64  `json:"resets"`
	HitRate float64 `json:"hit_rate"`
}

func tableToDTO(t *search.Table) TableDTO {
	if t == nil {
		return TableDTO{}
	}
	st := t.Stats()
	d := TableDTO{
		Enabled: true,
		Entries: st.Entries,
		Probes:  st.Probes,
		Hits:    st.Hits,
		Stores:  st.Stores,
		Resets:  st.Resets,
	}
	if st.Probes > 0 {
		d.HitRate = float64(st.Hits) / float64(st.Probes)
	}
	return d
}
