package core

// EvalWeights scales the evaluator terms.
type EvalWeights struct {
	Score  int `yaml:"score" json:"score"`
	Threat int `yaml:"threat" json:"threat"`
	Win    int `yaml:"win" json:"win"`
}

// DefaultWeights returns the standard evaluator weights.
func DefaultWeights() EvalWeights {
	return EvalWeights{
		Score:  100,
		Threat: 40,
		Win:    100000,
	}
}

// Evaluate scores s from perspective's point of view with DefaultWeights.
func Evaluate(s *State, perspective Player) int {
	return EvaluateWith(s, perspective, DefaultWeights())
}

// EvaluateWith scores s from perspective's point of view.
//
// The score difference is always counted. A hexagon with five of six edges
// claimed goes to whoever moves next, so its value counts for the side to
// move. A finished board adds Win for the leader and nothing for a tie.
func EvaluateWith(s *State, perspective Player, w EvalWeights) int {
	opp := perspective.Opponent()
	diff := s.scores[perspective] - s.scores[opp]
	score := diff * w.Score

	if s.IsTerminal() {
		switch {
		case diff > 0:
			score += w.Win
		case diff < 0:
			score -= w.Win
		}
		return score
	}

	threat := 0
	for h, n := range s.counts {
		if n == 5 {
			threat += s.layout.Value(HexID(h))
		}
	}
	if s.turn == perspective {
		score += threat * w.Threat
	} else {
		score -= threat * w.Threat
	}
	return score
}
