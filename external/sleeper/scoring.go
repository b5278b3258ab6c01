package sleeper

import "math"

type ScoringFormat string

const (
	ScoringStandard ScoringFormat = "std"
	ScoringHalfPPR  ScoringFormat = "half_ppr"
	ScoringPPR      ScoringFormat = "ppr"
)

func ParseScoringFormat(raw string) ScoringFormat {
	switch ScoringFormat(raw) {
	case ScoringStandard, ScoringPPR:
		return ScoringFormat(raw)
	default:
		return ScoringHalfPPR
	}
}

func (f ScoringFormat) receptionValue() float64 {
	switch f {
	case ScoringStandard:
		return 0
	case ScoringPPR:
		return 1
	default:
		return 0.5
	}
}

// points returns fantasy points for the line in the given format.
func (s statLine) points(format ScoringFormat) float64 {
	var pre *float64
	switch format {
	case ScoringStandard:
		pre = s.PtsStd
	case ScoringPPR:
		pre = s.PtsPPR
	default:
		pre = s.PtsHalfPPR
	}
	if pre != nil {
		return round2(*pre)
	}

	total := s.PassYd*0.04 + s.PassTD*4 + s.PassInt*-2 +
		s.RushYd*0.1 + s.RushTD*6 +
		s.RecYd*0.1 + s.RecTD*6 + s.Rec*format.receptionValue() +
		s.FumLost*-2
	return round2(total)
}

// played reports whether the player appeared. A missing games-played count
// falls back to whether any points were scored.
func (s statLine) played(points float64) bool {
	if s.GP != nil {
		return *s.GP > 0
	}
	return points > 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
