package brackets

// Layout projection: pure geometry for bracket rendering, no state, no I/O.
//
// The vertical spacing doubles every round, which keeps the midpoint of two
// sibling matches in round R exactly on their parent slot in round R+1 for any
// bracket depth, without a second layout pass.

type LayoutConfig struct {
	CardWidth  float64 `json:"card_width"`
	CardHeight float64 `json:"card_height"`
	ColumnGap  float64 `json:"column_gap"`
	RowGap     float64 `json:"row_gap"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connector is a cubic Bezier from a match card's right edge to its parent
// card's left edge.
type Connector struct {
	Start    Point `json:"start"`
	Control1 Point `json:"control1"`
	Control2 Point `json:"control2"`
	End      Point `json:"end"`
}

func verticalSpacing(cfg LayoutConfig, round int) float64 {
	return (cfg.CardHeight + cfg.RowGap) * float64(int(1)<<uint(round-1))
}

// ComputePosition returns the top-left corner of the card for the given round
// (1-based) and slot (0-based).
func ComputePosition(cfg LayoutConfig, round, slot int) Point {
	spacing := verticalSpacing(cfg, round)
	return Point{
		X: float64(round-1) * (cfg.CardWidth + cfg.ColumnGap),
		Y: spacing/2 - cfg.CardHeight/2 + float64(slot)*spacing,
	}
}

// ComputeConnector returns the S-curve linking a match to its parent at
// (round+1, slot/2). The control points sit at the horizontal midpoint of the
// column gap. Matches of the final round have no parent; ok is false.
func ComputeConnector(cfg LayoutConfig, round, slot, totalRounds int) (Connector, bool) {
	if round >= totalRounds {
		return Connector{}, false
	}
	pos := ComputePosition(cfg, round, slot)
	parent := ComputePosition(cfg, round+1, slot/2)

	start := Point{X: pos.X + cfg.CardWidth, Y: pos.Y + cfg.CardHeight/2}
	end := Point{X: parent.X, Y: parent.Y + cfg.CardHeight/2}
	midX := start.X + cfg.ColumnGap/2

	return Connector{
		Start:    start,
		Control1: Point{X: midX, Y: start.Y},
		Control2: Point{X: midX, Y: end.Y},
		End:      end,
	}, true
}
