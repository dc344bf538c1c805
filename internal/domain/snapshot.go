package domain

// Snapshot is the read-only per-tick projection sent to observers
type Snapshot struct {
	Tick         uint64       `json:"tick"`
	Status       Status       `json:"status"`
	Topology     Topology     `json:"topology"`
	Court        Court        `json:"court"`
	Ball         BallView     `json:"ball"`
	Paddles      PaddlesView  `json:"paddles"`
	Score        Score        `json:"score"`
	Round        int          `json:"round"`
	BallSpeed    float64      `json:"ballSpeed"`
	PlayerCount  int          `json:"playerCount"`
	RecentInputs []InputEntry `json:"recentInputs"`
}

// Court is the fixed geometry displays need to draw the field
type Court struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	PaddleWidth  float64 `json:"paddleWidth"`
	PaddleHeight float64 `json:"paddleHeight"`
	PaddleMargin float64 `json:"paddleMargin"`
	BallSize     float64 `json:"ballSize"`
}

// BallView is the ball as observers see it
type BallView struct {
	Ball
	Live bool `json:"live"`
}

// PaddlesView holds both paddles
type PaddlesView struct {
	Left  PaddleView `json:"left"`
	Right PaddleView `json:"right"`
}

// PaddleView is one paddle with its vote breakdown
type PaddleView struct {
	Y          float64 `json:"y"`
	Up         int     `json:"up"`
	Down       int     `json:"down"`
	UpRatio    float64 `json:"upRatio"`
	DownRatio  float64 `json:"downRatio"`
	TotalVotes int     `json:"totalVotes"`
	Active     bool    `json:"active"`
}

// Snapshot projects the current match state
func (m *Match) Snapshot() *Snapshot {
	s := m.settings
	return &Snapshot{
		Tick:     m.tick,
		Status:   m.status,
		Topology: m.Topology(),
		Court: Court{
			Width:        s.CanvasWidth,
			Height:       s.CanvasHeight,
			PaddleWidth:  s.PaddleWidth,
			PaddleHeight: s.PaddleHeight,
			PaddleMargin: s.PaddleMargin,
			BallSize:     s.BallSize,
		},
		Ball: BallView{Ball: m.ball, Live: !m.serve.Pending()},
		Paddles: PaddlesView{
			Left:  m.paddleView(SideLeft),
			Right: m.paddleView(SideRight),
		},
		Score:        m.score,
		Round:        m.round,
		BallSpeed:    m.ballSpeed,
		PlayerCount:  m.ledger.Count(),
		RecentInputs: m.inputs.Entries(),
	}
}

func (m *Match) paddleView(side Side) PaddleView {
	t := m.ledger.Tally(side)
	up, down := t.Ratios()
	active := true
	if m.Topology() == TopologyBallTracking {
		active = m.focus == side
	}
	return PaddleView{
		Y:          m.paddles[side].Y,
		Up:         t.Up,
		Down:       t.Down,
		UpRatio:    up,
		DownRatio:  down,
		TotalVotes: t.Total(),
		Active:     active,
	}
}
