package table

// CardView 发给前端的牌；未翻开的牌不带点数
type CardView struct {
	ID       string `json:"id"`
	Value    *int   `json:"value,omitempty"`
	Visible  bool   `json:"visible"`
	Removed  bool   `json:"removed"`
	Position int    `json:"position"`
}

type PlayerView struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Cards    []CardView `json:"cards"`
	Finished bool       `json:"finished"`
	Score    int        `json:"score"`
	Total    int        `json:"total"`
	Current  bool       `json:"current"`
}

// View 只读快照，宿主每次转移后推送给前端
type View struct {
	Players      []PlayerView `json:"players"`
	Current      int          `json:"current"`
	DeckCount    int          `json:"deckCount"`
	OpenCard     *CardView    `json:"openCard,omitempty"`
	RevealedCard *CardView    `json:"revealedCard,omitempty"`
	Phase        GamePhase    `json:"phase"`
	ActionPhase  ActionPhase  `json:"actionPhase"`
	Round        int          `json:"round"`
	EndedBy      string       `json:"endedBy,omitempty"`
	LastTurn     bool         `json:"lastTurn"`
	Version      uint64       `json:"version"`
}

func viewCard(c Card) CardView {
	v := CardView{ID: c.ID, Visible: c.Visible, Removed: c.Removed, Position: c.Position}
	if c.Visible || c.Removed {
		val := c.Value
		v.Value = &val
	}
	return v
}

// Snapshot 构造 View
func Snapshot(s *State) View {
	v := View{
		Players:     make([]PlayerView, 0, len(s.Players)),
		Current:     s.Current,
		DeckCount:   len(s.Deck),
		Phase:       s.Phase,
		ActionPhase: s.ActionPhase(),
		Round:       s.Round,
		EndedBy:     s.EndedBy,
		LastTurn:    s.LastTurn,
		Version:     s.Version,
	}
	for i, p := range s.Players {
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Cards:    make([]CardView, 0, len(p.Hand)),
			Finished: p.Finished,
			Score:    p.Score,
			Total:    p.Total,
			Current:  i == s.Current,
		}
		for _, c := range p.Hand {
			pv.Cards = append(pv.Cards, viewCard(c))
		}
		v.Players = append(v.Players, pv)
	}
	if s.OpenCard != nil {
		oc := viewCard(*s.OpenCard)
		v.OpenCard = &oc
	}
	if rc := s.RevealedCard(); rc != nil {
		r := viewCard(*rc)
		v.RevealedCard = &r
	}
	return v
}
