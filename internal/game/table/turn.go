package table

// ActionPhase 回合内的子阶段
type ActionPhase string

const (
	ActionChoose         ActionPhase = "choose"
	ActionChooseRevealed ActionPhase = "choose_revealed"
	ActionSwap           ActionPhase = "swap"
	ActionReveal         ActionPhase = "reveal"
)

// Turn 回合子阶段的 tagged union。
// 每个变体只携带本阶段有效的数据：翻出的牌只存在于 ChooseRevealed 中。
type Turn interface {
	Phase() ActionPhase
	sealed()
}

// Choose 选择：拿明牌或翻牌堆
type Choose struct{}

// ChooseRevealed 已从牌堆翻出一张，等待拿取或放弃
type ChooseRevealed struct {
	Drawn Card
}

// Swap 用明牌替换自己的一张牌
type Swap struct{}

// Reveal 放弃翻出的牌后，必须翻开自己的一张牌
type Reveal struct{}

func (Choose) Phase() ActionPhase         { return ActionChoose }
func (ChooseRevealed) Phase() ActionPhase { return ActionChooseRevealed }
func (Swap) Phase() ActionPhase           { return ActionSwap }
func (Reveal) Phase() ActionPhase         { return ActionReveal }

func (Choose) sealed()         {}
func (ChooseRevealed) sealed() {}
func (Swap) sealed()           {}
func (Reveal) sealed()         {}
