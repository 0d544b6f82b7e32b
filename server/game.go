package server

import (
	"math/rand"
)

const (
	// DefaultGridSize 棋盘边长（格数），每个房间创建时固定
	DefaultGridSize = 20
	// DefaultFrameRate 每秒 Tick 次数
	DefaultFrameRate = 10
)

// Cell 棋盘格坐标，取值范围 [0, gridsize)
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Velocity 单位速度向量；零向量表示尚未开始移动
type Velocity struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Player 一条蛇：蛇身从蛇尾到蛇头有序排列（蛇头是最后一个元素）
type Player struct {
	Snake []Cell   `json:"snake"`
	Vel   Velocity `json:"vel"`
}

func (p *Player) head() Cell {
	return p.Snake[len(p.Snake)-1]
}

func (p *Player) moving() bool {
	return p.Vel.X != 0 || p.Vel.Y != 0
}

// GameState 一个房间的权威对局状态，只允许 Tick 协程改写
type GameState struct {
	Players  []*Player `json:"players"`
	Food     Cell      `json:"food"`
	GridSize int       `json:"gridsize"`

	rng *rand.Rand
}

// GameResult 单次推进的结局
type GameResult int

const (
	ResultNone GameResult = iota // 对局继续
	ResultWin1                   // 1 号槽位获胜
	ResultWin2                   // 2 号槽位获胜
	ResultDraw                   // 同一 Tick 双方出局，平局
)

// NewGameState 构造初始对局：两条三格蛇对称摆放在中线两侧，
// 初速度为零（先按方向键的一方先动），食物落在未被占用的格子上。
func NewGameState(gridSize int, rng *rand.Rand) *GameState {
	if gridSize <= 0 {
		gridSize = DefaultGridSize
	}
	row := gridSize / 2
	g := &GameState{
		Players: []*Player{
			{Snake: []Cell{{1, row}, {2, row}, {3, row}}},
			{Snake: []Cell{{gridSize - 2, row}, {gridSize - 3, row}, {gridSize - 4, row}}},
		},
		GridSize: gridSize,
		rng:      rng,
	}
	g.spawnFood()
	return g
}

// Tick 推进一步。两条蛇都相对 Tick 前的棋盘判定，先算 1 号槽位：
// 速度为零的蛇原地不动；撞墙或撞到任一蛇身（正在腾出的蛇尾除外）即出局；
// 双方同 Tick 出局判平局。吃到食物则保留蛇尾并重新放置食物。
func (g *GameState) Tick() GameResult {
	var newHead [2]Cell
	var moving, eats, lost [2]bool

	for i, p := range g.Players {
		if !p.moving() {
			continue
		}
		moving[i] = true
		h := p.head()
		newHead[i] = Cell{h.X + p.Vel.X, h.Y + p.Vel.Y}
		eats[i] = newHead[i] == g.Food
	}

	for i := range g.Players {
		if !moving[i] {
			continue
		}
		if g.outOfBounds(newHead[i]) || g.hitsSnake(newHead[i], moving, eats) {
			lost[i] = true
		}
	}
	// 迎头相撞：两个新蛇头落进同一格，双方同时出局
	if moving[0] && moving[1] && newHead[0] == newHead[1] {
		lost[0], lost[1] = true, true
	}

	switch {
	case lost[0] && lost[1]:
		return ResultDraw
	case lost[0]:
		return ResultWin2
	case lost[1]:
		return ResultWin1
	}

	grew := false
	for i, p := range g.Players {
		if !moving[i] {
			continue
		}
		p.Snake = append(p.Snake, newHead[i])
		if eats[i] {
			grew = true
		} else {
			// 前移一格：复用底层数组，避免切片只涨不缩
			p.Snake = append(p.Snake[:0], p.Snake[1:]...)
		}
	}
	if grew {
		g.spawnFood()
	}
	return ResultNone
}

func (g *GameState) outOfBounds(c Cell) bool {
	return c.X < 0 || c.X >= g.GridSize || c.Y < 0 || c.Y >= g.GridSize
}

// hitsSnake 判断格子是否撞上任一蛇身。正在移动且没吃到食物的蛇，
// 它的蛇尾本 Tick 会腾出来，不算障碍。
func (g *GameState) hitsSnake(c Cell, moving, eats [2]bool) bool {
	for j, p := range g.Players {
		body := p.Snake
		if moving[j] && !eats[j] {
			body = body[1:]
		}
		for _, cell := range body {
			if cell == c {
				return true
			}
		}
	}
	return false
}

func (g *GameState) occupied(c Cell) bool {
	for _, p := range g.Players {
		for _, cell := range p.Snake {
			if cell == c {
				return true
			}
		}
	}
	return false
}

// spawnFood 随机放置食物到未被占用的格子；棋盘被占满时放弃（理论边界）
func (g *GameState) spawnFood() {
	total := 0
	for _, p := range g.Players {
		total += len(p.Snake)
	}
	if total >= g.GridSize*g.GridSize {
		return
	}
	for {
		c := Cell{g.rng.Intn(g.GridSize), g.rng.Intn(g.GridSize)}
		if !g.occupied(c) {
			g.Food = c
			return
		}
	}
}
