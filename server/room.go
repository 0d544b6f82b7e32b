package server

import (
	"encoding/json"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// playerInput 入站按键意图，等下一次 Tick 统一解释
type playerInput struct {
	slot    int
	keyCode int
}

// Room 一局对战：房间码、两个连接槽位与权威对局状态。
// 状态只在 Tick 协程里改写；输入与离场走带缓冲的通道，
// 网络协程不直接碰棋盘。
type Room struct {
	Code string

	state     *GameState
	frameRate int

	conns     [2]*ClientConn
	connIDs   [2]string
	occupants int

	inputChan chan playerInput
	leaveChan chan int

	running   atomic.Bool
	startOnce sync.Once
	stop      chan struct{}
	stopOnce  sync.Once

	metrics *Metrics
}

// NewRoom 创建房间并初始化对局（等待态，凑满两人才开跑）
func NewRoom(code string, gridSize, frameRate int, m *Metrics) *Room {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	return &Room{
		Code:      code,
		state:     NewGameState(gridSize, rand.New(rand.NewSource(time.Now().UnixNano()))),
		frameRate: frameRate,
		inputChan: make(chan playerInput, 64), // 足够缓冲，网络读不阻塞 Tick
		leaveChan: make(chan int, 4),
		stop:      make(chan struct{}),
		metrics:   m,
	}
}

// OnInput 记录按键意图，不立即改状态。拥塞时丢弃，保证 Tick 准时。
func (r *Room) OnInput(slot, keyCode int) {
	select {
	case r.inputChan <- playerInput{slot: slot, keyCode: keyCode}:
	default:
		r.metrics.IncInputDiscarded()
	}
}

// RequestLeave 请求在 Tick 协程里处理离场（阻塞式写入，通道有容量）
func (r *Room) RequestLeave(slot int) {
	r.leaveChan <- slot
}

// Running 房间是否已在运行态
func (r *Room) Running() bool {
	return r.running.Load()
}

// Start 启动 Tick 驱动，整个生命周期只会生效一次（第二人进场时调用）
func (r *Room) Start(rg *RoomRegistry) {
	r.startOnce.Do(func() {
		r.running.Store(true)
		go r.run(rg)
	})
}

// Stop 取消 Tick 驱动；终局时在 run 内部调用，恰好一次
func (r *Room) Stop() {
	r.stopOnce.Do(func() {
		r.running.Store(false)
		close(r.stop)
	})
}

// run 房间主循环：活性检查 → 离场 → 输入 → Tick → 广播。
// 终局或有人离场时拆除房间并自行退出。
func (r *Room) run(rg *RoomRegistry) {
	interval := time.Second / time.Duration(r.frameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	Log.Infof("room %s: game started (grid=%d fps=%d)", r.Code, r.state.GridSize, r.frameRate)

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			start := time.Now()

			// 防御：状态已被回收则自行取消，防止拆除顺序变化导致定时器泄漏
			if !rg.HasRoom(r.Code) {
				r.Stop()
				return
			}

			if slot, left := r.pollLeave(); left {
				// 对局中掉线：残局无意义，清场并让剩下的人回菜单
				Log.Infof("room %s: slot %d left mid-game, tearing down", r.Code, slot)
				r.broadcast(encodeMessage(ServerMessage{Type: msgReturnToMenu}))
				rg.RemoveRoom(r.Code)
				r.Stop()
				return
			}

			r.applyInputs()
			result := r.state.Tick()
			if result == ResultNone {
				r.broadcastState()
				r.metrics.AddTick(time.Since(start).Nanoseconds())
				continue
			}

			r.broadcastGameOver(result)
			r.broadcast(encodeMessage(ServerMessage{Type: msgReturnToMenu}))
			rg.RemoveRoom(r.Code)
			r.metrics.IncGameFinished()
			Log.Infof("room %s: game over, result=%d", r.Code, result)
			r.Stop()
			return
		}
	}
}

func (r *Room) pollLeave() (int, bool) {
	select {
	case slot := <-r.leaveChan:
		return slot, true
	default:
		return 0, false
	}
}

// applyInputs 把攒下的按键按到达顺序过一遍速度映射。
// 在这里（而不是网络协程）改 vel，保证棋盘只有一个写者。
func (r *Room) applyInputs() {
	for {
		select {
		case in := <-r.inputChan:
			p := r.state.Players[in.slot-1]
			p.Vel = UpdatedVelocity(p.Vel, in.keyCode)
			r.metrics.IncInputApplied()
		default:
			return
		}
	}
}

// broadcastState 每 Tick 把完整快照发给房间里所有连接（全量而非增量）
func (r *Room) broadcastState() {
	b, err := json.Marshal(r.state)
	if err != nil {
		Log.Errorf("room %s: marshal state: %v", r.Code, err)
		return
	}
	r.broadcast(encodeMessage(ServerMessage{Type: msgGameState, Data: string(b)}))
}

func (r *Room) broadcastGameOver(result GameResult) {
	var payload gameOverPayload
	switch result {
	case ResultWin1:
		w := 1
		payload.Winner = &w
	case ResultWin2:
		w := 2
		payload.Winner = &w
	}
	b, _ := json.Marshal(payload)
	r.broadcast(encodeMessage(ServerMessage{Type: msgGameOver, Data: string(b)}))
}

func (r *Room) broadcast(b []byte) {
	for _, c := range r.conns {
		if c != nil {
			c.Enqueue(b)
		}
	}
}
