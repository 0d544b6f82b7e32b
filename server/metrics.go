package server

import "sync/atomic"

// Metrics 进程级运行指标（监控与排查用），全部原子计数
type Metrics struct {
	TickCount   int64 // 累计 Tick 次数
	TotalTickNs int64 // Tick 累计耗时（纳秒）

	InputsApplied   int64 // 生效的按键
	InputsDiscarded int64 // 通道满被丢弃的按键
	InputsIgnored   int64 // 无房间 / 无法解析被忽略的按键

	RoomsCreated  int64 // 创建过的房间
	GamesStarted  int64 // 凑满两人开跑的对局
	GamesFinished int64 // 以终局结果收尾的对局
	JoinsRejected int64 // 未知码或满员被拒的进房请求
}

func NewMetrics() *Metrics { return &Metrics{} }

func (m *Metrics) IncInputApplied()   { atomic.AddInt64(&m.InputsApplied, 1) }
func (m *Metrics) IncInputDiscarded() { atomic.AddInt64(&m.InputsDiscarded, 1) }
func (m *Metrics) IncInputIgnored()   { atomic.AddInt64(&m.InputsIgnored, 1) }
func (m *Metrics) IncRoomCreated()    { atomic.AddInt64(&m.RoomsCreated, 1) }
func (m *Metrics) IncGameStarted()    { atomic.AddInt64(&m.GamesStarted, 1) }
func (m *Metrics) IncGameFinished()   { atomic.AddInt64(&m.GamesFinished, 1) }
func (m *Metrics) IncJoinRejected()   { atomic.AddInt64(&m.JoinsRejected, 1) }

func (m *Metrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":       tick,
		"avg_tick_ms":      avgMs,
		"inputs_applied":   atomic.LoadInt64(&m.InputsApplied),
		"inputs_discarded": atomic.LoadInt64(&m.InputsDiscarded),
		"inputs_ignored":   atomic.LoadInt64(&m.InputsIgnored),
		"rooms_created":    atomic.LoadInt64(&m.RoomsCreated),
		"games_started":    atomic.LoadInt64(&m.GamesStarted),
		"games_finished":   atomic.LoadInt64(&m.GamesFinished),
		"joins_rejected":   atomic.LoadInt64(&m.JoinsRejected),
	}
}
