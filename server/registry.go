package server

import "sync"

// JoinResult 加入房间的三种结局
type JoinResult int

const (
	JoinNotFound JoinResult = iota // 房间码不存在（或已无人）
	JoinFull                       // 房间已满两人
	JoinOK                         // 成功进入 2 号槽位
)

// Session 每个连接的会话记录：所在房间与槽位。
// 显式保存在注册表里，而不是动态挂在连接对象上。
type Session struct {
	RoomCode string
	Slot     int
}

// RoomRegistry 管理房间生命周期与连接归属。
// 由进程级入口构造一次后注入，不用包级单例；读写都在锁内，
// 房间内部状态则只归各自的 Tick 协程管。
type RoomRegistry struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	sessions map[string]*Session // 连接 ID → 会话，常数时间路由输入

	newCode func() string // 可注入，测试里固定房间码
	metrics *Metrics
}

// NewRoomRegistry 构造注册表；newCode 传 nil 使用默认房间码生成器
func NewRoomRegistry(newCode func() string, m *Metrics) *RoomRegistry {
	if newCode == nil {
		newCode = NewRoomCode
	}
	return &RoomRegistry{
		rooms:    make(map[string]*Room),
		sessions: make(map[string]*Session),
		newCode:  newCode,
		metrics:  m,
	}
}

// CreateRoom 创建新房间并把创建者放进 1 号槽位（房间进入等待态）
func (rg *RoomRegistry) CreateRoom(c *ClientConn, gridSize, frameRate int) *Room {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	code := rg.newCode()
	for {
		if _, exists := rg.rooms[code]; !exists {
			break
		}
		code = rg.newCode()
	}

	r := NewRoom(code, gridSize, frameRate, rg.metrics)
	r.conns[0] = c
	r.connIDs[0] = c.ID
	r.occupants = 1
	rg.rooms[code] = r
	rg.sessions[c.ID] = &Session{RoomCode: code, Slot: 1}
	return r
}

// JoinRoom 校验房间码并把连接放进 2 号槽位。
// 满员与未知码都是正常业务结果，由调用方用专门消息答复客户端。
func (rg *RoomRegistry) JoinRoom(code string, c *ClientConn) (*Room, JoinResult) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	r, ok := rg.rooms[code]
	if !ok || r.occupants == 0 {
		return nil, JoinNotFound
	}
	if r.occupants >= 2 {
		return nil, JoinFull
	}
	r.conns[1] = c
	r.connIDs[1] = c.ID
	r.occupants = 2
	rg.sessions[c.ID] = &Session{RoomCode: code, Slot: 2}
	return r, JoinOK
}

// SessionFor 按连接 ID 查会话与所在房间（输入路由热路径）
func (rg *RoomRegistry) SessionFor(connID string) (*Session, *Room, bool) {
	rg.mu.RLock()
	defer rg.mu.RUnlock()

	s, ok := rg.sessions[connID]
	if !ok {
		return nil, nil, false
	}
	r, ok := rg.rooms[s.RoomCode]
	if !ok {
		return nil, nil, false
	}
	return s, r, true
}

// DetachConn 在连接断开时摘除会话，返回其原会话与房间。
// 房间本身的善后由调用方决定（等待态直接删，运行态交给 Tick 协程）。
func (rg *RoomRegistry) DetachConn(connID string) (*Session, *Room, bool) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	s, ok := rg.sessions[connID]
	if !ok {
		return nil, nil, false
	}
	delete(rg.sessions, connID)
	r, ok := rg.rooms[s.RoomCode]
	if !ok {
		return nil, nil, false
	}
	return s, r, true
}

// RemoveRoom 删除房间及其成员会话；重复调用无害
func (rg *RoomRegistry) RemoveRoom(code string) {
	rg.mu.Lock()
	defer rg.mu.Unlock()

	r, ok := rg.rooms[code]
	if !ok {
		return
	}
	delete(rg.rooms, code)
	for _, id := range r.connIDs {
		if id != "" {
			delete(rg.sessions, id)
		}
	}
}

// HasRoom 供 Tick 协程做活性检查：状态没了就该自行取消
func (rg *RoomRegistry) HasRoom(code string) bool {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	_, ok := rg.rooms[code]
	return ok
}

// RoomCount 当前活跃房间数（监控用）
func (rg *RoomRegistry) RoomCount() int {
	rg.mu.RLock()
	defer rg.mu.RUnlock()
	return len(rg.rooms)
}
