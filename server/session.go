package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second // 必须小于 pongWait
)

// ClientConn 单个客户端连接：唯一 ID 加一条带缓冲的发送队列。
// 所有写出都经过 writePump，Tick 协程只往队列里塞。
type ClientConn struct {
	ID string

	ws *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClientConn(id string, ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ID:   id,
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 非阻塞入队；队列满丢弃旧不如丢弃新简单，直接丢。
// 连接关闭后静默返回，广播方不用关心连接死活。
func (c *ClientConn) Enqueue(b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}

// Close 关闭发送队列与底层连接；重复调用无害
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	if c.ws != nil {
		_ = c.ws.Close()
	}
}

// writePump 独立协程，把队列写出到 WS，并周期性 ping 保活
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Coordinator 把每个连接上的事件翻译成注册表与引擎操作。
// 进程里只有一个，持有注入的注册表，不碰任何包级可变状态。
type Coordinator struct {
	cfg      *Config
	registry *RoomRegistry
	metrics  *Metrics
}

func NewCoordinator(cfg *Config, rg *RoomRegistry, m *Metrics) *Coordinator {
	return &Coordinator{cfg: cfg, registry: rg, metrics: m}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：放开来源（生产要收紧）
		return true
	},
}

// HandleWS WebSocket 接入点
func (co *Coordinator) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}
	c := NewClientConn(uuid.NewString(), ws)
	go c.writePump()
	go co.readPump(c)
}

// readPump 读取客户端消息并分发；退出时走断开善后
func (co *Coordinator) readPump(c *ClientConn) {
	defer c.Close()
	defer co.handleDisconnect(c)

	c.ws.SetReadLimit(4096)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			Log.Debugf("conn %s: bad frame: %v", c.ID, err)
			continue
		}
		switch msg.Type {
		case msgNewGame:
			co.handleNewGame(c)
		case msgJoinGame:
			co.handleJoinGame(c, msg.Code)
		case msgKeydown:
			co.handleKeydown(c, msg.KeyCode)
		default:
			Log.Debugf("conn %s: unknown message type %q", c.ID, msg.Type)
		}
	}
}

// handleNewGame 开新房：回房间码与 1 号槽位
func (co *Coordinator) handleNewGame(c *ClientConn) {
	if _, _, ok := co.registry.SessionFor(c.ID); ok {
		// 已在房间里还请求开新房：协议误用，忽略
		Log.Warnf("conn %s: newGame while already in a room", c.ID)
		return
	}
	gridSize, frameRate := co.cfg.RoomDefaults()
	room := co.registry.CreateRoom(c, gridSize, frameRate)
	co.metrics.IncRoomCreated()

	c.Enqueue(encodeMessage(ServerMessage{Type: msgGameCode, Code: room.Code}))
	c.Enqueue(encodeMessage(ServerMessage{Type: msgInit, Number: 1}))
	Log.Infof("room %s: created by conn %s", room.Code, c.ID)
}

// handleJoinGame 进房校验：未知码 / 满员 / 成功三选一答复，
// 成功后第二人就位，启动该房间的 Tick 驱动。
func (co *Coordinator) handleJoinGame(c *ClientConn, code string) {
	if _, _, ok := co.registry.SessionFor(c.ID); ok {
		Log.Warnf("conn %s: joinGame while already in a room", c.ID)
		return
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	room, res := co.registry.JoinRoom(code, c)
	switch res {
	case JoinNotFound:
		co.metrics.IncJoinRejected()
		c.Enqueue(encodeMessage(ServerMessage{Type: msgUnknownCode}))
	case JoinFull:
		co.metrics.IncJoinRejected()
		c.Enqueue(encodeMessage(ServerMessage{Type: msgTooManyPlayers}))
	case JoinOK:
		c.Enqueue(encodeMessage(ServerMessage{Type: msgInit, Number: 2}))
		co.metrics.IncGameStarted()
		room.Start(co.registry)
		Log.Infof("room %s: conn %s joined as slot 2", code, c.ID)
	}
}

// handleKeydown 按键路由到所在房间；没有活跃房间就静默忽略（不算错误）
func (co *Coordinator) handleKeydown(c *ClientConn, raw any) {
	key, ok := coerceKeyCode(raw)
	if !ok {
		Log.Debugf("conn %s: unparsable keyCode %v", c.ID, raw)
		co.metrics.IncInputIgnored()
		return
	}
	s, room, ok := co.registry.SessionFor(c.ID)
	if !ok {
		co.metrics.IncInputIgnored()
		return
	}
	room.OnInput(s.Slot, key)
}

// handleDisconnect 断开善后：等待态房间直接清掉（不留空房），
// 运行态交给 Tick 协程在下一帧拆除。
func (co *Coordinator) handleDisconnect(c *ClientConn) {
	s, room, ok := co.registry.DetachConn(c.ID)
	if !ok {
		return
	}
	if room.Running() {
		room.RequestLeave(s.Slot)
		return
	}
	co.registry.RemoveRoom(room.Code)
	Log.Infof("room %s: creator left while waiting, room removed", room.Code)
}

// coerceKeyCode 基本类型收敛：JSON 数字或数字字符串都接受
func coerceKeyCode(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
