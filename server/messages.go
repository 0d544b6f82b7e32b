package server

import "encoding/json"

// 双向消息类型（WebSocket 文本 JSON 信封）
const (
	// 客户端 → 服务端
	msgNewGame  = "newGame"
	msgJoinGame = "joinGame"
	msgKeydown  = "keydown"

	// 服务端 → 客户端
	msgInit           = "init"
	msgGameCode       = "gameCode"
	msgGameState      = "gameState"
	msgGameOver       = "gameOver"
	msgUnknownCode    = "unknownCode"
	msgTooManyPlayers = "tooManyPlayers"
	msgReturnToMenu   = "returnToMenu"
)

// ClientMessage 入站消息。
// 示例：{"type":"joinGame","code":"ABCDE"}、{"type":"keydown","keyCode":39}
// keyCode 留作 any：有的客户端发数字，有的发字符串，入口处做类型收敛。
type ClientMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	KeyCode any    `json:"keyCode,omitempty"`
}

// ServerMessage 出站消息。gameState / gameOver 的 data 字段
// 承载边界上序列化好的 JSON 串，与浏览器端 JSON.parse 对应。
type ServerMessage struct {
	Type   string `json:"type"`
	Number int    `json:"number,omitempty"`
	Code   string `json:"code,omitempty"`
	Data   string `json:"data,omitempty"`
}

// gameOverPayload 终局通知：平局时 winner 为 null
type gameOverPayload struct {
	Winner *int `json:"winner"`
}

func encodeMessage(m ServerMessage) []byte {
	b, _ := json.Marshal(m)
	return b
}
