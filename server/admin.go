package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminConfig 新房间默认参数的读取与热更新
// GET  /admin/config          返回当前默认值
// POST /admin/config          JSON 载荷更新部分字段
func (co *Coordinator) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	type cfg struct {
		GridSize  *int `json:"gridSize,omitempty"`
		FrameRate *int `json:"frameRate,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		gridSize, frameRate := co.cfg.RoomDefaults()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cfg{GridSize: &gridSize, FrameRate: &frameRate})
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.GridSize != nil {
			if err := co.cfg.SetGridSize(*body.GridSize); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		if body.FrameRate != nil {
			if err := co.cfg.SetFrameRate(*body.FrameRate); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		gridSize, frameRate := co.cfg.RoomDefaults()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infof("config updated: grid=%d fps=%d", gridSize, frameRate)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleMetrics 输出进程运行指标
// GET /metrics
func (co *Coordinator) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"active_rooms": co.registry.RoomCount(),
		"metrics":      co.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
