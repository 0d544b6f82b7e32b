package server

// 浏览器方向键的 keyCode
const (
	keyLeft  = 37
	keyUp    = 38
	keyRight = 39
	keyDown  = 40
)

// UpdatedVelocity 把原始键码解释为单位速度向量（纯函数，无副作用）。
// 无法识别的键码保持原速度；与当前速度恰好相反的输入同样丢弃，
// 防止蛇原地调头撞进自己脖子。
func UpdatedVelocity(cur Velocity, keyCode int) Velocity {
	var next Velocity
	switch keyCode {
	case keyLeft:
		next = Velocity{X: -1}
	case keyUp:
		next = Velocity{Y: -1}
	case keyRight:
		next = Velocity{X: 1}
	case keyDown:
		next = Velocity{Y: 1}
	default:
		return cur
	}
	if (cur.X != 0 || cur.Y != 0) && next.X == -cur.X && next.Y == -cur.Y {
		return cur
	}
	return next
}
