package matchmaker

import "time"

const (
	MinBots = 1
	MaxBots = 3
)

// JoinRequest 前端提交的开桌请求；Name 通常由 JWT 中间件注入
type JoinRequest struct {
	Name string `json:"name"`
	Bots int    `json:"bots" binding:"required,min=1,max=3"` // 机器人数量，桌上共 2-4 人
}

// JoinResponse 返回房间信息
type JoinResponse struct {
	RoomID string `json:"roomId"`
	Player string `json:"player"`
	Bots   int    `json:"bots"`
}

// LeaveRequest 离开房间
type LeaveRequest struct {
	Name string `json:"name"`
}

// Room 开桌结果：一名真人 + 若干机器人
type Room struct {
	ID        string    `json:"id"`
	Player    string    `json:"player"`
	Bots      int       `json:"bots"`
	CreatedAt time.Time `json:"createdAt"`
}
