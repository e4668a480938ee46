package websocket

type OutgoingMessage struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// IncomingMessage 客户端上行；From 由服务端按连接身份填写
type IncomingMessage struct {
	From  string `json:"from"`
	Event string `json:"event"`
	Data  any    `json:"data"`
}
