package lifecycle

import "errors"

// ServerMessager 由后端错误实现：携带服务端返回的可读消息
type ServerMessager interface {
	ServerMessage() string
}

// Message 取服务端消息，拿不到就用默认文案
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var sm ServerMessager
	if errors.As(err, &sm) {
		if m := sm.ServerMessage(); m != "" {
			return m
		}
	}
	return fallback
}
