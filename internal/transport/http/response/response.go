// Package response 统一响应信封 {code,msg,data}
package response

type Resp struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

// New 保证 data 不为 null
func New(code int, msg string, data interface{}) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data interface{}) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error customMsg 为空时用默认文案
func Error(code int, customMsg string) Resp {
	return ErrorWith(code, customMsg, nil)
}

// ErrorWith 失败时仍然带上数据（例如 store 的最新快照）
func ErrorWith(code int, customMsg string, data interface{}) Resp {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return New(code, msg, data)
}
