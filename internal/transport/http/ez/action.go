// Package ez 一行注册一个动作接口：绑定入参、执行、统一错误映射
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	resp "go-storefront/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Group 返回底层分组，挂非 Action 路由用
func (e EZ) Group() *gin.RouterGroup { return e.g }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindURI   Binder = "uri"   // 从 :id 之类的路径参数绑定
	BindNone  Binder = "none"  // 不绑定

	BindURIJSON Binder = "uri+json" // 路径参数 + JSON body
)

// AErr 统一错误对象；Data 非空时随错误一起返回
type AErr struct {
	Code int
	Msg  string
	Err  error
	Data any
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Conflict(msg string) error     { return &AErr{Code: resp.CodeConflict, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Upstream 后端商城调用失败；data 一般是失败后的 store 快照
func Upstream(msg string, err error, data any) error {
	return &AErr{Code: resp.CodeBadGateway, Msg: msg, Err: err, Data: data}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/cart/items/:id"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求会话（检查 sid）
	Roles   []string // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth {
			if c.GetString("sid") == "" {
				c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString("role"), a.Roles) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		case BindURIJSON:
			if bindErr = c.ShouldBindUri(&in); bindErr == nil {
				bindErr = c.ShouldBindJSON(&in)
			}
		default:
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			c.JSON(http.StatusOK, ErrorResp(err))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

// ErrorResp 把任意 error 映射成信封；非 AErr 一律 500
func ErrorResp(err error) resp.Resp {
	var ae *AErr
	if errors.As(err, &ae) {
		return resp.ErrorWith(ae.Code, ae.Error(), ae.Data)
	}
	return resp.Error(resp.CodeServerError, err.Error())
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if role == r {
			return true
		}
	}
	return false
}
