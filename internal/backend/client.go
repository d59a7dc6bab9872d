// Package backend 远端商城后端的 REST 客户端：商品、分类、登录、注册、下单
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

var ErrNotList = errors.New("unexpected response: not a list")

// APIError 非 2xx 响应；Message 取自响应体的 message/error/msg 字段
type APIError struct {
	Status  int
	Message string
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend %d", e.Status)
}

func (e *APIError) ServerMessage() string { return e.Message }

type Paths struct {
	Products   string `mapstructure:"products"`
	Categories string `mapstructure:"categories"`
	Login      string `mapstructure:"login"`
	Register   string `mapstructure:"register"`
	Orders     string `mapstructure:"orders"`
}

func DefaultPaths() Paths {
	return Paths{
		Products:   "/products",
		Categories: "/categories",
		Login:      "/auth/login",
		Register:   "/auth/register",
		Orders:     "/orders",
	}
}

type Config struct {
	BaseURL string
	Timeout time.Duration
	Paths   Paths
	Logger  *zap.Logger
}

type Client struct {
	baseURL    string
	paths      Paths
	httpClient *http.Client
	log        *zap.Logger
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	paths := cfg.Paths
	def := DefaultPaths()
	if paths.Products == "" {
		paths.Products = def.Products
	}
	if paths.Categories == "" {
		paths.Categories = def.Categories
	}
	if paths.Login == "" {
		paths.Login = def.Login
	}
	if paths.Register == "" {
		paths.Register = def.Register
	}
	if paths.Orders == "" {
		paths.Orders = def.Orders
	}
	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		paths:      paths,
		httpClient: &http.Client{Timeout: timeout},
		log:        l.Named("backend"),
	}
}

// do 发请求并返回已解包的响应体（兼容裸数据与 {data: ...} 两种包装）
func (c *Client) do(ctx context.Context, method, path string, in any) (gjson.Result, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read response: %w", err)
	}
	c.log.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, &APIError{Status: resp.StatusCode, Message: errorMessage(raw), Body: string(raw)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return gjson.Result{}, nil
	}
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("decode response: invalid json")
	}
	return unwrap(gjson.ParseBytes(raw)), nil
}

func unwrap(r gjson.Result) gjson.Result {
	if r.IsObject() {
		if d := r.Get("data"); d.Exists() && (d.IsObject() || d.IsArray()) {
			return d
		}
	}
	return r
}

func errorMessage(raw []byte) string {
	if !gjson.ValidBytes(raw) {
		return strings.TrimSpace(string(raw))
	}
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		return r.String()
	}
	for _, k := range []string{"message", "error", "msg", "error.message"} {
		if v := r.Get(k); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// first 返回第一个存在的字段
func first(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// ref 字段可能是 id 字符串，也可能是内嵌对象
func ref(v gjson.Result) string {
	if v.IsObject() {
		return first(v, "id", "_id").String()
	}
	return v.String()
}

func stringList(v gjson.Result) []string {
	if !v.Exists() {
		return nil
	}
	if v.IsArray() {
		var out []string
		for _, e := range v.Array() {
			if s := e.String(); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := v.String(); s != "" {
		return []string{s}
	}
	return nil
}
