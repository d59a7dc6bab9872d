// Package lifecycle 异步请求（拉商品、登录）共享的状态机：
// any -> loading -> succeeded | failed
//
// 同一 store 上的请求可以重叠。每次 pending 领取一个新的序号，
// 只有最新序号的结果会落到状态上，旧请求的结果被丢弃。
package lifecycle

import (
	"errors"
	"fmt"
)

// ErrSuperseded 请求结果没有落到状态上：期间有更新的请求或被重置
var ErrSuperseded = errors.New("lifecycle: superseded by a newer request")

type Status string

const (
	Idle      Status = "idle"
	Loading   Status = "loading"
	Succeeded Status = "succeeded"
	Failed    Status = "failed"
)

// Phase 一次请求的三个动作
type Phase string

const (
	Pending   Phase = "pending"
	Fulfilled Phase = "fulfilled"
	Rejected  Phase = "rejected"
)

// Next 按阶段推进；非法迁移返回错误，状态不变
func (s Status) Next(p Phase) (Status, error) {
	switch p {
	case Pending:
		// loading -> loading 合法：新请求接管
		return Loading, nil
	case Fulfilled:
		if s != Loading {
			return s, fmt.Errorf("lifecycle: %s while %s", p, s)
		}
		return Succeeded, nil
	case Rejected:
		if s != Loading {
			return s, fmt.Errorf("lifecycle: %s while %s", p, s)
		}
		return Failed, nil
	}
	return s, fmt.Errorf("lifecycle: unknown phase %q", p)
}

func (s Status) InFlight() bool { return s == Loading }

// Current 结果是否属于最新一次请求；seq 为 0 表示不带序号，按当前请求处理
func Current(state, action uint64) bool {
	return action == 0 || action == state
}
