package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Groups 用户端的两个分组：公开的与需要会话令牌的
type Groups struct {
	Public  *gin.RouterGroup
	Session *gin.RouterGroup
}

// APIModule 模块可选择实现其中一个或两个接口
type APIModule interface{ MountAPI(Groups) }
type AdminModule interface{ MountAdmin(*gin.RouterGroup) }

// 可选：数值越小越先挂，不实现默认 100
type prioritizer interface{ Priority() int }

// Registry 每个引擎一份，不用包级全局变量
type Registry struct {
	apiMods   []APIModule
	adminMods []AdminModule
}

// Register 根据类型断言分发到 API/Admin 列表
func (r *Registry) Register(mods ...any) {
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.apiMods = append(r.apiMods, m)
		}
		if m, ok := mod.(AdminModule); ok {
			r.adminMods = append(r.adminMods, m)
		}
	}
}

func (r *Registry) MountAPI(g Groups) {
	mods := append([]APIModule(nil), r.apiMods...)
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func (r *Registry) MountAdmin(admin *gin.RouterGroup) {
	mods := append([]AdminModule(nil), r.adminMods...)
	sort.SliceStable(mods, func(i, j int) bool { return priorityOf(mods[i]) < priorityOf(mods[j]) })
	for _, m := range mods {
		m.MountAdmin(admin)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
