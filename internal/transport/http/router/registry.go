package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule 挂到后端 /api/user；ConsoleModule 挂到控制台根路径
type APIModule interface{ MountAPI(*gin.RouterGroup) }
type ConsoleModule interface{ MountConsole(*gin.RouterGroup) }

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

func byPriority[T any](mods []T) []T {
	out := append([]T(nil), mods...)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func MountAllAPI(g *gin.RouterGroup, mods ...APIModule) {
	for _, m := range byPriority(mods) {
		m.MountAPI(g)
	}
}

func MountAllConsole(g *gin.RouterGroup, mods ...ConsoleModule) {
	for _, m := range byPriority(mods) {
		m.MountConsole(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
