package user

import (
	"sync"

	"github.com/google/uuid"
)

// SubmitGuard 同一弹窗（token）的保存在途时拒绝重复提交
type SubmitGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{inflight: map[string]struct{}{}}
}

func NewToken() string { return uuid.NewString() }

// Begin ok=false 表示已有在途提交或 token 为空
func (g *SubmitGuard) Begin(token string) (release func(), ok bool) {
	if token == "" {
		return nil, false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inflight[token]; busy {
		return nil, false
	}
	g.inflight[token] = struct{}{}
	return func() {
		g.mu.Lock()
		delete(g.inflight, token)
		g.mu.Unlock()
	}, true
}

func (g *SubmitGuard) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.inflight)
}
