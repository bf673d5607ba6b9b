package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/park285/dermacare-server-go/internal/config"
)

const deepCheckTimeout = 2 * time.Second

// Pinger 는 외부 저장소 연결 확인 대상이다.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Component 는 상태 구성 요소다.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response 는 상태 응답 본문이다.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Checker 는 설정과 저장소 연결 상태를 모은다.
type Checker struct {
	cfg       *config.Config
	rateStore Pinger
	usageDB   Pinger
	startedAt time.Time
}

// NewChecker 는 Checker 를 생성한다. rateStore 와 usageDB 는 쓰지 않으면 nil 이다.
func NewChecker(cfg *config.Config, rateStore Pinger, usageDB Pinger) *Checker {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return &Checker{
		cfg:       cfg,
		rateStore: rateStore,
		usageDB:   usageDB,
		startedAt: time.Now(),
	}
}

// Collect 는 헬스 상태를 수집한다. deep 이면 저장소에 실제로 ping 한다.
func (c *Checker) Collect(ctx context.Context, deep bool) Response {
	components := map[string]Component{
		"app": {
			Status: "ok",
			Detail: map[string]any{"uptime_seconds": int(time.Since(c.startedAt).Seconds())},
		},
		"gemini":   keyComponent(c.cfg.Gemini.APIKey != "", map[string]any{"model": c.cfg.Gemini.Model}),
		"places":   keyComponent(c.cfg.Places.APIKey != "", map[string]any{"default_radius": c.cfg.Places.DefaultRadius}),
		"identity": keyComponent(c.cfg.Identity.Enabled(), map[string]any{"require_session": c.cfg.Identity.RequireSession}),
	}

	var mu sync.Mutex
	set := func(name string, component Component) {
		mu.Lock()
		components[name] = component
		mu.Unlock()
	}

	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deepCheckTimeout)
	defer cancel()

	var group errgroup.Group
	group.Go(func() error {
		set("rate_limit_store", storeComponent(checkCtx, c.rateStore, deep, "valkey"))
		return nil
	})
	group.Go(func() error {
		set("usage_db", storeComponent(checkCtx, c.usageDB, deep, "postgres"))
		return nil
	})
	_ = group.Wait()

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}
	return Response{Status: overall, Components: components}
}

func keyComponent(present bool, detail map[string]any) Component {
	detail["configured"] = present
	status := "ok"
	if !present {
		status = "degraded"
	}
	return Component{Status: status, Detail: detail}
}

func storeComponent(ctx context.Context, store Pinger, deep bool, backend string) Component {
	if store == nil {
		return Component{Status: "ok", Detail: map[string]any{"enabled": false}}
	}

	detail := map[string]any{
		"enabled":      true,
		"backend":      backend,
		"deep_checked": deep,
	}
	if !deep {
		return Component{Status: "ok", Detail: detail}
	}
	if err := store.Ping(ctx); err != nil {
		detail["connected"] = false
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}
	detail["connected"] = true
	return Component{Status: "ok", Detail: detail}
}
