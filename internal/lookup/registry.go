package lookup

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Factory 延迟构造 Backend：只有被选中的 backend 才会初始化（初始化可能需要凭据）。
type Factory func(ctx context.Context) (Backend, error)

// Registry 是 backend 工厂的只读注册表（按 name 索引）。
type Registry struct {
	byName map[string]Factory
}

type Entry struct {
	Name    string
	Factory Factory
}

func NewRegistry(entries ...Entry) (Registry, error) {
	byName := make(map[string]Factory, len(entries))
	for _, e := range entries {
		if e.Factory == nil {
			return Registry{}, fmt.Errorf("backend factory must not be nil")
		}
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			return Registry{}, fmt.Errorf("backend name must not be empty")
		}
		if _, ok := byName[name]; ok {
			return Registry{}, fmt.Errorf("duplicate backend %q", name)
		}
		byName[name] = e.Factory
	}
	return Registry{byName: byName}, nil
}

func (r Registry) Get(name string) (Factory, bool) {
	if r.byName == nil {
		return nil, false
	}
	f, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Open 构造指定 backend；未注册的 name 直接报错。
func (r Registry) Open(ctx context.Context, name string) (Backend, error) {
	f, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown backend %q (known: %s)", name, strings.Join(r.Names(), ", "))
	}
	return f(ctx)
}

// Names 返回已注册的 backend 名称（排序，便于输出稳定）。
func (r Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
