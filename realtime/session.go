package realtime

import "sync"

// ClientKind 连接身份类别
type ClientKind int

const (
	KindScreen ClientKind = iota + 1
	KindDashboard
)

// Identity 标识一条 WebSocket 连接的归属。
// Kind == KindScreen 时 ScreenID/DeviceID 有效，
// Kind == KindDashboard 时 UserID 有效；TenantID 始终有效。
type Identity struct {
	Kind     ClientKind
	TenantID uint
	ScreenID uint
	DeviceID string
	UserID   uint
}

// sessionRegistry 维护在线连接索引：
// 每块屏幕最多一条连接，仪表盘连接按租户分组。
type sessionRegistry struct {
	mu         sync.RWMutex
	screens    map[uint]*Client
	dashboards map[uint]map[*Client]struct{}
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{
		screens:    make(map[uint]*Client),
		dashboards: make(map[uint]map[*Client]struct{}),
	}
}

// addScreen 登记屏幕连接，返回被顶替的旧连接（若有），由调用方负责关闭
func (r *sessionRegistry) addScreen(c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.screens[c.identity.ScreenID]
	if prev == c {
		return nil
	}
	r.screens[c.identity.ScreenID] = c
	return prev
}

// removeScreen 移除屏幕连接。只有当前登记的连接才会被移除，
// 返回 false 表示该连接已被新连接顶替，调用方不应再把屏幕标记为离线。
func (r *sessionRegistry) removeScreen(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.screens[c.identity.ScreenID] != c {
		return false
	}
	delete(r.screens, c.identity.ScreenID)
	return true
}

func (r *sessionRegistry) screenFor(screenID uint) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.screens[screenID]
}

func (r *sessionRegistry) addDashboard(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.dashboards[c.identity.TenantID]
	if set == nil {
		set = make(map[*Client]struct{})
		r.dashboards[c.identity.TenantID] = set
	}
	set[c] = struct{}{}
}

func (r *sessionRegistry) removeDashboard(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.dashboards[c.identity.TenantID]
	if set == nil {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(r.dashboards, c.identity.TenantID)
	}
}

// dashboardsFor 返回租户下仪表盘连接的快照，供锁外广播使用
func (r *sessionRegistry) dashboardsFor(tenantID uint) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.dashboards[tenantID]
	if len(set) == 0 {
		return nil
	}
	clients := make([]*Client, 0, len(set))
	for c := range set {
		clients = append(clients, c)
	}
	return clients
}

func (r *sessionRegistry) counts() (screens, dashboards int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	screens = len(r.screens)
	for _, set := range r.dashboards {
		dashboards += len(set)
	}
	return screens, dashboards
}
