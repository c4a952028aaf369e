package state

import (
	"context"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// 服务商可用性状态
const (
	StateUnconfigured = "unconfigured"
	StateAvailable    = "available"
	StateDegraded     = "degraded"
)

// 事件常量
const (
	EventSearchSucceeded = "search_succeeded"
	EventSearchFailed    = "search_failed"
)

// ProviderStatus 服务商状态快照
type ProviderStatus struct {
	State        string    `json:"state"`
	Since        time.Time `json:"since"`
	LastError    string    `json:"last_error,omitempty"`
	FailureCount int       `json:"failure_count"`
}

// ProviderMonitor 服务商可用性状态机
// 未配置 API Key 时停留在 unconfigured，不接受任何事件
type ProviderMonitor struct {
	mu            sync.RWMutex
	fsm           *fsm.FSM
	status        ProviderStatus
	onStateChange func(from, to string)
}

// NewProviderMonitor 创建状态机
func NewProviderMonitor(configured bool, onStateChange func(from, to string)) *ProviderMonitor {
	initialState := StateUnconfigured
	if configured {
		initialState = StateAvailable
	}

	m := &ProviderMonitor{
		onStateChange: onStateChange,
		status: ProviderStatus{
			State: initialState,
			Since: time.Now(),
		},
	}

	m.fsm = fsm.NewFSM(
		initialState,
		fsm.Events{
			{Name: EventSearchSucceeded, Src: []string{StateAvailable, StateDegraded}, Dst: StateAvailable},
			{Name: EventSearchFailed, Src: []string{StateAvailable, StateDegraded}, Dst: StateDegraded},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onStateChange != nil && e.Src != e.Dst {
					m.onStateChange(e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

// CurrentState 获取当前状态
func (m *ProviderMonitor) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Status 获取状态快照
func (m *ProviderMonitor) Status() ProviderStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.status
	s.State = m.fsm.Current()
	return s
}

// RecordSuccess 记录一次成功的服务商调用
func (m *ProviderMonitor) RecordSuccess() {
	m.trigger(EventSearchSucceeded, nil)
}

// RecordFailure 记录一次失败的服务商调用
func (m *ProviderMonitor) RecordFailure(err error) {
	m.trigger(EventSearchFailed, err)
}

func (m *ProviderMonitor) trigger(event string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.fsm.Can(event) {
		return
	}

	from := m.fsm.Current()
	// 自环转换返回 NoTransitionError，不影响状态
	_ = m.fsm.Event(context.Background(), event)
	to := m.fsm.Current()

	switch event {
	case EventSearchSucceeded:
		m.status.FailureCount = 0
		m.status.LastError = ""
	case EventSearchFailed:
		m.status.FailureCount++
		if cause != nil {
			m.status.LastError = cause.Error()
		}
	}

	if from != to {
		m.status.Since = time.Now()
	}
	m.status.State = to
}
