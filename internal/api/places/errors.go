package places

import (
	"errors"
	"fmt"
)

// ErrNotConfigured 未配置 API Key
var ErrNotConfigured = errors.New("places api key not configured")

// ProviderError 服务商调用失败（非 OK 状态、网络错误或超时）
type ProviderError struct {
	Status  string
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("places api error: %s", e.Status)
	if e.Message != "" {
		msg += " (" + e.Message + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
