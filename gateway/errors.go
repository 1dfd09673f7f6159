package gateway

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated 凭证缺失或被后端拒绝（401），应引导重新登录，
// 与瞬时网络故障严格区分。
var ErrUnauthenticated = errors.New("gateway: unauthenticated")

// BadRequestError 后端明确拒绝的请求，携带后端给出的原文消息，直接呈现给用户。
type BadRequestError struct {
	Status  int
	Message string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("gateway: bad request (%d): %s", e.Status, e.Message)
}

// TransientError 可安全重试的失败（网络错误、5xx），调用方降级到最近一次已知值。
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("gateway: transient: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient 判断错误是否可重试。
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
