// Package errs 定义了贯穿整个机器人的错误分类。
// 调度器根据错误类别决定回复文本与严重级别，所以所有
// 组件返回的错误都应当包裹在这里定义的哨兵错误之上。
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 目标服务器/节点不存在（用户可见，非致命）。
	ErrNotFound = errors.New("not found")
	// ErrOperation 后端拒绝或执行操作失败（用户可见，非致命）。
	ErrOperation = errors.New("operation failed")
	// ErrLedger 积分持久层失败（用户可见，按更高级别记日志）。
	ErrLedger = errors.New("ledger failure")
	// ErrDenied 权限不足。不是真正的错误：表示请求到此终止且无副作用。
	ErrDenied = errors.New("permission denied")
	// ErrConfig 缺少必需配置。仅在启动阶段出现，直接致命。
	ErrConfig = errors.New("invalid configuration")
)

// NotFound 构造一个目标未找到错误。
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Operation 构造一个后端操作失败错误。
func Operation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrOperation, fmt.Sprintf(format, args...))
}

// Ledger 将持久层错误归类为账本错误。
func Ledger(err error) error {
	return fmt.Errorf("%w: %v", ErrLedger, err)
}

// Config 构造一个配置错误。
func Config(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// IsNotFound 判断 err 是否属于未找到类别。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
