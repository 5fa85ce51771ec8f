package services

import (
	"errors"
	"fmt"
)

// ErrNotFound 目标实体不存在，针对缺失实体的变更在产生任何副作用前被拒绝
var ErrNotFound = errors.New("record not found")

// ValidationError 客户端输入错误，在任何存储/缓存 I/O 之前拦截
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation 判断是否为输入校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ConflictError 唯一性冲突（用户名/邮箱已存在），显式预检而非泄露原始约束错误
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// IsConflict 判断是否为唯一性冲突
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
