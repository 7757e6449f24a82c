package service

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-warranty/internal/warranty/repository"
)

// 引擎错误分类：NotFound / InvalidInput / InvalidState 是可恢复失败，
// NotCovered 是业务性拒绝（带原因）。存储层故障原样向上传递。

// NotFoundError 引用的实体不存在
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidInputError 必填字段缺失或枚举值非法
type InvalidInputError struct {
	Msg string
}

func (e *InvalidInputError) Error() string {
	return e.Msg
}

// InvalidStateError 当前状态不允许该操作
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string {
	return e.Msg
}

// ConflictError 唯一性约束冲突（如重复邮箱）
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

// NotCoveredError 保修核验未通过，理赔不可提交
type NotCoveredError struct {
	Reason string
}

func (e *NotCoveredError) Error() string {
	return "warranty verification failed: " + e.Reason
}

func invalidInput(format string, args ...interface{}) error {
	return &InvalidInputError{Msg: fmt.Sprintf(format, args...)}
}

func invalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Msg: fmt.Sprintf(format, args...)}
}

// notFoundOr 把仓库的 ErrNotFound 换成带实体名的 NotFoundError
func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
