package random

import (
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
)

// 错误定义
// 两类错误都是调用方输入错误，返回前不会推进生成器状态
var (
	ErrEmptyRange  = errors.BadRequest("EMPTY_RANGE", "empty range")
	ErrInvalidBase = errors.BadRequest("INVALID_BASE", "digit base must be between 1 and 36")
)

func emptyRange[T any](r Range[T]) error {
	return ErrEmptyRange.WithMetadata(map[string]string{
		"start": r.Start.String(),
		"end":   r.End.String(),
	})
}

func invalidBase(base uint32) error {
	return ErrInvalidBase.WithMetadata(map[string]string{
		"base": strconv.FormatUint(uint64(base), 10),
	})
}
