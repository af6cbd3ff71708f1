package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsIntegrityError 判断是否为存储层完整性约束冲突
// （唯一键、外键、非空；gorm TranslateError 已翻译前两类）
func IsIntegrityError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	// sqlite / postgres 的非空约束错误没有统一翻译
	return strings.Contains(msg, "NOT NULL constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23502")
}

// IsNotFound 查询无结果
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
