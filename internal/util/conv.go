package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseIDParam 解析路径中的 ID 参数
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	id := MustParseUint(c.Param(name))
	return id, id != 0
}

// OptionalUintQuery 解析可选的无符号整数查询参数，缺省或非法时返回 nil
func OptionalUintQuery(c *gin.Context, name string) *uint {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	id := MustParseUint(raw)
	if id == 0 {
		return nil
	}
	return &id
}

// Pagination 解析分页参数 page/limit，limit 上限 100
func Pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
