package data

import (
	"slices"
	"strings"
)

// Filters 列表查询的过滤条件，Genre 为空表示不过滤
type Filters struct {
	Genre string
}

// match 检查电影是否满足过滤条件，类型比较不区分大小写
func (f Filters) match(movie *Movie) bool {
	if f.Genre == "" {
		return true
	}

	return slices.ContainsFunc(movie.Genre, func(g string) bool {
		return strings.EqualFold(g, f.Genre)
	})
}
