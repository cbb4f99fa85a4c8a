package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// prefixMatchCondition 不区分大小写的前缀匹配条件，兼容 sqlite 与 postgres。
func prefixMatchCondition(db *gorm.DB, column string) string {
	return prefixMatchConditionByDialect(dbDialectName(db), column)
}

func prefixMatchConditionByDialect(dialect, column string) string {
	return fmt.Sprintf("%s %s ? ESCAPE '\\'", strings.TrimSpace(column), likeOperatorByDialect(dialect))
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		// sqlite 的 LIKE 对 ASCII 不区分大小写
		return "LIKE"
	}
}

// prefixLikeArg 转义通配符后拼接前缀模式。
func prefixLikeArg(prefix string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(strings.TrimSpace(prefix)) + "%"
}
