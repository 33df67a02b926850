package model

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// CaseSensitiveText is a string column compared byte for byte. MySQL and SQL Server
// default to case-insensitive collations, so those dialects get a binary one; the
// other dialects already compare case-sensitively.
type CaseSensitiveText string

func (CaseSensitiveText) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	size := field.Size
	if size == 0 {
		size = 255
	}

	switch db.Dialector.Name() {
	case "mysql":
		return fmt.Sprintf("varchar(%d) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin", size)
	case "sqlserver":
		return fmt.Sprintf("nvarchar(%d) COLLATE Latin1_General_100_BIN2", size)
	default:
		return ""
	}
}
