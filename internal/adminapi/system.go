package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/zincstore/zincstore/config"
	"github.com/zincstore/zincstore/internal/domain"
	"github.com/zincstore/zincstore/internal/webserver"
	"github.com/zincstore/zincstore/pkg/common"
	"gorm.io/gorm"
)

// TableInfo is the row count of one ledger table
type TableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// ServerInfo describes the ledger database
type ServerInfo struct {
	DatabaseType    string      `json:"database_type"`
	DatabaseVersion string      `json:"database_version"`
	ServerTime      string      `json:"server_time"`
	Tables          []TableInfo `json:"tables"`
}

func registerSystemRoutes() {
	webserver.ApiGET("/system/serverinfo", getServerInfo)
}

// GetDB returns the database of the application bound to the request
func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB().WithContext(c.Request().Context())
}

func getServerInfo(c echo.Context) error {
	db := GetDB(c)
	dbType := db.Dialector.Name()

	info := ServerInfo{
		DatabaseType: dbType,
		ServerTime:   time.Now().Format(config.TimestampLayout),
	}

	var version string
	switch dbType {
	case "postgres":
		db.Raw("SELECT version()").Scan(&version)
	case "sqlite":
		db.Raw("SELECT sqlite_version()").Scan(&version)
		version = "SQLite " + version
	}
	info.DatabaseVersion = common.IfEmptyStr(version, common.NA)

	for _, model := range domain.Tables {
		var count int64
		if err := db.Model(model).Count(&count).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count rows", err.Error())
		}
		name := ""
		if t, named := model.(interface{ TableName() string }); named {
			name = t.TableName()
		}
		info.Tables = append(info.Tables, TableInfo{Name: name, RowCount: count})
	}
	return ok(c, info)
}
