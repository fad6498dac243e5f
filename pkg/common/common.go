package common

import (
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	NA = "N/A"
)

var (
	snowflakeOnce sync.Once
	snowflakeNode *snowflake.Node
)

func node() *snowflake.Node {
	snowflakeOnce.Do(func() {
		n, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		snowflakeNode = n
	})
	return snowflakeNode
}

// UUIDint64 returns a time ordered, process unique id
func UUIDint64() int64 {
	return node().Generate().Int64()
}

func IfEmptyStr(src string, defval string) string {
	if strings.TrimSpace(src) == "" {
		return defval
	}
	return src
}
