package sqlite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	t.Run("plain file path", func(t *testing.T) {
		dsn := buildDSN("/data/n4d_dev.db")
		assert.True(t, strings.HasPrefix(dsn, "/data/n4d_dev.db?_pragma=foreign_keys(1)"))
	})

	t.Run("dsn with existing query parameters", func(t *testing.T) {
		dsn := buildDSN("/data/n4d_dev.db?mode=ro")
		assert.True(t, strings.HasPrefix(dsn, "/data/n4d_dev.db?mode=ro&_pragma=foreign_keys(1)"))
		assert.Equal(t, 1, strings.Count(dsn, "?"))
	})
}
