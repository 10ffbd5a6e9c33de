package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "rds/prod/logs/postgresql.log/1723475612000.gz",
		ObjectKey("rds/prod", "postgresql.log", 1723475612000))

	// Empty prefix keeps the historical leading slash.
	assert.Equal(t, "/logs/app/1002.gz", ObjectKey("", "app", 1002))
}
