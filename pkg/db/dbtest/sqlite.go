package dbtest

import (
	"fmt"
	"testing"

	"github.com/angelmondragon/inventory-backend/pkg/config"
	"github.com/angelmondragon/inventory-backend/pkg/db"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
)

// NewSQLite returns a client over a private in-memory SQLite database that
// lives for the duration of the test.
func NewSQLite(t testing.TB) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.Open(sqlite.Open(dsn), config.DBConfig{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
