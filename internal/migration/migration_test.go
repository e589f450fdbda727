package migration

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBootstrapCreatesSchema(t *testing.T) {
	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Bootstrap(db))

	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Exec(
		`INSERT INTO subscriptions (id, service_name, price, start_date, status, kind, months_engaged, created_at, updated_at)
		 VALUES (1, 'Internet', 10, ?, 'ACTIVE', 'FLEXIBLE', 0, ?, ?)`,
		now, now, now,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO payments (id, subscription_id, due_date, payment_type, status, created_at, updated_at)
		 VALUES (2, 1, ?, 'auto', 'UNPAID', ?, ?)`,
		now, now, now,
	).Error)

	var count int64
	require.NoError(t, db.Table("subscriptions").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Table("payments").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Rerunning against an existing schema is a no-op.
	assert.NoError(t, Bootstrap(db))
}
