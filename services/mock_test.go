package services

import (
	"fmt"
	"testing"

	"frontdesk-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockDB opens gorm over a sqlmock connection so service transactions can
// be exercised without a real MySQL.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gormDB, mock
}

// recordingListener captures occupancy notifications for assertions.
type recordingListener struct {
	calls []string
}

func (l *recordingListener) OccupancyChanged(hotelID uint, roomNumber string, status models.RoomStatus) {
	l.calls = append(l.calls, fmt.Sprintf("%d/%s=%s", hotelID, roomNumber, status))
}
