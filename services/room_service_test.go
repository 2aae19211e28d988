package services

import (
	"testing"

	"frontdesk-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoomService(t *testing.T) (*RoomService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewRoomService(db, NewSettingsService(db)), mock
}

func roomRow(id uint, number string, override models.RoomStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "hotel_id", "room_number", "type", "floor",
		"price_per_night", "max_occupancy", "status_override", "is_active",
	}).AddRow(id, 1, number, "Standard", "1", 2000.0, 2, string(override), true)
}

func TestCreateRoomRequiresRoomNumber(t *testing.T) {
	svc, mock := newRoomService(t)

	_, err := svc.Create(models.Room{HotelID: 1, RoomNumber: "   "})

	assert.True(t, IsKind(err, KindValidation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomRejectsDuplicateNumber(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT count(.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.Create(models.Room{HotelID: 1, RoomNumber: "101"})

	assert.True(t, IsKind(err, KindDuplicateRoom))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomPersists(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT count(.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `rooms`").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	room, err := svc.Create(models.Room{HotelID: 1, RoomNumber: " 101 ", Type: "Standard", PricePerNight: 2000})

	require.NoError(t, err)
	assert.Equal(t, "101", room.RoomNumber)
	assert.Equal(t, models.RoomVacant, room.StatusOverride)
	assert.True(t, room.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A stay in progress wins over the maintenance toggle.
func TestSetMaintenanceRejectsOccupiedRoom(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(roomRow(5, "101", models.RoomVacant))
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "hotel_id", "reference_code", "room_number", "status",
		}).AddRow(7, 1, "RSV-TEST", "101", "CHECKED_IN"))

	_, err := svc.SetMaintenance(1, 5, true, day("2024-03-02"))

	assert.True(t, IsKind(err, KindRoomOccupied))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetMaintenanceOnVacantRoom(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(roomRow(5, "101", models.RoomVacant))
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `rooms` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room, err := svc.SetMaintenance(1, 5, true, day("2024-03-02"))

	require.NoError(t, err)
	assert.Equal(t, models.RoomMaintenance, room.StatusOverride)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Clearing the override never needs the occupancy check.
func TestSetMaintenanceOffSkipsOccupancyCheck(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(roomRow(5, "101", models.RoomMaintenance))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `rooms` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room, err := svc.SetMaintenance(1, 5, false, day("2024-03-02"))

	require.NoError(t, err)
	assert.Equal(t, models.RoomVacant, room.StatusOverride)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateRoomWithOpenReservationsRejected(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(roomRow(5, "101", models.RoomVacant))
	mock.ExpectQuery("SELECT count(.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	_, err := svc.Deactivate(1, 5)

	assert.True(t, IsKind(err, KindRoomOccupied))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateRoomWithoutOpenReservations(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(roomRow(5, "101", models.RoomVacant))
	mock.ExpectQuery("SELECT count(.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `rooms` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	room, err := svc.Deactivate(1, 5)

	require.NoError(t, err)
	assert.False(t, room.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomNotFound(t *testing.T) {
	svc, mock := newRoomService(t)

	mock.ExpectQuery("SELECT (.+) FROM `rooms`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.Get(1, 99)

	assert.True(t, IsKind(err, KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
