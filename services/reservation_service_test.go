package services

import (
	"sync"
	"testing"
	"time"

	"frontdesk-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReservationService(t *testing.T) (*ReservationService, sqlmock.Sqlmock, *recordingListener) {
	db, mock := newMockDB(t)
	listener := &recordingListener{}
	settings := NewSettingsService(db)
	svc := NewReservationService(db, NewInvoiceService(db, settings), listener)
	return svc, mock, listener
}

func TestCreateRejectsBadDatesBeforeAnyMutation(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	_, err := svc.Create(1, ReservationInput{
		GuestName: "Asha Rao",
		CheckIn:   "2024-03-03",
		CheckOut:  "2024-03-01",
	})

	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "check_out")
	// nothing may have touched the database
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequiresGuestName(t *testing.T) {
	svc, _, _ := newReservationService(t)

	_, err := svc.Create(1, ReservationInput{
		CheckIn:  "2024-03-01",
		CheckOut: "2024-03-03",
	})

	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "guest_name")
}

func TestCreateCheckedInWithoutRoomRejected(t *testing.T) {
	svc, _, _ := newReservationService(t)

	_, err := svc.Create(1, ReservationInput{
		GuestName: "Asha Rao",
		CheckIn:   "2024-03-01",
		CheckOut:  "2024-03-03",
		Status:    models.ReservationCheckedIn,
	})

	assert.True(t, IsKind(err, KindRoomNotAssigned))
}

func TestCreateRejectsInitialPaymentWithoutCheckIn(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	room := "101"
	_, err := svc.Create(1, ReservationInput{
		GuestName:      "Asha Rao",
		RoomNumber:     &room,
		CheckIn:        "2024-03-01",
		CheckOut:       "2024-03-03",
		Status:         models.ReservationConfirmed,
		InitialPayment: &PaymentInput{Amount: 500, Method: models.MethodCash},
	})

	assert.True(t, IsKind(err, KindValidation))
	assert.Contains(t, err.Error(), "initial_payment")
	// the tendered money must never be silently dropped, so nothing persists
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsOverlap(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "hotel_id", "reference_code", "room_number", "status", "check_in", "check_out",
		}).AddRow(
			11, 1, "RSV-EXISTING", "101", "CONFIRMED",
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
		))
	mock.ExpectRollback()

	room := "101"
	_, err := svc.Create(1, ReservationInput{
		GuestName:  "Asha Rao",
		RoomNumber: &room,
		CheckIn:    "2024-03-02",
		CheckOut:   "2024-03-04",
	})

	assert.True(t, IsKind(err, KindRoomOverlap))
	assert.Contains(t, err.Error(), "101")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConfirmedPersists(t *testing.T) {
	svc, mock, listener := newReservationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `reservations`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	room := "101"
	res, err := svc.Create(1, ReservationInput{
		GuestName:     "Asha Rao",
		Phone:         "+91 98765 43210",
		RoomNumber:    &room,
		RoomType:      "Standard",
		CheckIn:       "2024-03-01",
		CheckOut:      "2024-03-03",
		PricePerNight: 2500,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, res.Status)
	assert.Equal(t, 2, res.Nights)
	assert.Equal(t, models.PaymentNotPaid, res.PaymentStatus)
	assert.NotEmpty(t, res.ReferenceCode)
	// only a check-in flips occupancy; a confirmed booking does not notify
	assert.Empty(t, listener.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBackToBackStaysAllowed(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	// the overlap predicate is exercised in SQL; an empty result set is the
	// store agreeing that [03-03, 03-05) does not intersect [03-01, 03-03)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO `reservations`").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	room := "101"
	_, err := svc.Create(1, ReservationInput{
		GuestName:  "Vikram Shetty",
		RoomNumber: &room,
		CheckIn:    "2024-03-03",
		CheckOut:   "2024-03-05",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInTransitions(t *testing.T) {
	svc, mock, listener := newReservationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "hotel_id", "reference_code", "room_number", "status",
		}).AddRow(7, 1, "RSV-TEST", "101", "CONFIRMED"))
	mock.ExpectExec("UPDATE `reservations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.CheckIn(1, 7)

	require.NoError(t, err)
	assert.Equal(t, models.ReservationCheckedIn, res.Status)
	require.NotNil(t, res.CheckedInAt)
	assert.Equal(t, []string{"1/101=OCCUPIED"}, listener.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInAlreadyCheckedIn(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "hotel_id", "reference_code", "room_number", "status",
		}).AddRow(7, 1, "RSV-TEST", "101", "CHECKED_IN"))
	mock.ExpectRollback()

	_, err := svc.CheckIn(1, 7)

	assert.True(t, IsKind(err, KindAlreadyCheckedIn))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInWithoutRoom(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "hotel_id", "reference_code", "room_number", "status",
		}).AddRow(7, 1, "RSV-TEST", nil, "CONFIRMED"))
	mock.ExpectRollback()

	_, err := svc.CheckIn(1, 7)

	assert.True(t, IsKind(err, KindRoomNotAssigned))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelTerminalRejected(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "hotel_id", "reference_code", "room_number", "status",
		}).AddRow(7, 1, "RSV-TEST", "101", "COMPLETED"))
	mock.ExpectRollback()

	_, err := svc.Cancel(1, 7)

	assert.True(t, IsKind(err, KindNotActive))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationNotFound(t *testing.T) {
	svc, mock, _ := newReservationService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `reservations`").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := svc.CheckIn(1, 99)

	assert.True(t, IsKind(err, KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomLocksSerializeSameRoom(t *testing.T) {
	locks := newRoomLocks()

	var inSection, maxInSection int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(1, "101")
			defer unlock()

			mu.Lock()
			inSection++
			if inSection > maxInSection {
				maxInSection = inSection
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inSection--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInSection)
}

func TestRoomLocksIndependentRooms(t *testing.T) {
	locks := newRoomLocks()

	unlockA := locks.Lock(1, "101")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.Lock(1, "102")
		unlockB()
		// a different hotel's room 101 is its own key too
		unlockC := locks.Lock(2, "101")
		unlockC()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("independent room locks must not block each other")
	}
}
