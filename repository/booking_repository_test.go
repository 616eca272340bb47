package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pension-backend/models"
	"pension-backend/services"
)

type RepositorySuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	repo *BookingRepository
}

func (s *RepositorySuite) SetupTest() {
	sqlDB, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.T().Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	s.mock = mock
	s.repo = NewBookingRepository(db)
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func date(v string) time.Time {
	t, _ := time.Parse(time.DateOnly, v)
	return t
}

func (s *RepositorySuite) TestFindRoomsKeepsRequestOrder() {
	s.mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE id IN (?,?)")).
		WithArgs("r2", "r1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number"}).
			AddRow("r1", "101").
			AddRow("r2", "102"))

	rooms, err := s.repo.FindRooms(context.Background(), []string{"r2", "r1"})
	s.Require().NoError(err)
	s.Equal("r2", rooms[0].ID)
	s.Equal("r1", rooms[1].ID)
}

func (s *RepositorySuite) TestFindRoomsMissing() {
	s.mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE id IN (?,?)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number"}).AddRow("r1", "101"))

	_, err := s.repo.FindRooms(context.Background(), []string{"r1", "r9"})
	s.ErrorIs(err, services.ErrRoomNotFound)
}

func (s *RepositorySuite) TestHasOverlapUsesHalfOpenRange() {
	in, out := date("2025-02-01"), date("2025-02-04")
	s.mock.ExpectQuery(q("SELECT count(*) FROM `bookings` WHERE (room_id = ? AND booking_status IN (?,?)) AND (check_in_date < ? AND check_out_date > ?)")).
		WithArgs("r1", "pending", "confirmed", out, in).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	overlap, err := s.repo.HasOverlap(context.Background(), "r1", in, out)
	s.Require().NoError(err)
	s.True(overlap)
}

func (s *RepositorySuite) TestRoomSequenceCommitsInOneTransaction() {
	in, out := date("2025-02-01"), date("2025-02-04")

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT * FROM `bookings` WHERE idempotency_key = ? AND room_id = ? AND booking_status IN (?,?) LIMIT ?")).
		WithArgs("key-1", "r1", models.BookingStatusPending, models.BookingStatusConfirmed, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE id = ? ORDER BY `rooms`.`id` LIMIT ? FOR UPDATE")).
		WithArgs("r1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_number", "is_available"}).AddRow("r1", "101", true))
	s.mock.ExpectQuery(q("SELECT count(*) FROM `bookings`")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))
	s.mock.ExpectExec(q("INSERT INTO `bookings`")).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(q("UPDATE `bookings` SET `screenshot_url`=?,`updated_at`=? WHERE id = ?")).
		WithArgs("https://cdn/b1_1.png", sqlmock.AnyArg(), "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(q("UPDATE `rooms` SET `is_available`=?,`updated_at`=? WHERE id = ?")).
		WithArgs(false, sqlmock.AnyArg(), "r1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(q("INSERT INTO `payments`")).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.InTx(context.Background(), func(tx services.BookingTx) error {
		prev, err := tx.FindReplay("key-1", "r1")
		s.Require().NoError(err)
		s.Nil(prev)

		room, err := tx.LockRoom("r1")
		s.Require().NoError(err)
		s.Equal("101", room.RoomNumber)

		overlap, err := tx.HasOverlap("r1", in, out)
		s.Require().NoError(err)
		s.False(overlap)

		s.Require().NoError(tx.CreateBooking(&models.Booking{ID: "b1", RoomID: "r1", CheckInDate: in, CheckOutDate: out, BookingStatus: "pending"}))
		s.Require().NoError(tx.AttachScreenshot("b1", "https://cdn/b1_1.png"))
		s.Require().NoError(tx.MarkRoomUnavailable("r1"))
		return tx.CreatePayment(&models.Payment{ID: "p1", BookingID: "b1", PaymentMethod: models.PaymentMethodChapa})
	})
	s.NoError(err)
}

func (s *RepositorySuite) TestFailedStepRollsBack() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT * FROM `rooms` WHERE id = ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	s.mock.ExpectRollback()

	err := s.repo.InTx(context.Background(), func(tx services.BookingTx) error {
		_, err := tx.LockRoom("gone")
		return err
	})
	s.ErrorIs(err, services.ErrRoomNotFound)
}

func (s *RepositorySuite) TestCreateBookingMapsForeignKeyError() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(q("INSERT INTO `bookings`")).
		WillReturnError(&mysqldriver.MySQLError{Number: 1452, Message: "a foreign key constraint fails"})
	s.mock.ExpectRollback()

	err := s.repo.InTx(context.Background(), func(tx services.BookingTx) error {
		return tx.CreateBooking(&models.Booking{ID: "b1", RoomID: "gone"})
	})
	s.ErrorIs(err, services.ErrRoomNotFound)
}

func (s *RepositorySuite) TestCreatePaymentPropagatesError() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(q("INSERT INTO `payments`")).WillReturnError(errors.New("connection reset"))
	s.mock.ExpectRollback()

	err := s.repo.InTx(context.Background(), func(tx services.BookingTx) error {
		return tx.CreatePayment(&models.Payment{ID: "p1", BookingID: "b1"})
	})
	s.ErrorContains(err, "insert payment: connection reset")
}

func (s *RepositorySuite) TestFindReplayLoadsPayments() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(q("SELECT * FROM `bookings` WHERE idempotency_key = ? AND room_id = ? AND booking_status IN (?,?) LIMIT ?")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "idempotency_key"}).AddRow("b1", "r1", "key-1"))
	s.mock.ExpectQuery(q("SELECT * FROM `payments` WHERE `payments`.`booking_id` = ?")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id"}).AddRow("p1", "b1"))
	s.mock.ExpectCommit()

	err := s.repo.InTx(context.Background(), func(tx services.BookingTx) error {
		prev, err := tx.FindReplay("key-1", "r1")
		s.Require().NoError(err)
		s.Require().NotNil(prev)
		s.Equal("b1", prev.ID)
		s.Require().Len(prev.Payments, 1)
		s.Equal("p1", prev.Payments[0].ID)
		return nil
	})
	s.NoError(err)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}
