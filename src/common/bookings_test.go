package common

import (
	"context"
	"testing"
	"time"

	"pgme/src/db"
	"pgme/src/lib"
	"pgme/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubGateway struct {
	intent    *lib.PayPalPaymentIntent
	intentErr error
	result    *lib.ExecutePaymentResult
	resultErr error

	createdAmount float64
}

func (s *stubGateway) CreatePayment(ctx context.Context, amount float64, currency, description, returnURL, cancelURL string) (*lib.PayPalPaymentIntent, error) {
	s.createdAmount = amount
	return s.intent, s.intentErr
}

func (s *stubGateway) ExecutePayment(ctx context.Context, paymentID, payerID string) (*lib.ExecutePaymentResult, error) {
	return s.result, s.resultErr
}

type mapIntentCache struct {
	refs map[string]string
}

func (m *mapIntentCache) SetBookingRef(ctx context.Context, paymentID, bookingID string) error {
	m.refs[paymentID] = bookingID
	return nil
}

func (m *mapIntentCache) GetBookingRef(ctx context.Context, paymentID string) (string, error) {
	return m.refs[paymentID], nil
}

func bookingRow(id uuid.UUID, status types.BookingStatus, paymentStatus types.PaymentStatus, method types.PaymentMethod) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "property_id", "seeker_id", "status", "payment_status", "payment_method", "total_amount", "check_out_date"}).
		AddRow(id.String(), uuid.NewString(), uuid.NewString(), string(status), string(paymentStatus), string(method), 500.0, time.Now().Add(24*time.Hour))
}

func validBookingBody() *types.CreateBookingRequestBody {
	return &types.CreateBookingRequestBody{
		PropertyID:     uuid.NewString(),
		SeekerID:       uuid.NewString(),
		CheckInDate:    "2026-10-01",
		CheckOutDate:   "2026-10-05",
		NumberOfGuests: 2,
		TotalAmount:    500,
		PaymentMethod:  "CASH",
	}
}

func TestCreateBookingValidation(t *testing.T) {
	var validationErr *types.ValidationError

	body := validBookingBody()
	body.CheckInDate = "not-a-date"
	_, err := CreateBooking(body)
	assert.ErrorAs(t, err, &validationErr)

	body = validBookingBody()
	body.CheckOutDate = body.CheckInDate
	_, err = CreateBooking(body)
	assert.ErrorAs(t, err, &validationErr)

	body = validBookingBody()
	body.NumberOfGuests = 0
	_, err = CreateBooking(body)
	assert.ErrorAs(t, err, &validationErr)

	body = validBookingBody()
	body.TotalAmount = -10
	_, err = CreateBooking(body)
	assert.ErrorAs(t, err, &validationErr)

	body = validBookingBody()
	body.PropertyID = "abc"
	_, err = CreateBooking(body)
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateBookingStartsPending(t *testing.T) {
	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectCommit()

	booking, err := CreateBooking(validBookingBody())
	assert.NoError(t, err)
	assert.Equal(t, types.BOOKING_PENDING, booking.Status)
	assert.Equal(t, types.PAYMENT_PENDING, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingByIDEnrichment(t *testing.T) {
	t.Run("Should tolerate a missing property", func(t *testing.T) {
		_, mock := db.GetMockDB()
		id := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(bookingRow(id, types.BOOKING_PENDING, types.PAYMENT_PENDING, types.PAYMENT_METHOD_CASH))
		mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectQuery(`SELECT (.+) FROM "seekers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "email"}).
				AddRow(uuid.NewString(), "A Seeker", "seeker@example.com"))

		booking, err := GetBookingByID(id)
		assert.NoError(t, err)
		assert.Nil(t, booking.Property)
		assert.NotNil(t, booking.Seeker)
		assert.Equal(t, "seeker@example.com", booking.Seeker.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should fail on a missing seeker", func(t *testing.T) {
		var notFoundErr *types.NotFoundError
		_, mock := db.GetMockDB()
		id := uuid.New()
		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(bookingRow(id, types.BOOKING_PENDING, types.PAYMENT_PENDING, types.PAYMENT_METHOD_CASH))
		mock.ExpectQuery(`SELECT (.+) FROM "properties"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
		mock.ExpectQuery(`SELECT (.+) FROM "seekers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := GetBookingByID(id)
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateBookingStatusRejectsInvalidTransitions(t *testing.T) {
	var transitionErr *types.InvalidTransitionError

	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(id, types.BOOKING_PENDING, types.PAYMENT_PENDING, types.PAYMENT_METHOD_CASH))

	_, err := UpdateBookingStatus(id, types.BOOKING_COMPLETED)
	assert.ErrorAs(t, err, &transitionErr)
	assert.NoError(t, mock.ExpectationsWereMet())

	_, mock = db.GetMockDB()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(id, types.BOOKING_CANCELLED, types.PAYMENT_PENDING, types.PAYMENT_METHOD_CASH))

	_, err = UpdateBookingStatus(id, types.BOOKING_CONFIRMED)
	assert.ErrorAs(t, err, &transitionErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatusNotFound(t *testing.T) {
	var notFoundErr *types.NotFoundError

	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := UpdateBookingStatus(id, types.BOOKING_CONFIRMED)
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestConfirmationDerivesPaymentStatus(t *testing.T) {
	// Cash settles out-of-band, so confirmation leaves payment pending.
	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(id, types.BOOKING_PENDING, types.PAYMENT_PENDING, types.PAYMENT_METHOD_CASH))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := UpdateBookingStatus(id, types.BOOKING_CONFIRMED)
	assert.NoError(t, err)
	assert.Equal(t, types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(t, types.PAYMENT_PENDING, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())

	// A processor booking only confirms after a successful execute.
	_, mock = db.GetMockDB()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(id, types.BOOKING_PENDING, types.PAYMENT_PENDING, types.PAYMENT_METHOD_PAYPAL))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err = UpdateBookingStatus(id, types.BOOKING_CONFIRMED)
	assert.NoError(t, err)
	assert.Equal(t, types.PAYMENT_PAID, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingPaymentStatus(t *testing.T) {
	var transitionErr *types.InvalidTransitionError

	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(id, types.BOOKING_PENDING, types.PAYMENT_PAID, types.PAYMENT_METHOD_CASH))

	_, err := UpdateBookingPaymentStatus(id, types.PAYMENT_FAILED)
	assert.ErrorAs(t, err, &transitionErr)
	assert.NoError(t, mock.ExpectationsWereMet())

	// A failed settlement may be retried.
	_, mock = db.GetMockDB()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(id, types.BOOKING_PENDING, types.PAYMENT_FAILED, types.PAYMENT_METHOD_CASH))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	booking, err := UpdateBookingPaymentStatus(id, types.PAYMENT_PENDING)
	assert.NoError(t, err)
	assert.Equal(t, types.PAYMENT_PENDING, booking.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePaymentClearsProcessorReference(t *testing.T) {
	_, mock := db.GetMockDB()
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	payment, err := CreatePayment(&types.CreatePaymentRequestBody{
		BookingID:     uuid.NewString(),
		Amount:        500,
		PaymentMethod: "PAYPAL",
		PayerID:       uuid.NewString(),
		TransactionID: "PAY-SHOULD-NOT-SURVIVE",
	})
	assert.NoError(t, err)
	assert.Equal(t, types.TRANSACTION_PENDING, payment.Status)
	assert.Empty(t, payment.TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func paymentRow(id uuid.UUID, status types.TransactionStatus, method types.PaymentMethod, transactionID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "status", "payment_method", "transaction_id", "amount"}).
		AddRow(id.String(), string(status), string(method), transactionID, 500.0)
}

func TestUpdatePaymentRecordStatus(t *testing.T) {
	var transitionErr *types.InvalidTransitionError
	var validationErr *types.ValidationError

	// Completed records are settled history.
	_, mock := db.GetMockDB()
	id := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "payments"`).
		WillReturnRows(paymentRow(id, types.TRANSACTION_COMPLETED, types.PAYMENT_METHOD_CASH, ""))

	_, err := UpdatePaymentRecordStatus(id, types.TRANSACTION_FAILED)
	assert.ErrorAs(t, err, &transitionErr)

	// A processor payment cannot settle without its processor reference.
	_, mock = db.GetMockDB()
	mock.ExpectQuery(`SELECT (.+) FROM "payments"`).
		WillReturnRows(paymentRow(id, types.TRANSACTION_PENDING, types.PAYMENT_METHOD_PAYPAL, ""))

	_, err = UpdatePaymentRecordStatus(id, types.TRANSACTION_COMPLETED)
	assert.ErrorAs(t, err, &validationErr)

	// Cash payments settle directly.
	_, mock = db.GetMockDB()
	mock.ExpectQuery(`SELECT (.+) FROM "payments"`).
		WillReturnRows(paymentRow(id, types.TRANSACTION_PENDING, types.PAYMENT_METHOD_CASH, ""))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payments"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := UpdatePaymentRecordStatus(id, types.TRANSACTION_COMPLETED)
	assert.NoError(t, err)
	assert.Equal(t, types.TRANSACTION_COMPLETED, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayPalPaymentRemembersBooking(t *testing.T) {
	gw := &stubGateway{intent: &lib.PayPalPaymentIntent{PaymentID: "PAY-123", ApprovalURL: "https://paypal.test/approve"}}
	lib.NewPayPalGateway(gw)
	cache := &mapIntentCache{refs: map[string]string{}}
	lib.NewIntentCache(cache)

	bookingID := uuid.NewString()
	intent, err := CreatePayPalPayment(context.Background(), bookingID, 19.995, "USD", "stay", "https://ret", "https://can")
	assert.NoError(t, err)
	assert.Equal(t, "PAY-123", intent.PaymentID)
	assert.Equal(t, bookingID, cache.refs["PAY-123"])
	assert.Equal(t, 19.995, gw.createdAmount)
}

func TestCompletePayPalPaymentFailureLeavesNoRecord(t *testing.T) {
	_, mock := db.GetMockDB()
	lib.NewPayPalGateway(&stubGateway{resultErr: &types.ProcessorError{Message: "payment execution failed"}})
	lib.NewIntentCache(&mapIntentCache{refs: map[string]string{}})

	var processorErr *types.ProcessorError
	_, err := CompletePayPalPayment(context.Background(), "PAY-123", "PAYER-1")
	assert.ErrorAs(t, err, &processorErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePayPalPaymentRejectsUnusableAmount(t *testing.T) {
	var processorErr *types.ProcessorError
	for _, amount := range []string{"", "not-a-number", "0", "-5.00"} {
		_, mock := db.GetMockDB()
		lib.NewPayPalGateway(&stubGateway{result: &lib.ExecutePaymentResult{
			PaymentID: "PAY-123",
			State:     "approved",
			PayerID:   "PAYER-1",
			Amount:    amount,
		}})
		lib.NewIntentCache(&mapIntentCache{refs: map[string]string{}})

		_, err := CompletePayPalPayment(context.Background(), "PAY-123", "PAYER-1")
		assert.ErrorAs(t, err, &processorErr)
		// nothing was written
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestCompletePayPalPaymentRecordsExecution(t *testing.T) {
	_, mock := db.GetMockDB()
	lib.NewPayPalGateway(&stubGateway{result: &lib.ExecutePaymentResult{
		PaymentID:  "PAY-123",
		State:      "approved",
		PayerID:    "PAYER-1",
		PayerEmail: "payer@example.com",
		PayerName:  "Pay Er",
		Amount:     "20.00",
		Currency:   "USD",
	}})
	lib.NewIntentCache(&mapIntentCache{refs: map[string]string{}})

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	payment, err := CompletePayPalPayment(context.Background(), "PAY-123", "PAYER-1")
	assert.NoError(t, err)
	assert.Equal(t, types.TRANSACTION_COMPLETED, payment.Status)
	assert.Equal(t, "PAY-123", payment.TransactionID)
	assert.Equal(t, 20.0, payment.Amount)
	assert.Nil(t, payment.BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompletePayPalPaymentMarksBookingPaid(t *testing.T) {
	_, mock := db.GetMockDB()
	bookingID := uuid.New()
	lib.NewPayPalGateway(&stubGateway{result: &lib.ExecutePaymentResult{
		PaymentID: "PAY-456",
		State:     "approved",
		PayerID:   "PAYER-1",
		Amount:    "500.00",
	}})
	lib.NewIntentCache(&mapIntentCache{refs: map[string]string{"PAY-456": bookingID.String()}})

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
		WillReturnRows(bookingRow(bookingID, types.BOOKING_PENDING, types.PAYMENT_PENDING, types.PAYMENT_METHOD_PAYPAL))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "bookings"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := CompletePayPalPayment(context.Background(), "PAY-456", "PAYER-1")
	assert.NoError(t, err)
	assert.NotNil(t, payment.BookingID)
	assert.Equal(t, bookingID, *payment.BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
