package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"pgme/src/db"
	"pgme/src/lib"
	"pgme/src/models"
	"pgme/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reachable booking states. CANCELLED and COMPLETED are terminal.
var bookingTransitions = map[types.BookingStatus][]types.BookingStatus{
	types.BOOKING_PENDING:   {types.BOOKING_CONFIRMED, types.BOOKING_CANCELLED},
	types.BOOKING_CONFIRMED: {types.BOOKING_COMPLETED, types.BOOKING_CANCELLED},
}

// Reachable payment states on a booking. FAILED may go back to PENDING
// so a settlement can be retried.
var paymentStatusTransitions = map[types.PaymentStatus][]types.PaymentStatus{
	types.PAYMENT_PENDING: {types.PAYMENT_PAID, types.PAYMENT_FAILED},
	types.PAYMENT_FAILED:  {types.PAYMENT_PENDING},
	types.PAYMENT_PAID:    {types.PAYMENT_REFUNDED},
}

func transitionAllowed[T comparable](table map[T][]T, from, to T) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func CreateBooking(body *types.CreateBookingRequestBody) (*models.Booking, error) {
	checkIn, err := time.Parse(types.DATE_PARSE_FORMAT, body.CheckInDate)
	if err != nil {
		return nil, types.NewValidationError("invalid check-in date: %s", body.CheckInDate)
	}
	checkOut, err := time.Parse(types.DATE_PARSE_FORMAT, body.CheckOutDate)
	if err != nil {
		return nil, types.NewValidationError("invalid check-out date: %s", body.CheckOutDate)
	}
	if !checkOut.After(checkIn) {
		return nil, types.NewValidationError("check-out date must be after check-in date")
	}
	if body.NumberOfGuests < 1 {
		return nil, types.NewValidationError("number of guests must be at least 1")
	}
	if body.TotalAmount <= 0 {
		return nil, types.NewValidationError("total amount must be greater than 0")
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return nil, types.NewValidationError("invalid property id: %s", body.PropertyID)
	}
	seekerID, err := uuid.Parse(body.SeekerID)
	if err != nil {
		return nil, types.NewValidationError("invalid seeker id: %s", body.SeekerID)
	}

	booking := models.Booking{
		PropertyID:     propertyID,
		SeekerID:       seekerID,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		NumberOfGuests: body.NumberOfGuests,
		TotalAmount:    body.TotalAmount,
		PaymentMethod:  types.PaymentMethod(body.PaymentMethod),
		Status:         types.BOOKING_PENDING,
		PaymentStatus:  types.PAYMENT_PENDING,
		Notes:          body.Notes,
	}
	if err := db.GetDb().Create(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func findBooking(bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := db.GetDb().
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		First(&booking).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Resource: "Booking", ID: bookingID.String(), Err: err}
		}
		return nil, err
	}
	return &booking, nil
}

func UpdateBookingStatus(bookingID uuid.UUID, status types.BookingStatus) (*models.Booking, error) {
	booking, err := findBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(bookingTransitions, booking.Status, status) {
		return nil, &types.InvalidTransitionError{Entity: "booking", From: string(booking.Status), To: string(status)}
	}
	booking.Status = status

	// Confirmation derives the payment status from the payment method;
	// it is never caller input on this path. A processor booking is only
	// confirmed after a successful execute, cash settles out-of-band.
	if status == types.BOOKING_CONFIRMED {
		switch booking.PaymentMethod {
		case types.PAYMENT_METHOD_PAYPAL:
			booking.PaymentStatus = types.PAYMENT_PAID
		case types.PAYMENT_METHOD_CASH:
			booking.PaymentStatus = types.PAYMENT_PENDING
		}
	}

	if err := db.GetDb().Save(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// UpdateBookingPaymentStatus moves the booking's payment status without
// consulting the booking status machine. The two machines are only
// coupled on confirmation.
func UpdateBookingPaymentStatus(bookingID uuid.UUID, status types.PaymentStatus) (*models.Booking, error) {
	booking, err := findBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if !transitionAllowed(paymentStatusTransitions, booking.PaymentStatus, status) {
		return nil, &types.InvalidTransitionError{Entity: "booking payment", From: string(booking.PaymentStatus), To: string(status)}
	}
	booking.PaymentStatus = status
	if err := db.GetDb().Save(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

// enrichBooking attaches the referenced property and seeker for display.
// A missing property is tolerated; a booking without an identifiable
// seeker is treated as corrupt.
func enrichBooking(booking *models.Booking) error {
	gdb := db.GetDb()

	var property models.Property
	err := gdb.
		Model(&models.Property{}).
		Where("id = ?", booking.PropertyID).
		First(&property).
		Error
	if err == nil {
		booking.Property = &property
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var seeker models.Seeker
	err = gdb.
		Model(&models.Seeker{}).
		Where("id = ?", booking.SeekerID).
		First(&seeker).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &types.NotFoundError{Resource: "Seeker", ID: booking.SeekerID.String(), Err: err}
		}
		return err
	}
	booking.Seeker = &seeker
	return nil
}

func GetBookingByID(bookingID uuid.UUID) (*models.Booking, error) {
	booking, err := findBooking(bookingID)
	if err != nil {
		return nil, err
	}
	if err := enrichBooking(booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func GetSeekerBookings(seekerID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.GetDb().
		Model(&models.Booking{}).
		Where("seeker_id = ?", seekerID).
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	for i := range bookings {
		if err := enrichBooking(&bookings[i]); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

func GetPropertyBookings(propertyID uuid.UUID) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.GetDb().
		Model(&models.Booking{}).
		Where("property_id = ?", propertyID).
		Find(&bookings).
		Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// GetProviderBookings fans out from the provider's properties to their
// bookings. Lookups are sequential and unbatched.
func GetProviderBookings(providerID uuid.UUID) ([]models.Booking, error) {
	gdb := db.GetDb()
	var properties []models.Property
	err := gdb.
		Model(&models.Property{}).
		Where("owner_id = ?", providerID).
		Find(&properties).
		Error
	if err != nil {
		return nil, err
	}

	bookings := []models.Booking{}
	for _, property := range properties {
		propertyBookings, err := GetPropertyBookings(property.ID)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, propertyBookings...)
	}
	for i := range bookings {
		if err := enrichBooking(&bookings[i]); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// CompleteElapsedBookings moves confirmed bookings whose stay has ended
// to COMPLETED. Run periodically from the scheduler.
func CompleteElapsedBookings() {
	var bookings []models.Booking
	err := db.GetDb().
		Model(&models.Booking{}).
		Where("status = ? AND check_out_date < ?", types.BOOKING_CONFIRMED, time.Now()).
		Find(&bookings).
		Error
	if err != nil {
		log.Printf("Error listing elapsed bookings: %s\n", err.Error())
		return
	}
	for _, booking := range bookings {
		if _, err := UpdateBookingStatus(booking.ID, types.BOOKING_COMPLETED); err != nil {
			log.Printf("Error completing booking [%s]: %s\n", booking.ID, err.Error())
		}
	}
}

func CreatePayment(body *types.CreatePaymentRequestBody) (*models.Payment, error) {
	if body.Amount <= 0 {
		return nil, types.NewValidationError("amount must be greater than 0")
	}
	bookingID, err := uuid.Parse(body.BookingID)
	if err != nil {
		return nil, types.NewValidationError("invalid booking id: %s", body.BookingID)
	}

	payment := models.Payment{
		BookingID:     &bookingID,
		Amount:        body.Amount,
		PaymentMethod: types.PaymentMethod(body.PaymentMethod),
		Status:        types.TRANSACTION_PENDING,
		PayerID:       body.PayerID,
		PayerEmail:    body.PayerEmail,
		PayerName:     body.PayerName,
		TransactionID: body.TransactionID,
		Notes:         body.Notes,
	}
	// A pending processor payment cannot carry a processor reference yet;
	// that is only assigned by a successful execute.
	if payment.PaymentMethod == types.PAYMENT_METHOD_PAYPAL {
		payment.TransactionID = ""
	}
	if err := db.GetDb().Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func UpdatePaymentRecordStatus(paymentID uuid.UUID, status types.TransactionStatus) (*models.Payment, error) {
	var payment models.Payment
	err := db.GetDb().
		Model(&models.Payment{}).
		Where("id = ?", paymentID).
		First(&payment).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &types.NotFoundError{Resource: "Payment", ID: paymentID.String(), Err: err}
		}
		return nil, err
	}
	if payment.Status == types.TRANSACTION_COMPLETED || payment.Status == types.TRANSACTION_REFUNDED {
		return nil, &types.InvalidTransitionError{Entity: "payment", From: string(payment.Status), To: string(status)}
	}
	switch status {
	case types.TRANSACTION_COMPLETED, types.TRANSACTION_FAILED:
		if payment.Status != types.TRANSACTION_PENDING {
			return nil, &types.InvalidTransitionError{Entity: "payment", From: string(payment.Status), To: string(status)}
		}
	case types.TRANSACTION_PENDING:
		if payment.Status != types.TRANSACTION_FAILED {
			return nil, &types.InvalidTransitionError{Entity: "payment", From: string(payment.Status), To: string(status)}
		}
	default:
		return nil, &types.InvalidTransitionError{Entity: "payment", From: string(payment.Status), To: string(status)}
	}
	if status == types.TRANSACTION_COMPLETED &&
		payment.PaymentMethod == types.PAYMENT_METHOD_PAYPAL &&
		payment.TransactionID == "" {
		return nil, types.NewValidationError("processor payment cannot complete without a transaction id")
	}

	payment.Status = status
	if err := db.GetDb().Save(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func GetBookingPayments(bookingID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.GetDb().
		Model(&models.Payment{}).
		Where("booking_id = ?", bookingID).
		Find(&payments).
		Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func GetSeekerPayments(payerID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.GetDb().
		Model(&models.Payment{}).
		Where("payer_id = ?", payerID).
		Find(&payments).
		Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// CreatePayPalPayment asks the processor for a payment intent and hands
// the approval URL back for redirect. No local payment record exists at
// this point: abandoned checkouts leave no trace.
func CreatePayPalPayment(ctx context.Context, bookingID string, amount float64, currency, description, returnURL, cancelURL string) (*lib.PayPalPaymentIntent, error) {
	intent, err := lib.GetPayPalGateway().CreatePayment(ctx, amount, currency, description, returnURL, cancelURL)
	if err != nil {
		return nil, err
	}
	if bookingID != "" {
		if err := lib.GetIntentCache().SetBookingRef(ctx, intent.PaymentID, bookingID); err != nil {
			log.Printf("Could not remember booking for intent %s: %s\n", intent.PaymentID, err.Error())
		}
	}
	return intent, nil
}

// CompletePayPalPayment executes an approved intent. Only execution
// results are persisted: a gateway failure leaves no local record and
// the booking exactly as it was.
//
// TODO: key execution on the processor payment id (check for an existing
// payment with that transaction id first) so a crash between execute and
// save can be reconciled by re-running the callback.
func CompletePayPalPayment(ctx context.Context, paymentID, payerID string) (*models.Payment, error) {
	result, err := lib.GetPayPalGateway().ExecutePayment(ctx, paymentID, payerID)
	if err != nil {
		return nil, err
	}

	amount, err := parseAmount(result.Amount)
	if err != nil {
		return nil, &types.ProcessorError{
			Message: fmt.Sprintf("payment %s executed but returned no usable amount", result.PaymentID),
			Err:     err,
		}
	}

	payment := models.Payment{
		Amount:        amount,
		PaymentMethod: types.PAYMENT_METHOD_PAYPAL,
		Status:        types.TRANSACTION_COMPLETED,
		TransactionID: result.PaymentID,
		PayerID:       result.PayerID,
		PayerEmail:    result.PayerEmail,
		PayerName:     result.PayerName,
	}

	bookingRef := lookupIntentBooking(ctx, result.PaymentID)
	if bookingRef != nil {
		payment.BookingID = bookingRef
	}

	if err := db.GetDb().Create(&payment).Error; err != nil {
		return nil, err
	}

	if bookingRef != nil {
		if err := markBookingPaid(*bookingRef, payment.ID); err != nil {
			log.Printf("Payment %s recorded but booking %s not updated: %s\n", payment.ID, bookingRef, err.Error())
		}
	}
	return &payment, nil
}

func lookupIntentBooking(ctx context.Context, paymentID string) *uuid.UUID {
	ref, err := lib.GetIntentCache().GetBookingRef(ctx, paymentID)
	if err != nil {
		log.Printf("Could not look up booking for intent %s: %s\n", paymentID, err.Error())
		return nil
	}
	if ref == "" {
		return nil
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		log.Printf("Ignoring malformed booking ref %q for intent %s\n", ref, paymentID)
		return nil
	}
	return &id
}

func markBookingPaid(bookingID uuid.UUID, paymentID uuid.UUID) error {
	booking, err := findBooking(bookingID)
	if err != nil {
		return err
	}
	booking.PaymentStatus = types.PAYMENT_PAID
	booking.PaymentID = &paymentID
	return db.GetDb().Save(booking).Error
}

// parseAmount rejects responses that would persist a payment without a
// positive amount.
func parseAmount(s string) (float64, error) {
	if s == "" {
		return 0, fmt.Errorf("amount missing from processor response")
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q in processor response", s)
	}
	if amount <= 0 {
		return 0, fmt.Errorf("non-positive amount %q in processor response", s)
	}
	return amount, nil
}
