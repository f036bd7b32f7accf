package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken           = errors.New("INVALID_TOKEN")
	ErrInvalidEmail           = errors.New("INVALID_EMAIL")
	ErrInvalidLoginCode       = errors.New("INVALID_LOGIN_CODE")
	ErrCitizenNotFound        = errors.New("CITIZEN_NOT_FOUND")
	ErrPopupNotFound          = errors.New("POPUP_NOT_FOUND")
	ErrApplicationNotFound    = errors.New("APPLICATION_NOT_FOUND")
	ErrApplicationNotAccepted = errors.New("APPLICATION_NOT_ACCEPTED")
	ErrApplicationSubmitted   = errors.New("APPLICATION_ALREADY_SUBMITTED")
	ErrMissingFields          = errors.New("MISSING_REQUIRED_FIELDS")
	ErrAttendeeNotFound       = errors.New("ATTENDEE_NOT_FOUND")
	ErrInvalidAttendee        = errors.New("INVALID_ATTENDEE")
	ErrMainAttendeeImmutable  = errors.New("MAIN_ATTENDEE_IMMUTABLE")
	ErrAttendeeHasProducts    = errors.New("ATTENDEE_HAS_PRODUCTS")
	ErrProductNotFound        = errors.New("PRODUCT_NOT_FOUND")
	ErrInvalidCoupon          = errors.New("INVALID_COUPON")
	ErrNothingToPurchase      = errors.New("NOTHING_TO_PURCHASE")
	ErrPaymentNotFound        = errors.New("PAYMENT_NOT_FOUND")
	ErrInvalidPaymentStatus   = errors.New("INVALID_PAYMENT_STATUS")
	ErrInvalidSignature       = errors.New("INVALID_SIGNATURE")
)
