package models

type UserStatus string
type UserRole string
type OrderStatus string
type PaymentStatus string
type IntentStatus string
type KYCStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"

	UserRoleClient UserRole = "client"
	UserRoleEditor UserRole = "editor"
	UserRoleAdmin  UserRole = "admin"

	// Order delivery lifecycle.
	OrderStatusNew        OrderStatus = "new"
	OrderStatusAccepted   OrderStatus = "accepted"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusSubmitted  OrderStatus = "submitted"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// Escrow lifecycle, independent of the delivery lifecycle.
	// Terminal states are released and refunded.
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusEscrow   PaymentStatus = "escrow"
	PaymentStatusReleased PaymentStatus = "released"
	PaymentStatusRefunded PaymentStatus = "refunded"

	// PaymentIntent states map the checkout state machine:
	// created -> processing -> paid | failed, cancelled on dismiss.
	IntentStatusCreated    IntentStatus = "created"
	IntentStatusProcessing IntentStatus = "processing"
	IntentStatusPaid       IntentStatus = "paid"
	IntentStatusFailed     IntentStatus = "failed"
	IntentStatusCancelled  IntentStatus = "cancelled"

	KYCStatusPending  KYCStatus = "pending"
	KYCStatusVerified KYCStatus = "verified"
	KYCStatusRejected KYCStatus = "rejected"
)
