package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusCanceled  = "canceled"
)

const (
	// DefaultMaxDaysAhead ограничивает горизонт бронирования для клиентов
	DefaultMaxDaysAhead = 21

	// AccessMaxAttempts число неверных кодов до блокировки
	AccessMaxAttempts = 3

	// AccessLockMinutes длительность блокировки после перебора кодов
	AccessLockMinutes = 30

	// NotifyQueueSize размер очереди уведомлений
	NotifyQueueSize = 128

	// DefaultRedisTTL время жизни состояния доступа в Redis (секунды)
	DefaultRedisTTL = 24 * 60 * 60
)

// IsValidStatus reports whether s is part of the booking lifecycle.
func IsValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// IsBlockingStatus reports whether a booking in status s occupies its
// interval for conflict purposes. Legacy records without a status block too.
func IsBlockingStatus(s string) bool {
	switch s {
	case "", StatusPending, StatusConfirmed:
		return true
	}
	return false
}
