package models

import "time"

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentRefund  PaymentStatus = "REFUNDED"
)

// Booking reserves a court for a user over a time slot on a given date.
type Booking struct {
	BaseModel
	UserID        string        `gorm:"type:uuid;not null;index" json:"userId"`
	User          *User         `gorm:"foreignKey:UserID" json:"-"`
	CourtID       string        `gorm:"type:uuid;not null;index" json:"courtId"`
	Court         *Court        `gorm:"foreignKey:CourtID" json:"-"`
	Date          time.Time     `gorm:"type:date;not null" json:"date"`
	StartTime     string        `gorm:"not null" json:"startTime"`
	EndTime       string        `gorm:"not null" json:"endTime"`
	Duration      int           `gorm:"not null" json:"duration"`
	Status        BookingStatus `gorm:"type:varchar(32);not null" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(32);not null" json:"paymentStatus"`
}
