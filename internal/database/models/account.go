package models

import (
	"time"
)

// Account represents one monitored Mail.ru mailbox.
// Emails are compared exactly as stored — no case folding or trimming
// is applied anywhere, so "User@mail.ru" and "user@mail.ru" are two
// distinct accounts.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
