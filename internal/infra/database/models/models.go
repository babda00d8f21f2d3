package models

import (
	"time"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"type:text;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"type:text;not null"`
	Role      string    `json:"role" gorm:"type:text;not null;default:'user'"`
	CreatedAt time.Time `json:"createdAt" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Category struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"type:text;uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Color       string `json:"color" gorm:"type:text;not null;default:'#007bff'"`
}

type Event struct {
	ID                  uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title               string    `json:"title" gorm:"type:text;not null"`
	Description         string    `json:"description" gorm:"type:text"`
	Date                time.Time `json:"date" gorm:"type:timestamp with time zone;not null;index"`
	Location            string    `json:"location" gorm:"type:text;not null"`
	MaxParticipants     int       `json:"maxParticipants" gorm:"not null"`
	CurrentParticipants int       `json:"currentParticipants" gorm:"not null;default:0"`
	Status              string    `json:"status" gorm:"type:text;not null;default:'scheduled';index"`
	IsPublic            bool      `json:"isPublic" gorm:"not null;default:true"`
	CreatedBy           uint      `json:"createdBy" gorm:"not null;index"`
	Creator             User      `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE;"`
	CategoryID          *uint     `json:"categoryId" gorm:"index"`
	Category            *Category `json:"-" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	CreatedAt           time.Time `json:"createdAt" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	UpdatedAt           time.Time `json:"updatedAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// Registration carries a composite unique index on (user, event) as the
// storage-level backstop for the ledger's uniqueness invariant.
type Registration struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_registrations_user_event"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	EventID   uint      `json:"eventId" gorm:"not null;uniqueIndex:idx_registrations_user_event;index"`
	Event     Event     `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"createdAt" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
