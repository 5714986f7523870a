package models

import (
	"time"
)

type Note struct {
	ID      string `json:"_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:text"`
	FirstName string    `json:"fname" gorm:"type:text"`
	LastName  string    `json:"lname" gorm:"type:text"`
	Email     string    `json:"email" gorm:"type:text;not null;index:user_email,unique"`
	Password  string    `json:"-" gorm:"type:text;not null"`
	Notes     []Note    `json:"notes" gorm:"type:jsonb;serializer:json"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}
