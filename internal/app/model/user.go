package model

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"` // external account id
	Username  string    `gorm:"not null" json:"username"`
	CoupleID  *uint     `gorm:"index" json:"couple_id"` // nil while unattached
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
