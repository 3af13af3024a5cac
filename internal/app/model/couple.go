package model

import "time"

// MaxCoupleMembers caps how many users may reference one couple.
const MaxCoupleMembers = 2

type Couple struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations (loaded explicitly by the repository)
	Users  []User `gorm:"foreignKey:CoupleID;constraint:OnDelete:SET NULL" json:"users,omitempty"`
	Wishes []Wish `gorm:"foreignKey:CoupleID;constraint:OnDelete:CASCADE" json:"wishes,omitempty"`
}

func (Couple) TableName() string {
	return "couples"
}

// MemberIDs returns the ids of the loaded members.
func (c *Couple) MemberIDs() []int64 {
	ids := make([]int64, 0, len(c.Users))
	for _, u := range c.Users {
		ids = append(ids, u.ID)
	}
	return ids
}
