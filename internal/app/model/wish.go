package model

import "time"

type Wish struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	Article     *int64    `json:"article"` // product code in the shop
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	CoupleID    uint      `gorm:"not null;index" json:"couple_id"`
	UserAddedID *int64    `gorm:"index" json:"user_added_id"` // cleared when that user is deleted
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	UserAdded *User `gorm:"foreignKey:UserAddedID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Wish) TableName() string {
	return "wishes"
}

// WishPatch carries optional field changes; nil leaves a field unchanged.
type WishPatch struct {
	Name    *string
	Price   *float64
	Article *int64
	URL     *string
	Image   *string
}

// Empty reports whether the patch changes nothing.
func (p WishPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Article == nil && p.URL == nil && p.Image == nil
}

// Apply copies the set fields onto w.
func (p WishPatch) Apply(w *Wish) {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Price != nil {
		w.Price = *p.Price
	}
	if p.Article != nil {
		article := *p.Article
		w.Article = &article
	}
	if p.URL != nil {
		w.URL = *p.URL
	}
	if p.Image != nil {
		w.Image = *p.Image
	}
}
