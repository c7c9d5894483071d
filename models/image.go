package models

// Image is one product photo; Position drives display order and the first
// image is the cart thumbnail.
type Image struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"not null;index"`
	URL       string `gorm:"not null"`
	Position  int    `gorm:"not null;default:0"`
}

func (i *Image) TableName() string {
	return "images"
}
