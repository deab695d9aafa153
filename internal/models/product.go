package models

import "time"

// Product represents a product in the store catalog.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string    `json:"name" validate:"required,min=3,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Category    string    `json:"category" validate:"omitempty,max=100"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Rating      float64   `json:"rating" validate:"gte=0,lte=5"`
	Tags        []string  `json:"tags" gorm:"serializer:json"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
