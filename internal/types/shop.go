package types

import (
	"time"

	"github.com/google/uuid"
)

type Shop struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name" example:"Main Street"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateShopRequest struct {
	Name string `json:"name" validate:"required" message:"Name is required" example:"Main Street"`
}
