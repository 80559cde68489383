package types

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a customer record as stored and returned by the API.
type Customer struct {
	ID        uuid.UUID `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Name      string    `json:"name" example:"Jane Doe"`
	Email     string    `json:"email" example:"jane@example.com"` // Unique across customers.
	Phone     *string   `json:"phone" example:"+15551234567"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCustomerRequest is the POST /customers body.
type CreateCustomerRequest struct {
	Name  string  `json:"name" validate:"required" message:"Name is required" example:"Jane Doe"`
	Email string  `json:"email" validate:"required,email" message:"Invalid email" example:"jane@example.com"`
	Phone *string `json:"phone,omitempty" example:"+15551234567"`
}

// UpdateCustomerRequest is the PUT /customers/{id} body. Nil fields are left
// untouched.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitnil,min=1" message:"Name is required"`
	Email *string `json:"email,omitempty" validate:"omitnil,email" message:"Invalid email"`
	Phone *string `json:"phone,omitempty"`
}
