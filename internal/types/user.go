package types

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleAttendant Role = "ATTENDANT"
)

// ParseRole reports whether s names a known role. Anything else, including
// the empty string, is rejected.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleAttendant:
		return r, true
	}
	return "", false
}

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// User is the public projection of a user row. It deliberately has no
// password field: the hash never leaves the repository.
type User struct {
	ID        uuid.UUID  `json:"id" example:"d290f1ee-6c54-4b01-90e6-d701748f0851"`
	Email     string     `json:"email" example:"john.doe@example.com"`
	Username  string     `json:"username" example:"johndoe"`
	FirstName string     `json:"firstName" example:"John"`
	LastName  string     `json:"lastName" example:"Doe"`
	Phone     *string    `json:"phone" example:"+15551234567"`
	Dob       *time.Time `json:"dob"`
	Gender    Gender     `json:"gender" example:"MALE"`
	Image     *string    `json:"image" example:"https://example.com/avatar.png"`
	Role      Role       `json:"role" example:"ATTENDANT"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// UserFilters narrows user listings.
type UserFilters struct {
	Role *Role
}

// CreateUserRequest is the POST /users body.
type CreateUserRequest struct {
	Email     string  `json:"email" validate:"required,email" message:"Invalid email" example:"john.doe@example.com"`
	Username  string  `json:"username" validate:"required,min=3" message:"Username must be at least 3 characters" example:"johndoe"`
	Password  string  `json:"password" validate:"required,min=8" message:"Password must be at least 8 characters" example:"Str0ngP@ss!"`
	FirstName string  `json:"firstName" validate:"required" message:"First name is required" example:"John"`
	LastName  string  `json:"lastName" validate:"required" message:"Last name is required" example:"Doe"`
	Phone     *string `json:"phone,omitempty" validate:"omitnil,phone" message:"Invalid phone format" example:"+15551234567"`
	Dob       *Date   `json:"dob,omitempty" swaggertype:"string" format:"date"`
	Gender    Gender  `json:"gender" validate:"required,oneof=MALE FEMALE" enums:"MALE,FEMALE"`
	Image     *string `json:"image,omitempty" validate:"omitnil,url" message:"Invalid url"`
	Role      *Role   `json:"role,omitempty" validate:"omitnil,oneof=ADMIN ATTENDANT" enums:"ADMIN,ATTENDANT"`
}

// UpdateUserRequest is the PUT /users/{id} body. Every field is optional.
type UpdateUserRequest struct {
	Email     *string        `json:"email,omitempty" validate:"omitnil,email" message:"Invalid email"`
	Username  *string        `json:"username,omitempty" validate:"omitnil,min=3" message:"Username must be at least 3 characters"`
	Password  *PasswordField `json:"password,omitempty" message:"Password must be at least 8 characters" swaggertype:"string"`
	FirstName *string        `json:"firstName,omitempty" validate:"omitnil,min=1" message:"First name is required"`
	LastName  *string        `json:"lastName,omitempty" validate:"omitnil,min=1" message:"Last name is required"`
	Phone     *string        `json:"phone,omitempty" validate:"omitnil,phone" message:"Invalid phone format"`
	Dob       *Date          `json:"dob,omitempty" swaggertype:"string" format:"date"`
	Gender    *Gender        `json:"gender,omitempty" validate:"omitnil,oneof=MALE FEMALE" enums:"MALE,FEMALE"`
	Image     *string        `json:"image,omitempty" validate:"omitnil,url" message:"Invalid url"`
	Role      *Role          `json:"role,omitempty" validate:"omitnil,oneof=ADMIN ATTENDANT" enums:"ADMIN,ATTENDANT"`
}

// CreateUserParams is what the user service hands to the repository once the
// password has been hashed.
type CreateUserParams struct {
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        *string
	Dob          *time.Time
	Gender       Gender
	Image        *string
	Role         *Role
}

// UpdateUserParams carries a partial update. Nil fields are left untouched.
type UpdateUserParams struct {
	Email        *string
	Username     *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Phone        *string
	Dob          *time.Time
	Gender       *Gender
	Image        *string
	Role         *Role
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Date is a leniently decoded date. Input that cannot be read as a date does
// not fail decoding; the raw JSON is kept so validation can report it.
type Date struct {
	Time     time.Time
	Raw      string
	Received string
	ok       bool
}

func (d *Date) UnmarshalJSON(b []byte) error {
	d.Raw = string(b)
	d.Received = jsonKind(b)
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time, d.ok = t, true
			return nil
		}
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.ok {
		return json.Marshal(d.Time)
	}
	return []byte(d.Raw), nil
}

// Valid reports whether the input was read as a date.
func (d *Date) Valid() bool {
	return d != nil && d.ok
}

// NewDate wraps t as an already valid Date.
func NewDate(t time.Time) *Date {
	return &Date{Time: t, Received: "string", ok: true}
}

// PasswordField accepts either a bare string or {"set": "..."}.
type PasswordField struct {
	Value string
}

func (p *PasswordField) UnmarshalJSON(b []byte) error {
	if err := json.Unmarshal(b, &p.Value); err == nil {
		return nil
	}
	var wrapped struct {
		Set *string `json:"set"`
	}
	if err := json.Unmarshal(b, &wrapped); err == nil && wrapped.Set != nil {
		p.Value = *wrapped.Set
		return nil
	}
	return &json.UnmarshalTypeError{Value: jsonKind(b), Type: reflect.TypeOf("")}
}

func (p PasswordField) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Value)
}

// jsonKind names the JSON type of a raw value the way the error messages
// present it.
func jsonKind(b []byte) string {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return "undefined"
	}
	switch b[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
