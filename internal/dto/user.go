package dto

import "encoding/json"

// Unspecified replaces absent first and last names.
const Unspecified = "unspecified"

// UserDTO is the wire form of a user.
type UserDTO struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,max=30"`
	FirstName string `json:"firstName" binding:"min=2,max=30"`
	LastName  string `json:"lastName" binding:"min=2,max=50"`
	Age       int    `json:"age" binding:"min=0"`
}

// NewUserDTO builds a UserDTO with "unspecified" names and age 0 when absent.
func NewUserDTO(email, username string, firstName, lastName *string, age *int) UserDTO {
	user := UserDTO{
		Email:     email,
		Username:  username,
		FirstName: Unspecified,
		LastName:  Unspecified,
	}
	if firstName != nil {
		user.FirstName = *firstName
	}
	if lastName != nil {
		user.LastName = *lastName
	}
	if age != nil {
		user.Age = *age
	}
	return user
}

// WithDefaults fills empty names. Non-empty values are preserved.
func (u UserDTO) WithDefaults() UserDTO {
	var first, last *string
	if u.FirstName != "" {
		first = &u.FirstName
	}
	if u.LastName != "" {
		last = &u.LastName
	}
	age := u.Age
	return NewUserDTO(u.Email, u.Username, first, last, &age)
}

type userWire struct {
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Age       *int    `json:"age"`
}

func (u *UserDTO) UnmarshalJSON(data []byte) error {
	var wire userWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*u = NewUserDTO(wire.Email, wire.Username, wire.FirstName, wire.LastName, wire.Age)
	return nil
}

// NaturalKey returns the user email.
func (u UserDTO) NaturalKey() string {
	return u.Email
}

func (u UserDTO) Equal(other UserDTO) bool {
	return u == other
}
