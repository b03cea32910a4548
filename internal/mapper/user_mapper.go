package mapper

import (
	"strings"

	"github.com/habitbuilder/internal/db"
	"github.com/habitbuilder/internal/dto"
)

// UserMapper copies user fields between db.User and dto.UserDTO.
type UserMapper struct{}

func (UserMapper) ToDTO(entity *db.User) (dto.UserDTO, error) {
	if entity == nil {
		return dto.UserDTO{}, mappingErrorf("user entity is nil")
	}
	if err := checkUser(entity.Email, entity.Username, entity.Age); err != nil {
		return dto.UserDTO{}, err
	}

	return dto.UserDTO{
		Email:     entity.Email,
		Username:  entity.Username,
		FirstName: entity.FirstName,
		LastName:  entity.LastName,
		Age:       entity.Age,
	}, nil
}

// ToEntity leaves the identity unset.
func (UserMapper) ToEntity(user *dto.UserDTO) (*db.User, error) {
	if user == nil {
		return nil, mappingErrorf("user dto is nil")
	}
	if err := checkUser(user.Email, user.Username, user.Age); err != nil {
		return nil, err
	}

	return &db.User{
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Age:       user.Age,
	}, nil
}

func (m UserMapper) ToDTOs(entities []db.User) ([]dto.UserDTO, error) {
	out := make([]dto.UserDTO, 0, len(entities))
	for i := range entities {
		item, err := m.ToDTO(&entities[i])
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func checkUser(email, username string, age int) error {
	if strings.TrimSpace(email) == "" {
		return mappingErrorf("user email is blank")
	}
	if strings.TrimSpace(username) == "" {
		return mappingErrorf("user %s has a blank username", email)
	}
	if age < 0 {
		return mappingErrorf("user %s has negative age %d", email, age)
	}
	return nil
}
