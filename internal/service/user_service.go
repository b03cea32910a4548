package service

import (
	"context"

	"github.com/habitbuilder/internal/db"
	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/mapper"
	"github.com/habitbuilder/internal/store"
)

// UserManager defines the user operations exposed to handlers.
type UserManager interface {
	ListUsers(ctx context.Context) ([]dto.UserDTO, error)
	GetUser(ctx context.Context, email string) (dto.UserDTO, error)
	AddUser(ctx context.Context, user dto.UserDTO) (string, error)
	AddUsers(ctx context.Context, policy dto.DedupPolicy, users ...dto.UserDTO) ([]string, error)
	UpdateUser(ctx context.Context, email string, user dto.UserDTO) (dto.UserDTO, error)
	DeleteUser(ctx context.Context, email string) error
}

// UserService owns email uniqueness. Like HabitService the existence pre-check
// and the write are separate store calls; the unique index on email decides races.
type UserService struct {
	users  store.UserStore
	mapper mapper.UserMapper
}

var _ UserManager = (*UserService)(nil)

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	records, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, storeFailure("list users", err)
	}
	return s.mapper.ToDTOs(records)
}

func (s *UserService) GetUser(ctx context.Context, email string) (dto.UserDTO, error) {
	record, err := s.findUser(ctx, email)
	if err != nil {
		return dto.UserDTO{}, err
	}
	return s.mapper.ToDTO(record)
}

// AddUser persists user and returns its username.
func (s *UserService) AddUser(ctx context.Context, user dto.UserDTO) (string, error) {
	user = user.WithDefaults()
	exists, err := s.users.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return "", storeFailure("check user", err)
	}
	if exists {
		return "", userAlreadyExists(user.Email, nil)
	}

	record, err := s.mapper.ToEntity(&user)
	if err != nil {
		return "", err
	}
	if err := s.users.Create(ctx, record); err != nil {
		return "", s.writeFailure("add user", user.Email, err)
	}
	return record.Username, nil
}

// AddUsers deduplicates users under policy, drops emails that already exist
// and persists the rest as one batch. It returns the persisted usernames.
func (s *UserService) AddUsers(ctx context.Context, policy dto.DedupPolicy, users ...dto.UserDTO) ([]string, error) {
	if len(users) == 0 {
		return []string{}, nil
	}

	filled := make([]dto.UserDTO, len(users))
	for i := range users {
		filled[i] = users[i].WithDefaults()
	}
	unique := dto.Dedup(filled, policy)
	records := make([]db.User, 0, len(unique))
	for i := range unique {
		exists, err := s.users.ExistsByEmail(ctx, unique[i].Email)
		if err != nil {
			return nil, storeFailure("check user", err)
		}
		if exists {
			continue
		}

		record, err := s.mapper.ToEntity(&unique[i])
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := s.users.CreateBatch(ctx, records); err != nil {
		if isDuplicate(err) {
			return nil, &Error{
				Kind:    ErrUserAlreadyExists,
				Message: "One or more users in the batch already exist",
				Err:     err,
			}
		}
		return nil, storeFailure("add users", err)
	}

	usernames := make([]string, 0, len(records))
	for _, record := range records {
		usernames = append(usernames, record.Username)
	}
	return usernames, nil
}

// UpdateUser overwrites every mutable field of the user stored under email.
func (s *UserService) UpdateUser(ctx context.Context, email string, user dto.UserDTO) (dto.UserDTO, error) {
	record, err := s.findUser(ctx, email)
	if err != nil {
		return dto.UserDTO{}, err
	}
	user = user.WithDefaults()

	if user.Email != email {
		exists, err := s.users.ExistsByEmail(ctx, user.Email)
		if err != nil {
			return dto.UserDTO{}, storeFailure("check user", err)
		}
		if exists {
			return dto.UserDTO{}, userAlreadyExists(user.Email, nil)
		}
	}

	replacement, err := s.mapper.ToEntity(&user)
	if err != nil {
		return dto.UserDTO{}, err
	}

	record.Email = replacement.Email
	record.Username = replacement.Username
	record.FirstName = replacement.FirstName
	record.LastName = replacement.LastName
	record.Age = replacement.Age

	if err := s.users.Save(ctx, record, email); err != nil {
		return dto.UserDTO{}, s.writeFailure("update user", record.Email, err)
	}
	return s.mapper.ToDTO(record)
}

// DeleteUser removes the user; the store deletes its habits in the same transaction.
func (s *UserService) DeleteUser(ctx context.Context, email string) error {
	record, err := s.findUser(ctx, email)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, record); err != nil {
		return storeFailure("delete user", err)
	}
	return nil
}

func (s *UserService) findUser(ctx context.Context, email string) (*db.User, error) {
	record, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, userNotFound(email)
		}
		return nil, storeFailure("find user", err)
	}
	return record, nil
}

func (s *UserService) writeFailure(op, email string, err error) error {
	if isDuplicate(err) {
		return userAlreadyExists(email, err)
	}
	return storeFailure(op, err)
}
