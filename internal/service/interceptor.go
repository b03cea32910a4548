package service

import (
	"context"
	"errors"
	"time"

	"github.com/habitbuilder/internal/dto"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Call identifies one service invocation for interceptors.
type Call struct {
	Service   string
	Operation string
	Args      logrus.Fields
}

// Interceptor wraps a single service call. It must call next exactly once
// and return its results, possibly after observing them.
type Interceptor func(ctx context.Context, call Call, next func() (any, error)) (any, error)

func chain(interceptors []Interceptor) Interceptor {
	return func(ctx context.Context, call Call, next func() (any, error)) (any, error) {
		wrapped := next
		for i := len(interceptors) - 1; i >= 0; i-- {
			icpt, inner := interceptors[i], wrapped
			wrapped = func() (any, error) { return icpt(ctx, call, inner) }
		}
		return wrapped()
	}
}

// LogOptions selects what LoggingInterceptor records.
type LogOptions struct {
	Calls   bool
	Returns bool
	Errors  bool
}

// LoggingInterceptor logs calls with their natural keys, returned values and errors.
// Domain errors are logged at WARN, store failures at ERROR.
func LoggingInterceptor(logger logrus.FieldLogger, opts LogOptions) Interceptor {
	return func(ctx context.Context, call Call, next func() (any, error)) (any, error) {
		entry := logger.WithFields(logrus.Fields{
			"service":   call.Service,
			"operation": call.Operation,
		})
		if opts.Calls {
			entry.WithFields(call.Args).Info("method call")
		}

		out, err := next()
		switch {
		case err != nil && opts.Errors:
			failure := entry.WithError(err)
			if errors.Is(err, ErrStore) {
				failure.Error("method failed")
			} else {
				failure.Warn("method failed")
			}
		case err == nil && opts.Returns:
			entry.WithField("result", summarize(out)).Info("method return")
		}
		return out, err
	}
}

// CallRecorder receives the outcome of every service call.
type CallRecorder interface {
	ObserveCall(service, operation, outcome string, elapsed time.Duration)
}

// MetricsInterceptor reports each call to recorder with an outcome label.
func MetricsInterceptor(recorder CallRecorder) Interceptor {
	return func(ctx context.Context, call Call, next func() (any, error)) (any, error) {
		started := time.Now()
		out, err := next()
		recorder.ObserveCall(call.Service, call.Operation, Outcome(err), time.Since(started))
		return out, err
	}
}

// Outcome classifies err for metrics labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrHabitNotFound), errors.Is(err, ErrUserNotFound):
		return "not_found"
	case errors.Is(err, ErrHabitAlreadyExists), errors.Is(err, ErrUserAlreadyExists):
		return "conflict"
	case errors.Is(err, ErrStore):
		return "store_error"
	default:
		return "invalid"
	}
}

func summarize(out any) any {
	switch v := out.(type) {
	case nil:
		return nil
	case string, []string:
		return v
	case dto.HabitDTO:
		return v.Name
	case dto.UserDTO:
		return v.Email
	case []dto.HabitDTO:
		return len(v)
	case []dto.UserDTO:
		return len(v)
	default:
		return v
	}
}

// patchKeys lists the top-level members of a merge patch for call logs.
func patchKeys(patch []byte) []string {
	parsed := gjson.ParseBytes(patch)
	if !parsed.IsObject() {
		return nil
	}
	keys := make([]string, 0)
	parsed.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

func namesOf(habits []dto.HabitDTO) []string {
	names := make([]string, 0, len(habits))
	for _, habit := range habits {
		names = append(names, habit.Name)
	}
	return names
}

func emailsOf(users []dto.UserDTO) []string {
	emails := make([]string, 0, len(users))
	for _, user := range users {
		emails = append(emails, user.Email)
	}
	return emails
}

// DecorateHabits returns next wrapped by interceptors, outermost first.
func DecorateHabits(next HabitManager, interceptors ...Interceptor) HabitManager {
	if len(interceptors) == 0 {
		return next
	}
	return &decoratedHabits{next: next, run: chain(interceptors)}
}

type decoratedHabits struct {
	next HabitManager
	run  Interceptor
}

func (d *decoratedHabits) call(ctx context.Context, op string, args logrus.Fields, fn func() (any, error)) (any, error) {
	return d.run(ctx, Call{Service: "HabitService", Operation: op, Args: args}, fn)
}

func (d *decoratedHabits) ListHabits(ctx context.Context) ([]dto.HabitDTO, error) {
	out, err := d.call(ctx, "ListHabits", nil, func() (any, error) {
		return d.next.ListHabits(ctx)
	})
	habits, _ := out.([]dto.HabitDTO)
	return habits, err
}

func (d *decoratedHabits) GetHabitByName(ctx context.Context, name string) (dto.HabitDTO, error) {
	out, err := d.call(ctx, "GetHabitByName", logrus.Fields{"name": name}, func() (any, error) {
		return d.next.GetHabitByName(ctx, name)
	})
	habit, _ := out.(dto.HabitDTO)
	return habit, err
}

func (d *decoratedHabits) ListHabitsByOwner(ctx context.Context, email string) ([]dto.HabitDTO, error) {
	out, err := d.call(ctx, "ListHabitsByOwner", logrus.Fields{"owner": email}, func() (any, error) {
		return d.next.ListHabitsByOwner(ctx, email)
	})
	habits, _ := out.([]dto.HabitDTO)
	return habits, err
}

func (d *decoratedHabits) AddHabit(ctx context.Context, habit dto.HabitDTO) (string, error) {
	out, err := d.call(ctx, "AddHabit", logrus.Fields{"name": habit.Name}, func() (any, error) {
		return d.next.AddHabit(ctx, habit)
	})
	name, _ := out.(string)
	return name, err
}

func (d *decoratedHabits) AddHabits(ctx context.Context, policy dto.DedupPolicy, habits ...dto.HabitDTO) ([]string, error) {
	args := logrus.Fields{"dedup": policy.String(), "names": namesOf(habits)}
	out, err := d.call(ctx, "AddHabits", args, func() (any, error) {
		return d.next.AddHabits(ctx, policy, habits...)
	})
	names, _ := out.([]string)
	return names, err
}

func (d *decoratedHabits) UpdateHabit(ctx context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error) {
	out, err := d.call(ctx, "UpdateHabit", logrus.Fields{"name": name, "newName": habit.Name}, func() (any, error) {
		return d.next.UpdateHabit(ctx, name, habit)
	})
	updated, _ := out.(dto.HabitDTO)
	return updated, err
}

func (d *decoratedHabits) UpsertHabit(ctx context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error) {
	out, err := d.call(ctx, "UpsertHabit", logrus.Fields{"name": name, "newName": habit.Name}, func() (any, error) {
		return d.next.UpsertHabit(ctx, name, habit)
	})
	updated, _ := out.(dto.HabitDTO)
	return updated, err
}

func (d *decoratedHabits) PartialUpdateHabit(ctx context.Context, name string, patch []byte) (dto.HabitDTO, error) {
	args := logrus.Fields{"name": name, "patchKeys": patchKeys(patch)}
	out, err := d.call(ctx, "PartialUpdateHabit", args, func() (any, error) {
		return d.next.PartialUpdateHabit(ctx, name, patch)
	})
	updated, _ := out.(dto.HabitDTO)
	return updated, err
}

func (d *decoratedHabits) DeleteHabit(ctx context.Context, name string) error {
	_, err := d.call(ctx, "DeleteHabit", logrus.Fields{"name": name}, func() (any, error) {
		return nil, d.next.DeleteHabit(ctx, name)
	})
	return err
}

// DecorateUsers returns next wrapped by interceptors, outermost first.
func DecorateUsers(next UserManager, interceptors ...Interceptor) UserManager {
	if len(interceptors) == 0 {
		return next
	}
	return &decoratedUsers{next: next, run: chain(interceptors)}
}

type decoratedUsers struct {
	next UserManager
	run  Interceptor
}

func (d *decoratedUsers) call(ctx context.Context, op string, args logrus.Fields, fn func() (any, error)) (any, error) {
	return d.run(ctx, Call{Service: "UserService", Operation: op, Args: args}, fn)
}

func (d *decoratedUsers) ListUsers(ctx context.Context) ([]dto.UserDTO, error) {
	out, err := d.call(ctx, "ListUsers", nil, func() (any, error) {
		return d.next.ListUsers(ctx)
	})
	users, _ := out.([]dto.UserDTO)
	return users, err
}

func (d *decoratedUsers) GetUser(ctx context.Context, email string) (dto.UserDTO, error) {
	out, err := d.call(ctx, "GetUser", logrus.Fields{"email": email}, func() (any, error) {
		return d.next.GetUser(ctx, email)
	})
	user, _ := out.(dto.UserDTO)
	return user, err
}

func (d *decoratedUsers) AddUser(ctx context.Context, user dto.UserDTO) (string, error) {
	out, err := d.call(ctx, "AddUser", logrus.Fields{"email": user.Email}, func() (any, error) {
		return d.next.AddUser(ctx, user)
	})
	username, _ := out.(string)
	return username, err
}

func (d *decoratedUsers) AddUsers(ctx context.Context, policy dto.DedupPolicy, users ...dto.UserDTO) ([]string, error) {
	args := logrus.Fields{"dedup": policy.String(), "emails": emailsOf(users)}
	out, err := d.call(ctx, "AddUsers", args, func() (any, error) {
		return d.next.AddUsers(ctx, policy, users...)
	})
	usernames, _ := out.([]string)
	return usernames, err
}

func (d *decoratedUsers) UpdateUser(ctx context.Context, email string, user dto.UserDTO) (dto.UserDTO, error) {
	out, err := d.call(ctx, "UpdateUser", logrus.Fields{"email": email, "newEmail": user.Email}, func() (any, error) {
		return d.next.UpdateUser(ctx, email, user)
	})
	updated, _ := out.(dto.UserDTO)
	return updated, err
}

func (d *decoratedUsers) DeleteUser(ctx context.Context, email string) error {
	_, err := d.call(ctx, "DeleteUser", logrus.Fields{"email": email}, func() (any, error) {
		return nil, d.next.DeleteUser(ctx, email)
	})
	return err
}
