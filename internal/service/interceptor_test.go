package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/model"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type recordedCall struct {
	service, operation, outcome string
}

type fakeRecorder struct {
	calls []recordedCall
}

func (r *fakeRecorder) ObserveCall(service, operation, outcome string, _ time.Duration) {
	r.calls = append(r.calls, recordedCall{service, operation, outcome})
}

func TestDecorateHabitsLogsAndRecords(t *testing.T) {
	habits, _ := setupServices(t)
	logger, hook := logtest.NewNullLogger()
	recorder := &fakeRecorder{}

	decorated := DecorateHabits(habits,
		LoggingInterceptor(logger, LogOptions{Calls: true, Returns: true, Errors: true}),
		MetricsInterceptor(recorder),
	)
	ctx := context.Background()

	if _, err := decorated.AddHabit(ctx, habitInput("Read", model.FrequencyDaily)); err != nil {
		t.Fatalf("AddHabit returned error: %v", err)
	}
	if _, err := decorated.GetHabitByName(ctx, "Nope"); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("expected ErrHabitNotFound through the decorator, got %v", err)
	}

	entries := hook.AllEntries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(entries))
	}
	if entries[0].Message != "method call" || entries[0].Data["operation"] != "AddHabit" || entries[0].Data["name"] != "Read" {
		t.Fatalf("unexpected call entry: %+v", entries[0].Data)
	}
	if entries[1].Message != "method return" || entries[1].Data["result"] != "Read" {
		t.Fatalf("unexpected return entry: %+v", entries[1].Data)
	}
	if entries[3].Level != logrus.WarnLevel || entries[3].Message != "method failed" {
		t.Fatalf("expected domain error at warn, got %s %q", entries[3].Level, entries[3].Message)
	}

	want := []recordedCall{
		{"HabitService", "AddHabit", "ok"},
		{"HabitService", "GetHabitByName", "not_found"},
	}
	if fmt.Sprint(recorder.calls) != fmt.Sprint(want) {
		t.Fatalf("unexpected recorded calls: %v", recorder.calls)
	}
}

func TestLoggingInterceptorHonoursOptions(t *testing.T) {
	_, users := setupServices(t)
	logger, hook := logtest.NewNullLogger()

	decorated := DecorateUsers(users, LoggingInterceptor(logger, LogOptions{Errors: true}))
	ctx := context.Background()

	if _, err := decorated.AddUser(ctx, dto.NewUserDTO("ann@example.com", "ann", nil, nil, nil)); err != nil {
		t.Fatalf("AddUser returned error: %v", err)
	}
	if len(hook.AllEntries()) != 0 {
		t.Fatalf("expected no entries for a successful call, got %d", len(hook.AllEntries()))
	}

	if _, err := decorated.AddUser(ctx, dto.NewUserDTO("ann@example.com", "ann", nil, nil, nil)); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
	last := hook.LastEntry()
	if last == nil || last.Data["service"] != "UserService" || last.Data["operation"] != "AddUser" {
		t.Fatalf("unexpected error entry: %+v", last)
	}
}

func TestLoggingInterceptorLogsOnlyNaturalKeys(t *testing.T) {
	_, users := setupServices(t)
	logger, hook := logtest.NewNullLogger()

	decorated := DecorateUsers(users, LoggingInterceptor(logger, LogOptions{Calls: true, Returns: true}))
	ctx := context.Background()

	first, last := "Ann", "Lee"
	user := dto.NewUserDTO("ann@example.com", "ann", &first, &last, nil)
	if _, err := decorated.AddUser(ctx, user); err != nil {
		t.Fatalf("AddUser returned error: %v", err)
	}
	user.Email = "ann.lee@example.com"
	if _, err := decorated.UpdateUser(ctx, "ann@example.com", user); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	want := []logrus.Fields{
		{"service": "UserService", "operation": "AddUser", "email": "ann@example.com"},
		{"service": "UserService", "operation": "UpdateUser", "email": "ann@example.com", "newEmail": "ann.lee@example.com"},
	}
	var calls []logrus.Fields
	for _, entry := range hook.AllEntries() {
		if entry.Message == "method call" {
			calls = append(calls, entry.Data)
		}
	}
	if fmt.Sprint(calls) != fmt.Sprint(want) {
		t.Fatalf("unexpected call fields: %v", calls)
	}
	for _, entry := range hook.AllEntries() {
		for _, value := range entry.Data {
			if _, ok := value.(dto.UserDTO); ok {
				t.Fatalf("entry %q logged a whole user: %v", entry.Message, entry.Data)
			}
		}
	}
}

func TestLoggingInterceptorStoreFailuresAtError(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	icpt := LoggingInterceptor(logger, LogOptions{Errors: true})

	_, err := icpt(context.Background(), Call{Service: "HabitService", Operation: "ListHabits"}, func() (any, error) {
		return nil, storeFailure("list habits", errors.New("connection reset"))
	})
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore to pass through, got %v", err)
	}
	if hook.LastEntry().Level != logrus.ErrorLevel {
		t.Fatalf("expected error level, got %s", hook.LastEntry().Level)
	}
}

func TestDecorateWithoutInterceptorsReturnsNext(t *testing.T) {
	habits, users := setupServices(t)
	if DecorateHabits(habits) != HabitManager(habits) {
		t.Fatal("expected habits manager to be returned as is")
	}
	if DecorateUsers(users) != UserManager(users) {
		t.Fatal("expected users manager to be returned as is")
	}
}

func TestOutcome(t *testing.T) {
	tests := map[string]error{
		"ok":          nil,
		"not_found":   userNotFound("a@b.io"),
		"conflict":    habitAlreadyExists("Read", nil),
		"store_error": storeFailure("op", errors.New("x")),
		"invalid":     errors.New("bad"),
	}
	for want, err := range tests {
		if got := Outcome(err); got != want {
			t.Fatalf("Outcome(%v) = %s, want %s", err, got, want)
		}
	}
}

func TestPatchKeys(t *testing.T) {
	if got := fmt.Sprint(patchKeys([]byte(`{"name":"x","reminder":null}`))); got != "[name reminder]" {
		t.Fatalf("unexpected keys: %s", got)
	}
	if patchKeys([]byte(`[1,2]`)) != nil {
		t.Fatal("expected nil keys for a non-object patch")
	}
}
