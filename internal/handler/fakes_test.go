package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/service"
	"github.com/sirupsen/logrus"
)

var handlerToday = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.Local)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupHandlerTest(t *testing.T) {
	t.Helper()
	if err := RegisterValidators(); err != nil {
		t.Fatalf("RegisterValidators returned error: %v", err)
	}
	previous := dto.Now
	dto.Now = func() time.Time { return handlerToday }
	t.Cleanup(func() { dto.Now = previous })
}

// habitManagerStub answers only the methods a test sets.
type habitManagerStub struct {
	service.HabitManager
	list     func() ([]dto.HabitDTO, error)
	get      func(name string) (dto.HabitDTO, error)
	byOwner  func(email string) ([]dto.HabitDTO, error)
	add      func(habit dto.HabitDTO) (string, error)
	addBatch func(policy dto.DedupPolicy, habits []dto.HabitDTO) ([]string, error)
	update   func(name string, habit dto.HabitDTO) (dto.HabitDTO, error)
	upsert   func(name string, habit dto.HabitDTO) (dto.HabitDTO, error)
	patch    func(name string, patch []byte) (dto.HabitDTO, error)
	remove   func(name string) error
}

func (s *habitManagerStub) ListHabits(context.Context) ([]dto.HabitDTO, error) { return s.list() }

func (s *habitManagerStub) GetHabitByName(_ context.Context, name string) (dto.HabitDTO, error) {
	return s.get(name)
}

func (s *habitManagerStub) ListHabitsByOwner(_ context.Context, email string) ([]dto.HabitDTO, error) {
	return s.byOwner(email)
}

func (s *habitManagerStub) AddHabit(_ context.Context, habit dto.HabitDTO) (string, error) {
	return s.add(habit)
}

func (s *habitManagerStub) AddHabits(_ context.Context, policy dto.DedupPolicy, habits ...dto.HabitDTO) ([]string, error) {
	return s.addBatch(policy, habits)
}

func (s *habitManagerStub) UpdateHabit(_ context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error) {
	return s.update(name, habit)
}

func (s *habitManagerStub) UpsertHabit(_ context.Context, name string, habit dto.HabitDTO) (dto.HabitDTO, error) {
	return s.upsert(name, habit)
}

func (s *habitManagerStub) PartialUpdateHabit(_ context.Context, name string, patch []byte) (dto.HabitDTO, error) {
	return s.patch(name, patch)
}

func (s *habitManagerStub) DeleteHabit(_ context.Context, name string) error { return s.remove(name) }

type userManagerStub struct {
	service.UserManager
	get      func(email string) (dto.UserDTO, error)
	add      func(user dto.UserDTO) (string, error)
	addBatch func(policy dto.DedupPolicy, users []dto.UserDTO) ([]string, error)
	update   func(email string, user dto.UserDTO) (dto.UserDTO, error)
	remove   func(email string) error
}

func (s *userManagerStub) GetUser(_ context.Context, email string) (dto.UserDTO, error) {
	return s.get(email)
}

func (s *userManagerStub) AddUser(_ context.Context, user dto.UserDTO) (string, error) {
	return s.add(user)
}

func (s *userManagerStub) AddUsers(_ context.Context, policy dto.DedupPolicy, users ...dto.UserDTO) ([]string, error) {
	return s.addBatch(policy, users)
}

func (s *userManagerStub) UpdateUser(_ context.Context, email string, user dto.UserDTO) (dto.UserDTO, error) {
	return s.update(email, user)
}

func (s *userManagerStub) DeleteUser(_ context.Context, email string) error { return s.remove(email) }

func newTestAPI(habits service.HabitManager, users service.UserManager) *API {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewAPI(habits, users, Options{Logger: logger, SupportContact: "support@example.com"})
}

// perform serves one request through an engine holding only route.
func perform(method, route, target, contentType, body string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	r.Handle(method, route, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	r.ServeHTTP(w, req)
	return w
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

