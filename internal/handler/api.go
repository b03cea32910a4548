package handler

import (
	"html"
	"strings"

	"github.com/habitbuilder/internal/dto"
	"github.com/habitbuilder/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
)

const defaultSupportContact = "Feel free to contact our support using email: support@habitbuilder.dev"

// API bundles shared dependencies for HTTP handlers.
type API struct {
	habits         service.HabitManager
	users          service.UserManager
	logger         logrus.FieldLogger
	supportContact string
	sanitizer      *bluemonday.Policy
}

// Options configures NewAPI.
type Options struct {
	Logger         logrus.FieldLogger
	SupportContact string
}

// NewAPI constructs a handler set over the given services.
func NewAPI(habits service.HabitManager, users service.UserManager, opts Options) *API {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	contact := strings.TrimSpace(opts.SupportContact)
	if contact == "" {
		contact = defaultSupportContact
	}

	return &API{
		habits:         habits,
		users:          users,
		logger:         logger,
		supportContact: contact,
		sanitizer:      bluemonday.StrictPolicy(),
	}
}

// stripMarkup removes any HTML from a free-text field.
func (a *API) stripMarkup(value string) string {
	if !strings.ContainsAny(value, "<>&") {
		return value
	}
	return strings.TrimSpace(html.UnescapeString(a.sanitizer.Sanitize(value)))
}

func (a *API) sanitizeUser(user dto.UserDTO) dto.UserDTO {
	user.Username = a.stripMarkup(user.Username)
	user.FirstName = a.stripMarkup(user.FirstName)
	user.LastName = a.stripMarkup(user.LastName)
	return user
}
