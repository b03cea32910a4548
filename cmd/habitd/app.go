package main

import (
	"time"

	"github.com/habitbuilder/internal/config"
	"github.com/habitbuilder/internal/db"
	"github.com/habitbuilder/internal/metrics"
	"github.com/habitbuilder/internal/service"
	"github.com/habitbuilder/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// appContext is shared by every command.
type appContext struct {
	cfg    config.AppConfig
	logger *logrus.Logger
}

// openDatabase connects and migrates through db.Init, leaving db.DB set.
func (a *appContext) openDatabase() (*gorm.DB, error) {
	err := db.Init(db.Options{
		Driver: a.cfg.DatabaseDriver,
		Path:   a.cfg.DatabasePath,
		DSN:    a.cfg.DatabaseDSN,
		Logger: gormlogger.New(a.logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	return db.DB, nil
}

// services wires stores, services and the configured interceptors.
// collectors may be nil when metrics are disabled.
func (a *appContext) services(gdb *gorm.DB, collectors *metrics.Collectors) (service.HabitManager, service.UserManager) {
	habitStore := store.NewHabitStore(gdb)
	userStore := store.NewUserStore(gdb)

	interceptors := []service.Interceptor{
		service.LoggingInterceptor(a.logger, service.LogOptions{
			Calls:   a.cfg.LogMethodCalls,
			Returns: a.cfg.LogMethodReturns,
			Errors:  a.cfg.LogMethodErrors,
		}),
	}
	if collectors != nil {
		interceptors = append(interceptors, service.MetricsInterceptor(collectors))
	}

	habits := service.DecorateHabits(service.NewHabitService(habitStore, userStore), interceptors...)
	users := service.DecorateUsers(service.NewUserService(userStore), interceptors...)
	return habits, users
}
