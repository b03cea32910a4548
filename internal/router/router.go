package router

import (
	"github.com/gin-gonic/gin"
	"github.com/habitbuilder/internal/handler"
	"github.com/habitbuilder/internal/logging"
	"github.com/habitbuilder/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Options 描述路由装配所需的可选组件
type Options struct {
	Logger  logrus.FieldLogger
	Metrics *metrics.Collectors
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Logger != nil {
		r.Use(logging.AccessLog(opts.Logger))
	}
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	v1 := r.Group("/api")
	{
		v1.GET("/habits", api.ListHabits)
		v1.POST("/habits", api.CreateHabits)
		v1.GET("/habit/:name", api.GetHabit)
		v1.POST("/habit", api.CreateHabit)
		v1.PUT("/habit/:name", api.UpdateHabit)
		v1.PATCH("/habit/:name", api.PatchHabit)
		v1.DELETE("/habit/:name", api.DeleteHabit)

		v1.GET("/users", api.ListUsers)
		v1.GET("/user", api.ListUsers)
		v1.POST("/users", api.CreateUsers)
		v1.GET("/user/:email", api.GetUser)
		v1.GET("/user/:email/habits", api.ListUserHabits)
		v1.POST("/user", api.CreateUser)
		v1.PUT("/user/:email", api.UpdateUser)
		v1.DELETE("/user/:email", api.DeleteUser)
	}

	return r
}
