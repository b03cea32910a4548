package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitbuilder/internal/dto"
)

// ListUsers 返回全部用户
func (a *API) ListUsers(c *gin.Context) {
	users, err := a.users.ListUsers(c.Request.Context())
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser 按 email 返回用户
func (a *API) GetUser(c *gin.Context) {
	user, err := a.users.GetUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUserHabits 返回用户拥有的习惯
func (a *API) ListUserHabits(c *gin.Context) {
	habits, err := a.habits.ListHabitsByOwner(c.Request.Context(), c.Param("email"))
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// CreateUser 创建用户，返回用户名
func (a *API) CreateUser(c *gin.Context) {
	var user dto.UserDTO
	if !bindJSON(c, &user, func() { user = a.sanitizeUser(user) }) {
		return
	}

	username, err := a.users.AddUser(c.Request.Context(), user)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, username)
}

// CreateUsers 批量创建用户，默认按完整字段去重
func (a *API) CreateUsers(c *gin.Context) {
	policy, ok := dedupPolicy(c, dto.DedupByValue)
	if !ok {
		return
	}

	var users []dto.UserDTO
	sanitize := func() {
		for i := range users {
			users[i] = a.sanitizeUser(users[i])
		}
	}
	if !bindJSON(c, &users, sanitize) {
		return
	}

	usernames, err := a.users.AddUsers(c.Request.Context(), policy, users...)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usernames)
}

// UpdateUser 整体更新用户
func (a *API) UpdateUser(c *gin.Context) {
	var user dto.UserDTO
	if !bindJSON(c, &user, func() { user = a.sanitizeUser(user) }) {
		return
	}

	updated, err := a.users.UpdateUser(c.Request.Context(), c.Param("email"), user)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteUser 删除用户及其习惯
func (a *API) DeleteUser(c *gin.Context) {
	if err := a.users.DeleteUser(c.Request.Context(), c.Param("email")); err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
