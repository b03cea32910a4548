package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/habitbuilder/internal/dto"
	"github.com/tidwall/gjson"
)

const upsertMode = "upsert"

// ListHabits 返回全部习惯
func (a *API) ListHabits(c *gin.Context) {
	habits, err := a.habits.ListHabits(c.Request.Context())
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// GetHabit 按名称返回单个习惯
func (a *API) GetHabit(c *gin.Context) {
	habit, err := a.habits.GetHabitByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

// CreateHabit 创建习惯，返回名称
func (a *API) CreateHabit(c *gin.Context) {
	var habit dto.HabitDTO
	if !bindJSON(c, &habit) {
		return
	}

	name, err := a.habits.AddHabit(c.Request.Context(), habit)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, name)
}

// CreateHabits 批量创建习惯，冲突项被忽略
func (a *API) CreateHabits(c *gin.Context) {
	policy, ok := dedupPolicy(c, dto.DedupByNaturalKey)
	if !ok {
		return
	}

	var habits []dto.HabitDTO
	if !bindJSON(c, &habits) {
		return
	}

	names, err := a.habits.AddHabits(c.Request.Context(), policy, habits...)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, names)
}

// UpdateHabit 整体更新习惯；?mode=upsert 时不存在则创建
func (a *API) UpdateHabit(c *gin.Context) {
	var habit dto.HabitDTO
	if !bindJSON(c, &habit) {
		return
	}

	name := c.Param("name")
	ctx := c.Request.Context()

	var (
		updated dto.HabitDTO
		err     error
	)
	if strings.EqualFold(c.Query("mode"), upsertMode) {
		updated, err = a.habits.UpsertHabit(ctx, name, habit)
	} else {
		updated, err = a.habits.UpdateHabit(ctx, name, habit)
	}
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// PatchHabit 以 JSON merge patch 局部更新习惯
func (a *API) PatchHabit(c *gin.Context) {
	if !isMergePatchContentType(c.ContentType()) {
		respondError(c, http.StatusUnsupportedMediaType, "Merge patch requires application/merge-patch+json")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Unable to read request body")
		return
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		respondError(c, http.StatusBadRequest, "Merge patch must be a JSON object")
		return
	}

	updated, err := a.habits.PartialUpdateHabit(c.Request.Context(), c.Param("name"), body)
	if err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteHabit 删除习惯
func (a *API) DeleteHabit(c *gin.Context) {
	if err := a.habits.DeleteHabit(c.Request.Context(), c.Param("name")); err != nil {
		a.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
