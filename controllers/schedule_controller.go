package controllers

import (
	"net/http"
	"strconv"
	"time"

	"signcraft-http-service/models"
	"signcraft-http-service/services"
	"signcraft-http-service/services/container"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// InterfaceScheduleController 定义排期控制器接口
type InterfaceScheduleController interface {
	GetSchedules()
	GetSchedule()
	CreateSchedule()
	UpdateSchedule()
	DeleteSchedule()
}

// ScheduleController 处理排期相关的请求
type ScheduleController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewScheduleController 创建一个新的排期控制器
func NewScheduleController(ctx *gin.Context, container *container.ServiceContainer) *ScheduleController {
	return &ScheduleController{
		Ctx:       ctx,
		Container: container,
	}
}

// ScheduleRequest 表示创建排期的请求结构
type ScheduleRequest struct {
	ScreenID   uint           `json:"screen_id" binding:"required" example:"1"`
	PlaylistID uint           `json:"playlist_id" binding:"required" example:"2"`
	Name       string         `json:"name" binding:"required" example:"工作日早间排期"`
	StartDate  *time.Time     `json:"start_date"`
	EndDate    *time.Time     `json:"end_date"`
	StartTime  string         `json:"start_time" example:"08:00:00"`
	EndTime    string         `json:"end_time" example:"12:00:00"`
	DaysOfWeek datatypes.JSON `json:"days_of_week"` // 例如 [1,2,3,4,5]
	Priority   int            `json:"priority" example:"10"`
	IsActive   *bool          `json:"is_active"`
}

// HandleScheduleFunc 返回一个处理排期请求的Gin处理函数
func HandleScheduleFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewScheduleController(ctx, container)

		switch method {
		case "getSchedules":
			controller.GetSchedules()
		case "getSchedule":
			controller.GetSchedule()
		case "createSchedule":
			controller.CreateSchedule()
		case "updateSchedule":
			controller.UpdateSchedule()
		case "deleteSchedule":
			controller.DeleteSchedule()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *ScheduleController) pathID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的排期ID",
			"data":    nil,
		})
		return 0, false
	}
	return uint(id), true
}

// 1. GetSchedules 获取排期列表
// @Summary      获取排期列表
// @Description  获取当前租户的排期，按优先级降序，可按屏幕过滤
// @Tags         schedule
// @Produce      json
// @Security     BearerAuth
// @Param        screen_id  query  int  false  "按屏幕过滤"
// @Success      200  {array}  models.Schedule
// @Router       /schedules [get]
func (c *ScheduleController) GetSchedules() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var screenID *uint
	if raw := c.Ctx.Query("screen_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			value := uint(id)
			screenID = &value
		}
	}

	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)
	schedules, err := scheduleService.GetSchedules(tenantID, screenID)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取排期列表失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    schedules,
	})
}

// 2. GetSchedule 获取单个排期
// @Summary      获取单个排期
// @Tags         schedule
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "排期ID"
// @Success      200  {object}  models.Schedule
// @Failure      404  {object}  ErrorResponse
// @Router       /schedules/{id} [get]
func (c *ScheduleController) GetSchedule() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)
	schedule, err := scheduleService.GetScheduleByID(tenantID, id)
	if err != nil {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    schedule,
	})
}

// 3. CreateSchedule 创建排期
// @Summary      创建排期
// @Description  把播放列表排期到屏幕，屏幕和播放列表都必须属于当前租户
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        schedule body ScheduleRequest true "排期信息"
// @Success      201  {object}  models.Schedule
// @Failure      400  {object}  ErrorResponse
// @Router       /schedules [post]
func (c *ScheduleController) CreateSchedule() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	schedule := &models.Schedule{
		TenantID:   tenantID,
		ScreenID:   req.ScreenID,
		PlaylistID: req.PlaylistID,
		Name:       req.Name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		DaysOfWeek: req.DaysOfWeek,
		Priority:   req.Priority,
		IsActive:   true,
	}
	if req.IsActive != nil {
		schedule.IsActive = *req.IsActive
	}

	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)
	if err := scheduleService.CreateSchedule(schedule); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "创建成功",
		"data":    schedule,
	})
}

// 4. UpdateSchedule 更新排期
// @Summary      更新排期
// @Tags         schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "排期ID"
// @Param        updates body map[string]interface{} true "要更新的字段"
// @Success      200  {object}  models.Schedule
// @Failure      404  {object}  ErrorResponse
// @Router       /schedules/{id} [put]
func (c *ScheduleController) UpdateSchedule() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	var updates map[string]interface{}
	if err := c.Ctx.ShouldBindJSON(&updates); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)
	schedule, err := scheduleService.UpdateSchedule(tenantID, id, updates)
	if err != nil {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "更新成功",
		"data":    schedule,
	})
}

// 5. DeleteSchedule 删除排期
// @Summary      删除排期
// @Tags         schedule
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "排期ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /schedules/{id} [delete]
func (c *ScheduleController) DeleteSchedule() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	scheduleService := c.Container.GetService("schedule").(services.InterfaceScheduleService)
	if err := scheduleService.DeleteSchedule(tenantID, id); err != nil {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "删除成功",
		"data":    nil,
	})
}
