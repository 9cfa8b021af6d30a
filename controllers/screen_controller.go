package controllers

import (
	"net/http"
	"strconv"

	"signcraft-http-service/models"
	"signcraft-http-service/realtime"
	"signcraft-http-service/services"
	"signcraft-http-service/services/container"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// InterfaceScreenController 定义屏幕控制器接口
type InterfaceScreenController interface {
	GetScreens()
	GetScreen()
	GetScreenStatus()
	CreateScreen()
	UpdateScreen()
	DeleteScreen()
	RotateConnectionToken()
	GetScreenLogs()
}

// ScreenController 处理屏幕相关的请求
type ScreenController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
	Hub       *realtime.Hub
}

// NewScreenController 创建一个新的屏幕控制器
func NewScreenController(ctx *gin.Context, container *container.ServiceContainer, hub *realtime.Hub) *ScreenController {
	return &ScreenController{
		Ctx:       ctx,
		Container: container,
		Hub:       hub,
	}
}

// ScreenRequest 表示创建屏幕的请求结构
type ScreenRequest struct {
	DeviceID         string         `json:"device_id" binding:"required" example:"SC-PLAYER-0001"`
	Name             string         `json:"name" binding:"required" example:"门店大屏-1F"`
	Provider         string         `json:"provider" example:"signcraft_player"`
	ProviderDeviceID string         `json:"provider_device_id" example:"yd-123"`
	ScreenWidth      int            `json:"screen_width" example:"1920"`
	ScreenHeight     int            `json:"screen_height" example:"1080"`
	Orientation      string         `json:"orientation" example:"landscape"`
	LocationName     string         `json:"location_name" example:"一层入口"`
	LocationAddress  string         `json:"location_address" example:"上海市南京西路100号"`
	LocationLat      float64        `json:"location_latitude" example:"31.22"`
	LocationLng      float64        `json:"location_longitude" example:"121.45"`
	Timezone         string         `json:"timezone" example:"Asia/Shanghai"`
	Tags             datatypes.JSON `json:"tags"`
}

// ScreenCreatedData 创建屏幕的响应数据，connection_token 仅在此处返回一次
type ScreenCreatedData struct {
	Screen          *models.Screen `json:"screen"`
	ConnectionToken string         `json:"connection_token"`
}

// HandleScreenFunc 返回一个处理屏幕请求的Gin处理函数
func HandleScreenFunc(container *container.ServiceContainer, hub *realtime.Hub, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewScreenController(ctx, container, hub)

		switch method {
		case "getScreens":
			controller.GetScreens()
		case "getScreen":
			controller.GetScreen()
		case "getScreenStatus":
			controller.GetScreenStatus()
		case "createScreen":
			controller.CreateScreen()
		case "updateScreen":
			controller.UpdateScreen()
		case "deleteScreen":
			controller.DeleteScreen()
		case "rotateConnectionToken":
			controller.RotateConnectionToken()
		case "getScreenLogs":
			controller.GetScreenLogs()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *ScreenController) screenID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的屏幕ID",
			"data":    nil,
		})
		return 0, false
	}
	return uint(id), true
}

// 1. GetScreens 获取当前租户的屏幕列表
// @Summary      获取屏幕列表
// @Description  获取当前租户的屏幕列表，支持按状态、播放器类型和名称过滤
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        status    query  string  false  "状态过滤: online/offline/error/maintenance"
// @Param        provider  query  string  false  "播放器类型过滤"
// @Param        search    query  string  false  "按名称或位置模糊搜索"
// @Success      200  {array}   models.Screen
// @Failure      401  {object}  ErrorResponse
// @Router       /screens [get]
func (c *ScreenController) GetScreens() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	screens, err := screenService.GetScreens(tenantID, services.ScreenFilter{
		Status:   c.Ctx.Query("status"),
		Provider: c.Ctx.Query("provider"),
		Search:   c.Ctx.Query("search"),
	})
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取屏幕列表失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    screens,
	})
}

// 2. GetScreen 获取单个屏幕详情
// @Summary      获取单个屏幕
// @Description  根据ID获取屏幕信息
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "屏幕ID"
// @Success      200  {object}  models.Screen
// @Failure      404  {object}  ErrorResponse
// @Router       /screens/{id} [get]
func (c *ScreenController) GetScreen() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.screenID()
	if !ok {
		return
	}

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	screen, err := screenService.GetScreenByID(tenantID, id)
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
		"data":    screen,
	})
}

// ScreenStatusData 屏幕实时状态，connected 来自网关的活跃会话
type ScreenStatusData struct {
	models.ScreenSummary
	Connected bool `json:"connected"`
}

// 2.1 GetScreenStatus 获取屏幕的实时连接状态
// @Summary      获取屏幕状态
// @Description  返回屏幕的数据库状态快照以及网关侧是否持有活跃连接
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "屏幕ID"
// @Success      200  {object}  ScreenStatusData
// @Failure      404  {object}  ErrorResponse
// @Router       /screens/{id}/status [get]
func (c *ScreenController) GetScreenStatus() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.screenID()
	if !ok {
		return
	}

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	screen, err := screenService.GetScreenByID(tenantID, id)
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
		"data": ScreenStatusData{
			ScreenSummary: screen.Summary(),
			Connected:     c.Hub.IsScreenConnected(screen.ID),
		},
	})
}

// 3. CreateScreen 注册新屏幕
// @Summary      注册新屏幕
// @Description  注册一块新屏幕并签发设备连接令牌，令牌只在响应中出现一次
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        screen body ScreenRequest true "屏幕信息"
// @Success      201  {object}  ScreenCreatedData
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "device_id 已被占用"
// @Router       /screens [post]
func (c *ScreenController) CreateScreen() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var req ScreenRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	screen := &models.Screen{
		TenantID:         tenantID,
		DeviceID:         req.DeviceID,
		Name:             req.Name,
		Provider:         models.ScreenProvider(req.Provider),
		ProviderDeviceID: req.ProviderDeviceID,
		ScreenWidth:      req.ScreenWidth,
		ScreenHeight:     req.ScreenHeight,
		Orientation:      req.Orientation,
		LocationName:     req.LocationName,
		LocationAddress:  req.LocationAddress,
		LocationLat:      req.LocationLat,
		LocationLng:      req.LocationLng,
		Timezone:         req.Timezone,
		Tags:             req.Tags,
	}
	if screen.Provider == "" {
		screen.Provider = models.ProviderSignCraftPlayer
	}

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	if err := screenService.CreateScreen(screen); err != nil {
		c.Ctx.JSON(http.StatusConflict, gin.H{
			"code":    409,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "创建成功",
		"data": ScreenCreatedData{
			Screen:          screen,
			ConnectionToken: screen.ConnectionToken,
		},
	})
}

// 4. UpdateScreen 更新屏幕信息
// @Summary      更新屏幕
// @Description  更新屏幕的元数据，连接状态字段不可通过此接口修改
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "屏幕ID"
// @Param        updates body map[string]interface{} true "要更新的字段"
// @Success      200  {object}  models.Screen
// @Failure      404  {object}  ErrorResponse
// @Router       /screens/{id} [put]
func (c *ScreenController) UpdateScreen() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.screenID()
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

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	screen, err := screenService.UpdateScreen(tenantID, id, updates)
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
		"data":    screen,
	})
}

// 5. DeleteScreen 删除屏幕
// @Summary      删除屏幕
// @Description  删除屏幕及其排期和日志，并断开其在线连接
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "屏幕ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /screens/{id} [delete]
func (c *ScreenController) DeleteScreen() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.screenID()
	if !ok {
		return
	}

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	if err := screenService.DeleteScreen(tenantID, id); err != nil {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	if c.Hub != nil {
		c.Hub.DropScreenConnection(id)
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "删除成功",
		"data":    nil,
	})
}

// 6. RotateConnectionToken 轮换设备连接令牌
// @Summary      轮换连接令牌
// @Description  为屏幕签发新的连接令牌并立即断开旧令牌的在线连接
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "屏幕ID"
// @Success      200  {object}  ScreenCreatedData
// @Failure      404  {object}  ErrorResponse
// @Router       /screens/{id}/rotate-token [post]
func (c *ScreenController) RotateConnectionToken() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.screenID()
	if !ok {
		return
	}

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	screen, err := screenService.RotateConnectionToken(tenantID, id)
	if err != nil {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	// 旧令牌的连接立即失效
	if c.Hub != nil {
		c.Hub.DropScreenConnection(id)
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "令牌已轮换",
		"data": ScreenCreatedData{
			Screen:          screen,
			ConnectionToken: screen.ConnectionToken,
		},
	})
}

// 7. GetScreenLogs 获取屏幕日志
// @Summary      获取屏幕日志
// @Description  获取屏幕最近上报的日志
// @Tags         screen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path   string  true   "屏幕ID"
// @Param        limit  query  int     false  "返回条数，默认100，最大500"
// @Success      200  {array}   models.ScreenLog
// @Failure      404  {object}  ErrorResponse
// @Router       /screens/{id}/logs [get]
func (c *ScreenController) GetScreenLogs() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.screenID()
	if !ok {
		return
	}

	screenService := c.Container.GetService("screen").(services.InterfaceScreenService)
	if _, err := screenService.GetScreenByID(tenantID, id); err != nil {
		c.Ctx.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	limit, _ := strconv.Atoi(c.Ctx.DefaultQuery("limit", "100"))
	logService := c.Container.GetService("screen_log").(services.InterfaceScreenLogService)
	logs, err := logService.GetRecent(tenantID, id, limit)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取日志失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    logs,
	})
}
