package controllers

import (
	"net/http"
	"strconv"

	"signcraft-http-service/models"
	"signcraft-http-service/services"
	"signcraft-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceScreenGroupController 定义屏幕分组控制器接口
type InterfaceScreenGroupController interface {
	GetGroups()
	GetGroup()
	CreateGroup()
	UpdateGroup()
	DeleteGroup()
	SetMembers()
}

// ScreenGroupController 处理屏幕分组相关的请求
type ScreenGroupController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewScreenGroupController 创建一个新的屏幕分组控制器
func NewScreenGroupController(ctx *gin.Context, container *container.ServiceContainer) *ScreenGroupController {
	return &ScreenGroupController{
		Ctx:       ctx,
		Container: container,
	}
}

// ScreenGroupRequest 表示创建分组的请求结构
type ScreenGroupRequest struct {
	Name        string `json:"name" binding:"required" example:"华东门店"`
	Description string `json:"description" example:"华东区域的所有门店屏幕"`
}

// GroupMembersRequest 表示设置分组成员的请求结构
type GroupMembersRequest struct {
	ScreenIDs []uint `json:"screen_ids" binding:"required"`
}

// HandleScreenGroupFunc 返回一个处理屏幕分组请求的Gin处理函数
func HandleScreenGroupFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewScreenGroupController(ctx, container)

		switch method {
		case "getGroups":
			controller.GetGroups()
		case "getGroup":
			controller.GetGroup()
		case "createGroup":
			controller.CreateGroup()
		case "updateGroup":
			controller.UpdateGroup()
		case "deleteGroup":
			controller.DeleteGroup()
		case "setMembers":
			controller.SetMembers()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *ScreenGroupController) pathID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的分组ID",
			"data":    nil,
		})
		return 0, false
	}
	return uint(id), true
}

// 1. GetGroups 获取分组列表
// @Summary      获取屏幕分组列表
// @Tags         screen-group
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.ScreenGroup
// @Router       /screen-groups [get]
func (c *ScreenGroupController) GetGroups() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	groupService := c.Container.GetService("screen_group").(services.InterfaceScreenGroupService)
	groups, err := groupService.GetGroups(tenantID)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取分组列表失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    groups,
	})
}

// 2. GetGroup 获取单个分组（含成员）
// @Summary      获取单个屏幕分组
// @Tags         screen-group
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "分组ID"
// @Success      200  {object}  models.ScreenGroup
// @Failure      404  {object}  ErrorResponse
// @Router       /screen-groups/{id} [get]
func (c *ScreenGroupController) GetGroup() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	groupService := c.Container.GetService("screen_group").(services.InterfaceScreenGroupService)
	group, err := groupService.GetGroupByID(tenantID, id)
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
		"data":    group,
	})
}

// 3. CreateGroup 创建分组
// @Summary      创建屏幕分组
// @Tags         screen-group
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        group body ScreenGroupRequest true "分组信息"
// @Success      201  {object}  models.ScreenGroup
// @Failure      400  {object}  ErrorResponse
// @Router       /screen-groups [post]
func (c *ScreenGroupController) CreateGroup() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var req ScreenGroupRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	group := &models.ScreenGroup{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	}

	groupService := c.Container.GetService("screen_group").(services.InterfaceScreenGroupService)
	if err := groupService.CreateGroup(group); err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "创建分组失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "创建成功",
		"data":    group,
	})
}

// 4. UpdateGroup 更新分组
// @Summary      更新屏幕分组
// @Tags         screen-group
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "分组ID"
// @Param        updates body map[string]interface{} true "要更新的字段"
// @Success      200  {object}  models.ScreenGroup
// @Failure      404  {object}  ErrorResponse
// @Router       /screen-groups/{id} [put]
func (c *ScreenGroupController) UpdateGroup() {
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

	groupService := c.Container.GetService("screen_group").(services.InterfaceScreenGroupService)
	group, err := groupService.UpdateGroup(tenantID, id, updates)
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
		"data":    group,
	})
}

// 5. DeleteGroup 删除分组
// @Summary      删除屏幕分组
// @Tags         screen-group
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "分组ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /screen-groups/{id} [delete]
func (c *ScreenGroupController) DeleteGroup() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	groupService := c.Container.GetService("screen_group").(services.InterfaceScreenGroupService)
	if err := groupService.DeleteGroup(tenantID, id); err != nil {
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

// 6. SetMembers 设置分组成员
// @Summary      设置分组成员
// @Description  用请求中的屏幕ID列表整体替换分组成员
// @Tags         screen-group
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "分组ID"
// @Param        members body GroupMembersRequest true "成员屏幕ID列表"
// @Success      200  {object}  models.ScreenGroup
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /screen-groups/{id}/members [put]
func (c *ScreenGroupController) SetMembers() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	var req GroupMembersRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	groupService := c.Container.GetService("screen_group").(services.InterfaceScreenGroupService)
	group, err := groupService.SetMembers(tenantID, id, req.ScreenIDs)
	if err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "更新成功",
		"data":    group,
	})
}
