package controllers

import (
	"net/http"
	"strconv"

	"signcraft-http-service/models"
	"signcraft-http-service/services"
	"signcraft-http-service/services/container"

	"github.com/gin-gonic/gin"
)

// InterfacePlaylistController 定义播放列表控制器接口
type InterfacePlaylistController interface {
	GetPlaylists()
	GetPlaylist()
	CreatePlaylist()
	UpdatePlaylist()
	DeletePlaylist()
	ReplaceItems()
}

// PlaylistController 处理播放列表相关的请求
type PlaylistController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPlaylistController 创建一个新的播放列表控制器
func NewPlaylistController(ctx *gin.Context, container *container.ServiceContainer) *PlaylistController {
	return &PlaylistController{
		Ctx:       ctx,
		Container: container,
	}
}

// PlaylistRequest 表示创建播放列表的请求结构
type PlaylistRequest struct {
	Name           string `json:"name" binding:"required" example:"早间轮播"`
	Description    string `json:"description" example:"每天早上播放的内容"`
	TransitionType string `json:"transition_type" example:"fade"` // none, fade, slide, zoom
	Shuffle        bool   `json:"shuffle" example:"false"`
}

// PlaylistItemsRequest 表示整体替换播放列表条目的请求
type PlaylistItemsRequest struct {
	Items []services.PlaylistItemInput `json:"items" binding:"required"`
}

// HandlePlaylistFunc 返回一个处理播放列表请求的Gin处理函数
func HandlePlaylistFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPlaylistController(ctx, container)

		switch method {
		case "getPlaylists":
			controller.GetPlaylists()
		case "getPlaylist":
			controller.GetPlaylist()
		case "createPlaylist":
			controller.CreatePlaylist()
		case "updatePlaylist":
			controller.UpdatePlaylist()
		case "deletePlaylist":
			controller.DeletePlaylist()
		case "replaceItems":
			controller.ReplaceItems()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *PlaylistController) pathID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的播放列表ID",
			"data":    nil,
		})
		return 0, false
	}
	return uint(id), true
}

// 1. GetPlaylists 获取播放列表
// @Summary      获取播放列表
// @Tags         playlist
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Playlist
// @Router       /playlists [get]
func (c *PlaylistController) GetPlaylists() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	playlistService := c.Container.GetService("playlist").(services.InterfacePlaylistService)
	playlists, err := playlistService.GetPlaylists(tenantID)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取播放列表失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    playlists,
	})
}

// 2. GetPlaylist 获取单个播放列表（含条目）
// @Summary      获取单个播放列表
// @Tags         playlist
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "播放列表ID"
// @Success      200  {object}  models.Playlist
// @Failure      404  {object}  ErrorResponse
// @Router       /playlists/{id} [get]
func (c *PlaylistController) GetPlaylist() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	playlistService := c.Container.GetService("playlist").(services.InterfacePlaylistService)
	playlist, err := playlistService.GetPlaylistByID(tenantID, id)
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
		"data":    playlist,
	})
}

// 3. CreatePlaylist 创建播放列表
// @Summary      创建播放列表
// @Tags         playlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        playlist body PlaylistRequest true "播放列表信息"
// @Success      201  {object}  models.Playlist
// @Failure      400  {object}  ErrorResponse
// @Router       /playlists [post]
func (c *PlaylistController) CreatePlaylist() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var req PlaylistRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	playlist := &models.Playlist{
		TenantID:       tenantID,
		Name:           req.Name,
		Description:    req.Description,
		TransitionType: req.TransitionType,
		Shuffle:        req.Shuffle,
	}
	if playlist.TransitionType == "" {
		playlist.TransitionType = "none"
	}

	playlistService := c.Container.GetService("playlist").(services.InterfacePlaylistService)
	if err := playlistService.CreatePlaylist(playlist); err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "创建播放列表失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusCreated, gin.H{
		"code":    0,
		"message": "创建成功",
		"data":    playlist,
	})
}

// 4. UpdatePlaylist 更新播放列表
// @Summary      更新播放列表
// @Tags         playlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "播放列表ID"
// @Param        updates body map[string]interface{} true "要更新的字段"
// @Success      200  {object}  models.Playlist
// @Failure      404  {object}  ErrorResponse
// @Router       /playlists/{id} [put]
func (c *PlaylistController) UpdatePlaylist() {
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

	playlistService := c.Container.GetService("playlist").(services.InterfacePlaylistService)
	playlist, err := playlistService.UpdatePlaylist(tenantID, id, updates)
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
		"data":    playlist,
	})
}

// 5. DeletePlaylist 删除播放列表
// @Summary      删除播放列表
// @Tags         playlist
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "播放列表ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /playlists/{id} [delete]
func (c *PlaylistController) DeletePlaylist() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	playlistService := c.Container.GetService("playlist").(services.InterfacePlaylistService)
	if err := playlistService.DeletePlaylist(tenantID, id); err != nil {
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

// 6. ReplaceItems 整体替换播放列表条目
// @Summary      替换播放列表条目
// @Description  按请求中的顺序整体替换条目并重新计算总时长
// @Tags         playlist
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "播放列表ID"
// @Param        items body PlaylistItemsRequest true "条目列表"
// @Success      200  {object}  models.Playlist
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /playlists/{id}/items [put]
func (c *PlaylistController) ReplaceItems() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	var req PlaylistItemsRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	playlistService := c.Container.GetService("playlist").(services.InterfacePlaylistService)
	playlist, err := playlistService.ReplaceItems(tenantID, id, req.Items)
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
		"data":    playlist,
	})
}
