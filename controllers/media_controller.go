package controllers

import (
	"net/http"
	"strconv"

	"signcraft-http-service/models"
	"signcraft-http-service/services"
	"signcraft-http-service/services/container"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

// InterfaceMediaController 定义媒体控制器接口
type InterfaceMediaController interface {
	GetMedia()
	GetMediaByID()
	CreateMedia()
	UpdateMedia()
	DeleteMedia()
	GetFolders()
	CreateFolder()
	UpdateFolder()
	DeleteFolder()
}

// MediaController 处理媒体素材和文件夹相关的请求
type MediaController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewMediaController 创建一个新的媒体控制器
func NewMediaController(ctx *gin.Context, container *container.ServiceContainer) *MediaController {
	return &MediaController{
		Ctx:       ctx,
		Container: container,
	}
}

// MediaRequest 表示创建媒体的请求结构
type MediaRequest struct {
	FolderID        *uint          `json:"folder_id"`
	Name            string         `json:"name" binding:"required" example:"春季促销海报"`
	Type            string         `json:"type" binding:"required" example:"image"` // image, video, html, url
	URL             string         `json:"url" binding:"required" example:"https://cdn.example.com/spring.png"`
	ThumbnailURL    string         `json:"thumbnail_url"`
	SizeBytes       int64          `json:"size_bytes" example:"102400"`
	DurationSeconds int            `json:"duration_seconds" example:"15"`
	Metadata        datatypes.JSON `json:"metadata"`
}

// FolderRequest 表示创建文件夹的请求结构
type FolderRequest struct {
	ParentID *uint  `json:"parent_id"`
	Name     string `json:"name" binding:"required" example:"促销素材"`
}

// HandleMediaFunc 返回一个处理媒体请求的Gin处理函数
func HandleMediaFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewMediaController(ctx, container)

		switch method {
		case "getMedia":
			controller.GetMedia()
		case "getMediaByID":
			controller.GetMediaByID()
		case "createMedia":
			controller.CreateMedia()
		case "updateMedia":
			controller.UpdateMedia()
		case "deleteMedia":
			controller.DeleteMedia()
		case "getFolders":
			controller.GetFolders()
		case "createFolder":
			controller.CreateFolder()
		case "updateFolder":
			controller.UpdateFolder()
		case "deleteFolder":
			controller.DeleteFolder()
		default:
			ctx.JSON(http.StatusBadRequest, gin.H{
				"code":    400,
				"message": "无效的方法",
				"data":    nil,
			})
		}
	}
}

func (c *MediaController) pathID() (uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil || id <= 0 {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的ID",
			"data":    nil,
		})
		return 0, false
	}
	return uint(id), true
}

// 1. GetMedia 获取媒体列表
// @Summary      获取媒体列表
// @Description  获取当前租户的媒体素材，支持按文件夹和类型过滤
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        folder_id  query  int     false  "按文件夹过滤"
// @Param        type       query  string  false  "按类型过滤: image/video/html/url"
// @Param        pageNum    query  int     false  "页码，默认1"
// @Param        pageSize   query  int     false  "每页条数，默认50"
// @Success      200  {array}  models.Media
// @Router       /media [get]
func (c *MediaController) GetMedia() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var folderID *uint
	if raw := c.Ctx.Query("folder_id"); raw != "" {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			value := uint(id)
			folderID = &value
		}
	}

	page := models.PaginationQuery{Desc: true}
	if raw := c.Ctx.Query("pageNum"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.PageNum = n
		}
	}
	if raw := c.Ctx.Query("pageSize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page.PageSize = n
		}
	}
	if c.Ctx.Query("desc") == "false" {
		page.Desc = false
	}

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	media, pagination, err := mediaService.GetMedia(tenantID, folderID, c.Ctx.Query("type"), page)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取媒体列表失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data": gin.H{
			"items":      media,
			"pagination": pagination,
		},
	})
}

// 2. GetMediaByID 获取单个媒体详情
// @Summary      获取单个媒体
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "媒体ID"
// @Success      200  {object}  models.Media
// @Failure      404  {object}  ErrorResponse
// @Router       /media/{id} [get]
func (c *MediaController) GetMediaByID() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	media, err := mediaService.GetMediaByID(tenantID, id)
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
		"data":    media,
	})
}

// 3. CreateMedia 创建媒体
// @Summary      创建媒体
// @Description  登记一条媒体素材，素材文件本身由外部存储承载
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        media body MediaRequest true "媒体信息"
// @Success      201  {object}  models.Media
// @Failure      400  {object}  ErrorResponse
// @Router       /media [post]
func (c *MediaController) CreateMedia() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var req MediaRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	media := &models.Media{
		TenantID:        tenantID,
		FolderID:        req.FolderID,
		Name:            req.Name,
		Type:            models.MediaType(req.Type),
		URL:             req.URL,
		ThumbnailURL:    req.ThumbnailURL,
		SizeBytes:       req.SizeBytes,
		DurationSeconds: req.DurationSeconds,
		Metadata:        req.Metadata,
	}

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	if err := mediaService.CreateMedia(media); err != nil {
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
		"data":    media,
	})
}

// 4. UpdateMedia 更新媒体
// @Summary      更新媒体
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "媒体ID"
// @Param        updates body map[string]interface{} true "要更新的字段"
// @Success      200  {object}  models.Media
// @Failure      404  {object}  ErrorResponse
// @Router       /media/{id} [put]
func (c *MediaController) UpdateMedia() {
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

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	media, err := mediaService.UpdateMedia(tenantID, id, updates)
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
		"data":    media,
	})
}

// 5. DeleteMedia 删除媒体
// @Summary      删除媒体
// @Description  删除媒体并将引用它的播放列表条目一并移除
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "媒体ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /media/{id} [delete]
func (c *MediaController) DeleteMedia() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	if err := mediaService.DeleteMedia(tenantID, id); err != nil {
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

// 6. GetFolders 获取文件夹列表
// @Summary      获取文件夹列表
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  models.Folder
// @Router       /folders [get]
func (c *MediaController) GetFolders() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	folders, err := mediaService.GetFolders(tenantID)
	if err != nil {
		c.Ctx.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取文件夹列表失败: " + err.Error(),
			"data":    nil,
		})
		return
	}

	c.Ctx.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "成功",
		"data":    folders,
	})
}

// 7. CreateFolder 创建文件夹
// @Summary      创建文件夹
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        folder body FolderRequest true "文件夹信息"
// @Success      201  {object}  models.Folder
// @Failure      400  {object}  ErrorResponse
// @Router       /folders [post]
func (c *MediaController) CreateFolder() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}

	var req FolderRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		c.Ctx.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求参数: " + err.Error(),
			"data":    nil,
		})
		return
	}

	folder := &models.Folder{
		TenantID: tenantID,
		ParentID: req.ParentID,
		Name:     req.Name,
	}

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	if err := mediaService.CreateFolder(folder); err != nil {
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
		"data":    folder,
	})
}

// 8. UpdateFolder 更新文件夹
// @Summary      更新文件夹
// @Tags         media
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "文件夹ID"
// @Param        updates body map[string]interface{} true "要更新的字段"
// @Success      200  {object}  models.Folder
// @Failure      404  {object}  ErrorResponse
// @Router       /folders/{id} [put]
func (c *MediaController) UpdateFolder() {
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

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	folder, err := mediaService.UpdateFolder(tenantID, id, updates)
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
		"data":    folder,
	})
}

// 9. DeleteFolder 删除文件夹
// @Summary      删除文件夹
// @Description  删除文件夹，其中的媒体会被移动到根目录
// @Tags         media
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "文件夹ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /folders/{id} [delete]
func (c *MediaController) DeleteFolder() {
	tenantID, ok := currentTenantID(c.Ctx)
	if !ok {
		return
	}
	id, ok := c.pathID()
	if !ok {
		return
	}

	mediaService := c.Container.GetService("media").(services.InterfaceMediaService)
	if err := mediaService.DeleteFolder(tenantID, id); err != nil {
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
