package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/myErrors"
	"github.com/Xushengqwer/story_service/service"
)

// respondValidationError 以统一响应包的结构返回字段级校验错误。
// data 中是 字段名 -> 错误消息 的映射，便于前端逐字段展示。
func respondValidationError(c *gin.Context, fieldErrs map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    response.ErrCodeClientInvalidInput,
		"message": "内容校验未通过",
		"data":    fieldErrs,
	})
}

// parseStoryID 解析路径中的故事 ID，格式非法时已写入响应并返回 false。
func parseStoryID(c *gin.Context) (uint64, bool) {
	idStr := c.Param("story_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的故事 ID 格式")
		return 0, false
	}
	return id, true
}

// StoryController 定义故事控制器的结构体
type StoryController struct {
	storyService service.StoryService // 服务层接口，通过依赖注入传入
}

// NewStoryController 构造函数，用于创建 StoryController 实例
func NewStoryController(storyService service.StoryService) *StoryController {
	return &StoryController{
		storyService: storyService,
	}
}

// CreateStory 处理创建故事的 HTTP 请求，包含媒体文件上传。
// DTO 字段作为独立的表单字段提交。
// @Summary      创建新故事 (独立表单字段及媒体文件)
// @Description  使用提供的内容（作为独立表单字段）和媒体文件创建一个新故事。请求体应为 multipart/form-data。匿名用户也可提交。
// @Tags         stories (故事)
// @Accept       multipart/form-data
// @Produce      json
// @Param        caption formData string true "标题" maxLength(120)
// @Param        description formData string true "描述 (至少20字符)"
// @Param        category formData string true "分类名称"
// @Param        privacy formData string true "可见性 (Public / Friends Only / Specific Groups)"
// @Param        allowed_groups formData []string false "允许分组 (Specific Groups 时必填，可多值)"
// @Param        tags formData []string false "标签 (最多10个，可多值)"
// @Param        event_title formData string false "事件标题 (可选)"
// @Param        scheduled_at formData string false "定时发布时间 (RFC3339格式)" format(date-time)
// @Param        media formData file false "媒体文件 (可多选)"
// @Success      200 {object} vo.CreateStoryResponseWrapper "故事创建成功，包含本次新获得的勋章"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载、内容校验失败或媒体文件非法"
// @Failure      500 {object} vo.BaseResponseWrapper "创建故事时发生内部服务器错误"
// @Router       /api/v1/story/stories [post]
func (ctrl *StoryController) CreateStory(c *gin.Context) {
	// 1. 解析 Multipart Form (确保在访问表单数据或文件之前调用)
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "解析表单数据失败: "+err.Error())
		return
	}

	// 2. 绑定 DTO 数据 (来自独立的表单字段)
	var reqDTO dto.CreateStoryRequest
	if err := c.ShouldBind(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求数据: "+err.Error())
		return
	}

	// 3. 获取媒体文件；media 字段可以为空（纯文本故事）
	form := c.Request.MultipartForm
	files := form.File["media"]

	// 4. 从 gin.Context 中获取 UserID (由 UserContextMiddleware 注入)
	// 匿名用户 userID 为空字符串，允许继续提交
	userID := c.GetString(string(constants.UserIDKey))

	// 5. 调用服务层方法
	result, fieldErrs, err := ctrl.storyService.CreateStory(c.Request.Context(), userID, &reqDTO, files)
	if len(fieldErrs) > 0 {
		respondValidationError(c, fieldErrs)
		return
	}
	if err != nil {
		if errors.Is(err, myErrors.ErrMediaFileInvalid) {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "媒体文件非法: "+err.Error())
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建故事失败: "+err.Error())
		}
		return
	}

	// 6. 返回成功响应
	response.RespondSuccess(c, result, "故事创建成功")
}

// GetStoryByID 处理获取故事详情的 HTTP 请求
// @Summary      获取指定ID的故事详情 (公开)
// @Description  通过故事的 ID 检索详细信息。定时发布时间未到的故事对外表现为不存在。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Success      200 {object} vo.StoryResponseWrapper "故事详情检索成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的故事 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在或尚未发布"
// @Failure      500 {object} vo.BaseResponseWrapper "检索故事详情时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id} [get]
func (ctrl *StoryController) GetStoryByID(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	story, err := ctrl.storyService.GetStoryByID(c.Request.Context(), storyID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "检索故事详情失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, story, "故事详情检索成功")
}

// ListStories 处理故事列表查询的 HTTP 请求
// @Summary      获取故事列表 (公开)
// @Description  按搜索词、分类过滤并排序返回故事列表。定时发布时间未到的故事不会出现在结果中。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        search query string false "搜索词，匹配标题或描述"
// @Param        category query string false "按分类过滤"
// @Param        sort_by query string false "排序方式 (recent / likes / comments)，非法值回退到 recent" Enums(recent,likes,comments)
// @Param        include_deleted query bool false "是否包含软删除的故事" default(false)
// @Success      200 {object} vo.StoryListResponseWrapper "成功响应，包含故事列表和总记录数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的查询参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/stories [get]
func (ctrl *StoryController) ListStories(c *gin.Context) {
	var reqDTO dto.ListStoriesRequest
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	result, err := ctrl.storyService.ListStories(c.Request.Context(), &reqDTO)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取故事列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, result, "故事列表获取成功")
}

// UpdateStory 处理更新故事的 HTTP 请求
// @Summary      更新故事
// @Description  更新故事内容。发布24小时后标题与描述锁定：对应修改被忽略并通过 locked_fields 报告，其余修改仍然生效。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Param        request body dto.UpdateStoryRequest true "要更新的字段，未提交的字段保持原值"
// @Success      200 {object} vo.StoryUpdateResponseWrapper "更新成功，locked_fields 列出被锁定忽略的字段"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载或内容校验失败"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "更新故事时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id} [put]
func (ctrl *StoryController) UpdateStory(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	var reqDTO dto.UpdateStoryRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求数据: "+err.Error())
		return
	}

	result, fieldErrs, err := ctrl.storyService.UpdateStory(c.Request.Context(), storyID, &reqDTO)
	if len(fieldErrs) > 0 {
		respondValidationError(c, fieldErrs)
		return
	}
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新故事失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, result, "故事更新成功")
}

// DeleteStory 处理删除故事的 HTTP 请求
// @Summary      删除故事 (软删除)
// @Description  对故事执行软删除，开启7天恢复窗口，窗口内可通过恢复接口找回。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的故事 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "删除故事时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id} [delete]
func (ctrl *StoryController) DeleteStory(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	if err := ctrl.storyService.DeleteStory(c.Request.Context(), storyID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除故事失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess[any](c, nil, "故事删除成功")
}

// RestoreStory 处理恢复软删除故事的 HTTP 请求
// @Summary      恢复故事
// @Description  恢复一个软删除的故事。只有处于删除状态且未超过7天恢复窗口的故事可以恢复。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Success      200 {object} vo.StoryResponseWrapper "恢复成功"
// @Failure      400 {object} vo.BaseResponseWrapper "故事未处于删除状态"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在"
// @Failure      410 {object} vo.BaseResponseWrapper "恢复窗口已过"
// @Failure      500 {object} vo.BaseResponseWrapper "恢复故事时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id}/restore [post]
func (ctrl *StoryController) RestoreStory(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	story, err := ctrl.storyService.RestoreStory(c.Request.Context(), storyID)
	if err != nil {
		switch {
		case errors.Is(err, commonerrors.ErrRepoNotFound):
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		case errors.Is(err, myErrors.ErrStoryNotDeleted):
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "故事未处于删除状态，无需恢复")
		case errors.Is(err, myErrors.ErrRestoreWindowExpired):
			response.RespondError(c, http.StatusGone, response.ErrCodeClientInvalidInput, "恢复窗口已过，故事无法恢复")
		default:
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "恢复故事失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, story, "故事恢复成功")
}

// ListDeletedStories 处理回收站列表查询的 HTTP 请求
// @Summary      获取回收站列表
// @Description  查询所有处于软删除状态的故事，按删除时间倒序排列。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.StoryListResponseWrapper "成功响应"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/stories/deleted [get]
func (ctrl *StoryController) ListDeletedStories(c *gin.Context) {
	stories, err := ctrl.storyService.ListDeletedStories(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取回收站列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, stories, "回收站列表获取成功")
}

// PurgeExpired 处理手动清理过期删除故事的 HTTP 请求
// @Summary      清理过期的软删除故事
// @Description  物理删除超过7天恢复窗口的软删除故事。通常由定时任务执行，此接口供管理端手动触发。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.PurgeResultResponseWrapper "清理完成，返回清理数量"
// @Failure      500 {object} vo.BaseResponseWrapper "清理时发生内部服务器错误"
// @Router       /api/v1/story/stories/purge-expired [post]
func (ctrl *StoryController) PurgeExpired(c *gin.Context) {
	purged, err := ctrl.storyService.PurgeExpired(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "清理过期故事失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, gin.H{"purged": purged}, "过期故事清理完成")
}

// LikeStory 处理点赞的 HTTP 请求
// @Summary      点赞故事
// @Description  对故事点赞，点赞数原子加一。点赞会触发故事作者的成就评估，作者新获得的勋章随响应返回。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Success      200 {object} vo.EngagementResponseWrapper "点赞成功，返回最新点赞数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的故事 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "点赞时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id}/like [post]
func (ctrl *StoryController) LikeStory(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	count, earnedBadges, err := ctrl.storyService.LikeStory(c.Request.Context(), storyID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "点赞失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, gin.H{"likes_count": count, "earned_badges": earnedBadges}, "点赞成功")
}

// UnlikeStory 处理取消点赞的 HTTP 请求
// @Summary      取消点赞
// @Description  取消对故事的点赞，点赞数原子减一，下限为0。计数变化会触发故事作者的成就评估，作者新获得的勋章随响应返回。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Success      200 {object} vo.EngagementResponseWrapper "取消点赞成功，返回最新点赞数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的故事 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "取消点赞时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id}/like [delete]
func (ctrl *StoryController) UnlikeStory(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	count, earnedBadges, err := ctrl.storyService.UnlikeStory(c.Request.Context(), storyID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "取消点赞失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, gin.H{"likes_count": count, "earned_badges": earnedBadges}, "取消点赞成功")
}

// ShareStory 处理分享的 HTTP 请求
// @Summary      分享故事
// @Description  记录一次分享，分享数原子加一。分享会触发故事作者的成就评估。
// @Tags         stories (故事)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Success      200 {object} vo.EngagementResponseWrapper "分享成功，返回最新分享数"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的故事 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "分享时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id}/share [post]
func (ctrl *StoryController) ShareStory(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	count, earnedBadges, err := ctrl.storyService.ShareStory(c.Request.Context(), storyID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "分享失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, gin.H{"shares_count": count, "earned_badges": earnedBadges}, "分享成功")
}

// RegisterRoutes 注册 StoryController 的路由
func (ctrl *StoryController) RegisterRoutes(group *gin.RouterGroup) {
	stories := group.Group("/stories")
	{
		stories.POST("", ctrl.CreateStory)                      // POST   /api/v1/story/stories
		stories.GET("", ctrl.ListStories)                       // GET    /api/v1/story/stories
		stories.GET("/deleted", ctrl.ListDeletedStories)        // GET    /api/v1/story/stories/deleted
		stories.POST("/purge-expired", ctrl.PurgeExpired)       // POST   /api/v1/story/stories/purge-expired
		stories.GET("/:story_id", ctrl.GetStoryByID)            // GET    /api/v1/story/stories/:story_id
		stories.PUT("/:story_id", ctrl.UpdateStory)             // PUT    /api/v1/story/stories/:story_id
		stories.DELETE("/:story_id", ctrl.DeleteStory)          // DELETE /api/v1/story/stories/:story_id
		stories.POST("/:story_id/restore", ctrl.RestoreStory)   // POST   /api/v1/story/stories/:story_id/restore
		stories.POST("/:story_id/like", ctrl.LikeStory)         // POST   /api/v1/story/stories/:story_id/like
		stories.DELETE("/:story_id/like", ctrl.UnlikeStory)     // DELETE /api/v1/story/stories/:story_id/like
		stories.POST("/:story_id/share", ctrl.ShareStory)       // POST   /api/v1/story/stories/:story_id/share
	}
}
