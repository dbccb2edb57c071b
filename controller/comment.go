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
	"github.com/Xushengqwer/story_service/service"
)

// CommentController 定义评论控制器的结构体
type CommentController struct {
	commentService service.CommentService // 服务层接口，通过依赖注入传入
}

// NewCommentController 构造函数，用于创建 CommentController 实例
func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{
		commentService: commentService,
	}
}

// AddComment 处理发表评论的 HTTP 请求
// @Summary      发表评论
// @Description  在指定故事下发表一条评论，父故事的评论数同步加一。登录用户的评论会触发成就评估，新获得的勋章随响应返回。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Param        request body dto.AddCommentRequest true "评论内容"
// @Success      200 {object} vo.AddCommentResponseWrapper "评论发表成功，包含本次新获得的勋章"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载或内容校验失败"
// @Failure      404 {object} vo.BaseResponseWrapper "故事不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "发表评论时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id}/comments [post]
func (ctrl *CommentController) AddComment(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	var reqDTO dto.AddCommentRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求数据: "+err.Error())
		return
	}

	// 匿名用户 userID 为空字符串，评论仍然允许，只是不参与成就体系
	userID := c.GetString(string(constants.UserIDKey))

	result, fieldErrs, err := ctrl.commentService.AddComment(c.Request.Context(), storyID, userID, &reqDTO)
	if len(fieldErrs) > 0 {
		respondValidationError(c, fieldErrs)
		return
	}
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "故事不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "发表评论失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, result, "评论发表成功")
}

// ListComments 处理获取评论列表的 HTTP 请求
// @Summary      获取故事的评论列表 (公开)
// @Description  获取指定故事下的所有评论，按创建时间倒序排列。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        story_id path uint64 true "故事 ID" Format(uint64)
// @Success      200 {object} vo.CommentListResponseWrapper "评论列表获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的故事 ID 格式"
// @Failure      500 {object} vo.BaseResponseWrapper "获取评论列表时发生内部服务器错误"
// @Router       /api/v1/story/stories/{story_id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	storyID, ok := parseStoryID(c)
	if !ok {
		return
	}

	comments, err := ctrl.commentService.ListComments(c.Request.Context(), storyID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取评论列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, comments, "评论列表获取成功")
}

// GetComment 处理获取单条评论的 HTTP 请求
// @Summary      获取单条评论 (公开)
// @Description  根据评论 ID 获取评论详情。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        comment_id path uint64 true "评论 ID" Format(uint64)
// @Success      200 {object} vo.CommentResponseWrapper "评论获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的评论 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "评论不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "获取评论时发生内部服务器错误"
// @Router       /api/v1/story/comments/{comment_id} [get]
func (ctrl *CommentController) GetComment(c *gin.Context) {
	idStr := c.Param("comment_id")
	commentID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的评论 ID 格式")
		return
	}

	comment, err := ctrl.commentService.GetCommentByID(c.Request.Context(), commentID)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "评论不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取评论失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, comment, "评论获取成功")
}

// DeleteComment 处理删除评论的 HTTP 请求
// @Summary      删除评论
// @Description  删除一条评论，父故事的评论数同步减一（下限为0）。评论不存在时按幂等处理返回成功。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        comment_id path uint64 true "评论 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的评论 ID 格式"
// @Failure      500 {object} vo.BaseResponseWrapper "删除评论时发生内部服务器错误"
// @Router       /api/v1/story/comments/{comment_id} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	idStr := c.Param("comment_id")
	commentID, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的评论 ID 格式")
		return
	}

	deleted, err := ctrl.commentService.DeleteComment(c.Request.Context(), commentID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除评论失败: "+err.Error())
		return
	}

	if !deleted {
		// 重复删除视为成功，保证调用方重试安全
		response.RespondSuccess[any](c, nil, "评论不存在或已删除")
		return
	}
	response.RespondSuccess[any](c, nil, "评论删除成功")
}

// RegisterRoutes 注册 CommentController 的路由
func (ctrl *CommentController) RegisterRoutes(group *gin.RouterGroup) {
	stories := group.Group("/stories")
	{
		stories.POST("/:story_id/comments", ctrl.AddComment) // POST /api/v1/story/stories/:story_id/comments
		stories.GET("/:story_id/comments", ctrl.ListComments) // GET  /api/v1/story/stories/:story_id/comments
	}

	comments := group.Group("/comments")
	{
		comments.GET("/:comment_id", ctrl.GetComment)       // GET    /api/v1/story/comments/:comment_id
		comments.DELETE("/:comment_id", ctrl.DeleteComment) // DELETE /api/v1/story/comments/:comment_id
	}
}
