package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/service"
)

// GamificationAdminController 定义成就与勋章管理控制器的结构体
// 鉴权由网关完成，此服务信任透传的管理员身份。
type GamificationAdminController struct {
	adminService service.GamificationAdminService // 服务层接口，通过依赖注入传入
}

// NewGamificationAdminController 构造函数，用于创建 GamificationAdminController 实例
func NewGamificationAdminController(adminService service.GamificationAdminService) *GamificationAdminController {
	return &GamificationAdminController{
		adminService: adminService,
	}
}

// parseAdminID 解析路径中的资源 ID，格式非法时已写入响应并返回 false。
func parseAdminID(c *gin.Context, param string) (uint64, bool) {
	idStr := c.Param(param)
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 ID 格式")
		return 0, false
	}
	return id, true
}

// CreateBadge 处理创建勋章的 HTTP 请求 (管理端)
// @Summary      创建勋章 (管理端)
// @Description  创建一个新勋章，创建后自动使成就目录缓存失效。
// @Tags         admin (管理)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateBadgeRequest true "勋章信息"
// @Success      200 {object} vo.BadgeCatalogItemResponseWrapper "勋章创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      500 {object} vo.BaseResponseWrapper "创建勋章时发生内部服务器错误"
// @Router       /api/v1/story/admin/badges [post]
func (ctrl *GamificationAdminController) CreateBadge(c *gin.Context) {
	var reqDTO dto.CreateBadgeRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求数据: "+err.Error())
		return
	}

	badge, err := ctrl.adminService.CreateBadge(c.Request.Context(), &reqDTO)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "创建勋章失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, badge, "勋章创建成功")
}

// UpdateBadge 处理更新勋章的 HTTP 请求 (管理端)
// @Summary      更新勋章 (管理端)
// @Description  更新勋章信息，未提交的字段保持原值。
// @Tags         admin (管理)
// @Accept       json
// @Produce      json
// @Param        badge_id path uint64 true "勋章 ID" Format(uint64)
// @Param        request body dto.UpdateBadgeRequest true "要更新的字段"
// @Success      200 {object} vo.BadgeCatalogItemResponseWrapper "勋章更新成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      404 {object} vo.BaseResponseWrapper "勋章不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "更新勋章时发生内部服务器错误"
// @Router       /api/v1/story/admin/badges/{badge_id} [put]
func (ctrl *GamificationAdminController) UpdateBadge(c *gin.Context) {
	badgeID, ok := parseAdminID(c, "badge_id")
	if !ok {
		return
	}

	var reqDTO dto.UpdateBadgeRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求数据: "+err.Error())
		return
	}

	badge, err := ctrl.adminService.UpdateBadge(c.Request.Context(), badgeID, &reqDTO)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "勋章不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新勋章失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, badge, "勋章更新成功")
}

// DeleteBadge 处理删除勋章的 HTTP 请求 (管理端)
// @Summary      删除勋章 (管理端)
// @Description  删除勋章，同时清理成就关联与用户持有记录。
// @Tags         admin (管理)
// @Accept       json
// @Produce      json
// @Param        badge_id path uint64 true "勋章 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "勋章删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "勋章不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "删除勋章时发生内部服务器错误"
// @Router       /api/v1/story/admin/badges/{badge_id} [delete]
func (ctrl *GamificationAdminController) DeleteBadge(c *gin.Context) {
	badgeID, ok := parseAdminID(c, "badge_id")
	if !ok {
		return
	}

	if err := ctrl.adminService.DeleteBadge(c.Request.Context(), badgeID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "勋章不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除勋章失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess[any](c, nil, "勋章删除成功")
}

// CreateAchievement 处理创建成就的 HTTP 请求 (管理端)
// @Summary      创建成就 (管理端)
// @Description  创建一个新成就并关联勋章。规则类型必须是受支持的枚举值，关联的勋章必须已存在。
// @Tags         admin (管理)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateAchievementRequest true "成就信息"
// @Success      200 {object} vo.AchievementResponseWrapper "成就创建成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载、规则类型不支持或关联勋章不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "创建成就时发生内部服务器错误"
// @Router       /api/v1/story/admin/achievements [post]
func (ctrl *GamificationAdminController) CreateAchievement(c *gin.Context) {
	var reqDTO dto.CreateAchievementRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求数据: "+err.Error())
		return
	}

	achievement, err := ctrl.adminService.CreateAchievement(c.Request.Context(), &reqDTO)
	if err != nil {
		// 规则类型非法或勋章不存在属于输入错误，其余按内部错误处理
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "创建成就失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, achievement, "成就创建成功")
}

// UpdateAchievement 处理更新成就的 HTTP 请求 (管理端)
// @Summary      更新成就 (管理端)
// @Description  更新成就信息。badge_ids 提交后整体替换现有勋章关联，未提交的字段保持原值。
// @Tags         admin (管理)
// @Accept       json
// @Produce      json
// @Param        achievement_id path uint64 true "成就 ID" Format(uint64)
// @Param        request body dto.UpdateAchievementRequest true "要更新的字段"
// @Success      200 {object} vo.AchievementResponseWrapper "成就更新成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求负载"
// @Failure      404 {object} vo.BaseResponseWrapper "成就不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "更新成就时发生内部服务器错误"
// @Router       /api/v1/story/admin/achievements/{achievement_id} [put]
func (ctrl *GamificationAdminController) UpdateAchievement(c *gin.Context) {
	achievementID, ok := parseAdminID(c, "achievement_id")
	if !ok {
		return
	}

	var reqDTO dto.UpdateAchievementRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求数据: "+err.Error())
		return
	}

	achievement, err := ctrl.adminService.UpdateAchievement(c.Request.Context(), achievementID, &reqDTO)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "成就不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "更新成就失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess(c, achievement, "成就更新成功")
}

// DeleteAchievement 处理删除成就的 HTTP 请求 (管理端)
// @Summary      删除成就 (管理端)
// @Description  删除成就，同时清理勋章关联与用户达成记录。
// @Tags         admin (管理)
// @Accept       json
// @Produce      json
// @Param        achievement_id path uint64 true "成就 ID" Format(uint64)
// @Success      200 {object} vo.BaseResponseWrapper "成就删除成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的 ID 格式"
// @Failure      404 {object} vo.BaseResponseWrapper "成就不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "删除成就时发生内部服务器错误"
// @Router       /api/v1/story/admin/achievements/{achievement_id} [delete]
func (ctrl *GamificationAdminController) DeleteAchievement(c *gin.Context) {
	achievementID, ok := parseAdminID(c, "achievement_id")
	if !ok {
		return
	}

	if err := ctrl.adminService.DeleteAchievement(c.Request.Context(), achievementID); err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, "成就不存在")
		} else {
			response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "删除成就失败: "+err.Error())
		}
		return
	}

	response.RespondSuccess[any](c, nil, "成就删除成功")
}

// ListAchievements 处理获取全部成就目录的 HTTP 请求 (管理端)
// @Summary      获取全部成就目录 (管理端)
// @Description  查询全部成就，包含停用项，供管理端列表展示。
// @Tags         admin (管理)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.AchievementListResponseWrapper "成就目录获取成功"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/admin/achievements [get]
func (ctrl *GamificationAdminController) ListAchievements(c *gin.Context) {
	achievements, err := ctrl.adminService.ListAchievements(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取成就目录失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, achievements, "成就目录获取成功")
}

// RegisterRoutes 注册 GamificationAdminController 的路由
func (ctrl *GamificationAdminController) RegisterRoutes(group *gin.RouterGroup) {
	admin := group.Group("/admin")
	{
		admin.POST("/badges", ctrl.CreateBadge)                           // POST   /api/v1/story/admin/badges
		admin.PUT("/badges/:badge_id", ctrl.UpdateBadge)                  // PUT    /api/v1/story/admin/badges/:badge_id
		admin.DELETE("/badges/:badge_id", ctrl.DeleteBadge)               // DELETE /api/v1/story/admin/badges/:badge_id
		admin.POST("/achievements", ctrl.CreateAchievement)               // POST   /api/v1/story/admin/achievements
		admin.GET("/achievements", ctrl.ListAchievements)                 // GET    /api/v1/story/admin/achievements
		admin.PUT("/achievements/:achievement_id", ctrl.UpdateAchievement)    // PUT    /api/v1/story/admin/achievements/:achievement_id
		admin.DELETE("/achievements/:achievement_id", ctrl.DeleteAchievement) // DELETE /api/v1/story/admin/achievements/:achievement_id
	}
}
