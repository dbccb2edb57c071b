package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/service"
)

// GamificationController 定义成就与勋章查询控制器的结构体
type GamificationController struct {
	gamificationService service.GamificationService // 服务层接口，通过依赖注入传入
}

// NewGamificationController 构造函数，用于创建 GamificationController 实例
func NewGamificationController(gamificationService service.GamificationService) *GamificationController {
	return &GamificationController{
		gamificationService: gamificationService,
	}
}

// GetBadgeCatalog 处理获取勋章目录的 HTTP 请求
// @Summary      获取勋章目录 (公开)
// @Description  获取全量勋章目录。order 支持 sort_order / title / newest，非法值回退到 sort_order。
// @Tags         gamification (成就与勋章)
// @Accept       json
// @Produce      json
// @Param        order query string false "展示顺序" Enums(sort_order,title,newest) default(sort_order)
// @Success      200 {object} vo.BadgeCatalogResponseWrapper "勋章目录获取成功"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/badges [get]
func (ctrl *GamificationController) GetBadgeCatalog(c *gin.Context) {
	order := enums.BadgeCatalogOrder(c.DefaultQuery("order", string(enums.BadgeCatalogOrderSortOrder)))

	badges, err := ctrl.gamificationService.GetBadgeCatalog(c.Request.Context(), order)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取勋章目录失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, badges, "勋章目录获取成功")
}

// ListActiveAchievements 处理获取启用中成就列表的 HTTP 请求
// @Summary      获取启用中的成就列表 (公开)
// @Description  获取所有启用中的成就及其关联勋章，供目录页展示。
// @Tags         gamification (成就与勋章)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.AchievementListResponseWrapper "成就列表获取成功"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/achievements [get]
func (ctrl *GamificationController) ListActiveAchievements(c *gin.Context) {
	achievements, err := ctrl.gamificationService.ListActiveAchievements(c.Request.Context())
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取成就列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, achievements, "成就列表获取成功")
}

// GetUserBadges 处理获取用户勋章列表的 HTTP 请求
// @Summary      获取用户的勋章列表 (公开)
// @Description  获取指定用户已获得的勋章。sort 支持 newest / rarity / alphabetical，非法值回退到 newest。
// @Tags         gamification (成就与勋章)
// @Accept       json
// @Produce      json
// @Param        user_id path string true "用户 ID"
// @Param        sort query string false "排序方式" Enums(newest,rarity,alphabetical) default(newest)
// @Success      200 {object} vo.UserBadgeListResponseWrapper "用户勋章列表获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/profile/{user_id}/badges [get]
func (ctrl *GamificationController) GetUserBadges(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "用户 ID 不能为空")
		return
	}
	sort := enums.BadgeSort(c.DefaultQuery("sort", string(enums.BadgeSortNewest)))

	badges, err := ctrl.gamificationService.GetUserBadges(c.Request.Context(), userID, sort)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取用户勋章列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, badges, "用户勋章列表获取成功")
}

// GetUserAchievements 处理获取用户成就列表的 HTTP 请求
// @Summary      获取用户已达成的成就列表 (公开)
// @Description  获取指定用户已达成的成就，按达成时间倒序排列。
// @Tags         gamification (成就与勋章)
// @Accept       json
// @Produce      json
// @Param        user_id path string true "用户 ID"
// @Success      200 {object} vo.UserAchievementListResponseWrapper "用户成就列表获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/profile/{user_id}/achievements [get]
func (ctrl *GamificationController) GetUserAchievements(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "用户 ID 不能为空")
		return
	}

	achievements, err := ctrl.gamificationService.GetUserAchievements(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取用户成就列表失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, achievements, "用户成就列表获取成功")
}

// GetUserStats 处理获取用户互动统计的 HTTP 请求
// @Summary      获取用户的互动统计 (公开)
// @Description  获取指定用户的故事数、评论数、获赞数、被分享数与连续活跃天数。
// @Tags         gamification (成就与勋章)
// @Accept       json
// @Produce      json
// @Param        user_id path string true "用户 ID"
// @Success      200 {object} vo.UserStatsResponseWrapper "用户统计获取成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的用户 ID"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/story/profile/{user_id}/stats [get]
func (ctrl *GamificationController) GetUserStats(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "用户 ID 不能为空")
		return
	}

	stats, err := ctrl.gamificationService.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, "获取用户统计失败: "+err.Error())
		return
	}

	response.RespondSuccess(c, stats, "用户统计获取成功")
}

// GetCategories 处理获取分类选项的 HTTP 请求
// @Summary      获取故事分类选项 (公开)
// @Description  返回所有合法的故事分类，顺序即表单展示顺序。
// @Tags         meta (元数据)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.MetaOptionsResponseWrapper "分类选项获取成功"
// @Router       /api/v1/story/meta/categories [get]
func (ctrl *GamificationController) GetCategories(c *gin.Context) {
	response.RespondSuccess(c, enums.Categories(), "分类选项获取成功")
}

// GetPrivacyOptions 处理获取可见性选项的 HTTP 请求
// @Summary      获取可见性选项 (公开)
// @Description  返回所有合法的可见性设置，顺序即表单展示顺序。
// @Tags         meta (元数据)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.MetaOptionsResponseWrapper "可见性选项获取成功"
// @Router       /api/v1/story/meta/privacy-options [get]
func (ctrl *GamificationController) GetPrivacyOptions(c *gin.Context) {
	response.RespondSuccess(c, enums.PrivacyOptions(), "可见性选项获取成功")
}

// RegisterRoutes 注册 GamificationController 的路由
func (ctrl *GamificationController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/badges", ctrl.GetBadgeCatalog)           // GET /api/v1/story/badges
	group.GET("/achievements", ctrl.ListActiveAchievements) // GET /api/v1/story/achievements

	profile := group.Group("/profile")
	{
		profile.GET("/:user_id/badges", ctrl.GetUserBadges)             // GET /api/v1/story/profile/:user_id/badges
		profile.GET("/:user_id/achievements", ctrl.GetUserAchievements) // GET /api/v1/story/profile/:user_id/achievements
		profile.GET("/:user_id/stats", ctrl.GetUserStats)               // GET /api/v1/story/profile/:user_id/stats
	}

	meta := group.Group("/meta")
	{
		meta.GET("/categories", ctrl.GetCategories)          // GET /api/v1/story/meta/categories
		meta.GET("/privacy-options", ctrl.GetPrivacyOptions) // GET /api/v1/story/meta/privacy-options
	}
}
