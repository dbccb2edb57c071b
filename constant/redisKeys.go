package constant

import "time"

// Redis Key 相关常量 (导出)
const (
	// ActiveAchievementsCacheKey 是启用中成就目录缓存的 Key 名称。
	// 评估引擎每次评估前读取该缓存；管理端对成就或勋章目录做任何写操作后删除该 Key。
	// Redis 类型: String (JSON 序列化的成就列表，含关联勋章)
	ActiveAchievementsCacheKey = "story_service:achievements:active"
)

// ActiveAchievementsCacheTTL 成就目录缓存的过期时间。
// 目录变更频率极低，过期仅作为失效通知丢失时的兜底。
const ActiveAchievementsCacheTTL = 10 * time.Minute
