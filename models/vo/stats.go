package vo

import "github.com/Xushengqwer/story_service/models/enums"

// UserStats 用户互动统计，按需聚合，不做持久化
// - 点赞/分享总数只统计该用户未删除故事上收到的数量
type UserStats struct {
	StoriesCreated   int64 `json:"stories_created"`    // 创建的故事数（未删除）
	CommentsWritten  int64 `json:"comments_written"`   // 发表的评论数
	LikesReceived    int64 `json:"likes_received"`     // 收到的点赞总数
	SharesReceived   int64 `json:"shares_received"`    // 收到的分享总数
	DaysActiveStreak int64 `json:"days_active_streak"` // 连续活跃天数
}

// ValueFor 返回规则类型对应的统计值。
// 穷举已知规则类型；未知类型返回 ok=false，调用方视为不满足。
func (s *UserStats) ValueFor(ruleType enums.RuleType) (int64, bool) {
	switch ruleType {
	case enums.RuleStoriesCreatedTotal:
		return s.StoriesCreated, true
	case enums.RuleCommentsWrittenTotal:
		return s.CommentsWritten, true
	case enums.RuleLikesReceivedTotal:
		return s.LikesReceived, true
	case enums.RuleSharesReceivedTotal:
		return s.SharesReceived, true
	case enums.RuleDaysActiveStreak:
		return s.DaysActiveStreak, true
	default:
		return 0, false
	}
}
