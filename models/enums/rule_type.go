package enums

// RuleType 成就规则类型
// - 底层值与成就目录中持久化的规则名保持一致，保证存量目录数据可直接解析
// - 评估引擎对规则类型做穷举 switch，未知类型一律视为不满足
type RuleType string

const (
	RuleStoriesCreatedTotal  RuleType = "stories_created_total"
	RuleCommentsWrittenTotal RuleType = "comments_written_total"
	RuleLikesReceivedTotal   RuleType = "likes_received_total"
	RuleSharesReceivedTotal  RuleType = "shares_received_total"
	RuleDaysActiveStreak     RuleType = "days_active_streak"
)

// RuleTypes 返回所有已支持的规则类型。
func RuleTypes() []RuleType {
	return []RuleType{
		RuleStoriesCreatedTotal,
		RuleCommentsWrittenTotal,
		RuleLikesReceivedTotal,
		RuleSharesReceivedTotal,
		RuleDaysActiveStreak,
	}
}

// IsValid 校验规则类型是否受支持。
func (r RuleType) IsValid() bool {
	switch r {
	case RuleStoriesCreatedTotal, RuleCommentsWrittenTotal,
		RuleLikesReceivedTotal, RuleSharesReceivedTotal, RuleDaysActiveStreak:
		return true
	}
	return false
}

func (r RuleType) String() string {
	return string(r)
}
