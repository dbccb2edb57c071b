package vo

import (
	"testing"

	"github.com/Xushengqwer/story_service/models/enums"
)

func TestUserStatsValueFor(t *testing.T) {
	stats := &UserStats{
		StoriesCreated:   3,
		CommentsWritten:  7,
		LikesReceived:    42,
		SharesReceived:   5,
		DaysActiveStreak: 9,
	}

	tests := []struct {
		ruleType enums.RuleType
		want     int64
	}{
		{enums.RuleStoriesCreatedTotal, 3},
		{enums.RuleCommentsWrittenTotal, 7},
		{enums.RuleLikesReceivedTotal, 42},
		{enums.RuleSharesReceivedTotal, 5},
		{enums.RuleDaysActiveStreak, 9},
	}

	for _, tt := range tests {
		got, ok := stats.ValueFor(tt.ruleType)
		if !ok {
			t.Errorf("ValueFor(%s) 应识别该规则类型", tt.ruleType)
			continue
		}
		if got != tt.want {
			t.Errorf("ValueFor(%s) = %d, 期望 %d", tt.ruleType, got, tt.want)
		}
	}

	if _, ok := stats.ValueFor("total_logins"); ok {
		t.Error("未知规则类型应返回 ok=false")
	}
}
