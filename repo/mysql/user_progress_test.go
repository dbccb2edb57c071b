package mysql

import (
	"testing"
	"time"
)

func TestStreakFromDates(t *testing.T) {
	// 2026-03-10 为"今天"
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dates []string
		want  int64
	}{
		{
			name:  "无活跃记录",
			dates: nil,
			want:  0,
		},
		{
			name:  "今天为链尾的连续三天",
			dates: []string{"2026-03-10", "2026-03-09", "2026-03-08"},
			want:  3,
		},
		{
			name:  "昨天为链尾仍算连续",
			dates: []string{"2026-03-09", "2026-03-08"},
			want:  2,
		},
		{
			name:  "链中断档只计到断档处",
			dates: []string{"2026-03-10", "2026-03-09", "2026-03-07", "2026-03-06"},
			want:  2,
		},
		{
			name:  "最近活跃早于昨天计为零",
			dates: []string{"2026-03-07", "2026-03-06", "2026-03-05"},
			want:  0,
		},
		{
			name:  "只有今天一天",
			dates: []string{"2026-03-10"},
			want:  1,
		},
		{
			name:  "跨月回溯",
			dates: []string{"2026-03-10", "2026-03-09", "2026-03-08", "2026-03-07", "2026-03-06", "2026-03-05", "2026-03-04", "2026-03-03", "2026-03-02", "2026-03-01", "2026-02-28", "2026-02-27"},
			want:  12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := streakFromDates(tt.dates, now)
			if err != nil {
				t.Fatalf("计算连续活跃天数失败: %v", err)
			}
			if got != tt.want {
				t.Errorf("streakFromDates(%v) = %d, 期望 %d", tt.dates, got, tt.want)
			}
		})
	}
}

func TestStreakFromDatesBadDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// 格式异常的记录视作断档, 不影响断档之前的计数
	got, err := streakFromDates([]string{"2026-03-10", "not-a-date", "2026-03-08"}, now)
	if err != nil {
		t.Fatalf("计算连续活跃天数失败: %v", err)
	}
	if got != 1 {
		t.Errorf("坏数据应在断档处终止计数, 得到 %d", got)
	}

	// 链尾无法匹配今天或昨天时计为 0
	got, err = streakFromDates([]string{"not-a-date"}, now)
	if err != nil {
		t.Fatalf("计算连续活跃天数失败: %v", err)
	}
	if got != 0 {
		t.Errorf("无法识别的链尾应计为 0, 得到 %d", got)
	}
}
