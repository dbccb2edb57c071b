package entities

import (
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/Xushengqwer/story_service/constant"
	"github.com/Xushengqwer/story_service/models/enums"
)

// validStory 返回一个通过全部校验的故事实体，测试用例在此基础上做针对性破坏。
func validStory() *Story {
	return &Story{
		Caption:     "A quiet afternoon by the river",
		Description: "The summer I learned to fish with my grandfather on the old wooden pier.",
		Category:    enums.CategoryLifeLessons,
		Privacy:     enums.PrivacyPublic,
	}
}

func TestStoryNormalizeTags(t *testing.T) {
	story := validStory()
	story.Tags = StringList{"#family", "##history", "craft", "", "#"}
	story.NormalizeTags()

	want := []string{"family", "history", "craft"}
	if len(story.Tags) != len(want) {
		t.Fatalf("规范化后标签数量 = %d, 期望 %d (%v)", len(story.Tags), len(want), story.Tags)
	}
	for i, tag := range want {
		if story.Tags[i] != tag {
			t.Errorf("Tags[%d] = %q, 期望 %q", i, story.Tags[i], tag)
		}
	}
}

func TestStoryValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(s *Story)
		wantField string
		wantMsg   string
	}{
		{
			name:      "标题为空",
			mutate:    func(s *Story) { s.Caption = "   " },
			wantField: "caption",
			wantMsg:   "Caption is required",
		},
		{
			name:      "标题超长",
			mutate:    func(s *Story) { s.Caption = strings.Repeat("a", constant.CaptionMaxLen+1) },
			wantField: "caption",
			wantMsg:   "Caption must be 120 characters or less",
		},
		{
			name:      "描述过短",
			mutate:    func(s *Story) { s.Description = "too short" },
			wantField: "description",
			wantMsg:   "Description must be at least 20 characters",
		},
		{
			name:      "非法分类",
			mutate:    func(s *Story) { s.Category = "Cooking" },
			wantField: "category",
			wantMsg:   "Please select a valid category",
		},
		{
			name:      "非法可见性",
			mutate:    func(s *Story) { s.Privacy = "Everyone" },
			wantField: "privacy",
			wantMsg:   "Please select a valid privacy setting",
		},
		{
			name: "指定分组可见但未给出分组",
			mutate: func(s *Story) {
				s.Privacy = enums.PrivacySpecificGroups
				s.AllowedGroups = nil
			},
			wantField: "allowed_groups",
			wantMsg:   "Please specify at least one group",
		},
		{
			name: "标签数量超限",
			mutate: func(s *Story) {
				tags := make(StringList, constant.TagsMax+1)
				for i := range tags {
					tags[i] = "tag"
				}
				s.Tags = tags
			},
			wantField: "tags",
			wantMsg:   "Maximum 10 tags allowed",
		},
		{
			name:      "标签含非法字符",
			mutate:    func(s *Story) { s.Tags = StringList{"ok_tag", "bad tag!"} },
			wantField: "tags",
			wantMsg:   "Tags can only contain letters, numbers, and underscores",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story := validStory()
			tt.mutate(story)
			errs := story.Validate()
			if got, ok := errs[tt.wantField]; !ok {
				t.Fatalf("缺少字段 %q 的校验错误, 得到 %v", tt.wantField, errs)
			} else if got != tt.wantMsg {
				t.Errorf("错误消息 = %q, 期望 %q", got, tt.wantMsg)
			}
		})
	}

	t.Run("合法内容无错误", func(t *testing.T) {
		story := validStory()
		story.Tags = StringList{"family", "summer_2024"}
		if errs := story.Validate(); len(errs) != 0 {
			t.Errorf("期望无校验错误, 得到 %v", errs)
		}
	})

	t.Run("指定分组可见且给出分组", func(t *testing.T) {
		story := validStory()
		story.Privacy = enums.PrivacySpecificGroups
		story.AllowedGroups = StringList{"close-friends"}
		if errs := story.Validate(); len(errs) != 0 {
			t.Errorf("期望无校验错误, 得到 %v", errs)
		}
	})
}

func TestStoryIsEditableAt(t *testing.T) {
	created := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	story := validStory()
	story.CreatedAt = created

	if !story.IsEditableAt(created.Add(23*time.Hour + 59*time.Minute)) {
		t.Error("发布 23h59m 后应仍可编辑")
	}
	if story.IsEditableAt(created.Add(constant.EditLockDuration)) {
		t.Error("发布满 24 小时后应锁定")
	}
	if story.IsEditableAt(created.Add(48 * time.Hour)) {
		t.Error("发布 48 小时后应锁定")
	}
}

func TestStoryCanBeRestoredAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	story := validStory()
	if story.CanBeRestoredAt(now) {
		t.Error("未删除的故事不应可恢复")
	}

	story.DeletedAt = gorm.DeletedAt{Time: now.Add(-6 * 24 * time.Hour), Valid: true}
	if !story.CanBeRestoredAt(now) {
		t.Error("删除 6 天内应可恢复")
	}

	story.DeletedAt = gorm.DeletedAt{Time: now.Add(-constant.RecoveryWindow), Valid: true}
	if story.CanBeRestoredAt(now) {
		t.Error("删除满 7 天后不应可恢复")
	}
}

func TestStoryIsPublishedAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	story := validStory()
	if !story.IsPublishedAt(now) {
		t.Error("未设置定时发布时间应立即可见")
	}

	future := now.Add(time.Hour)
	story.ScheduledAt = &future
	if story.IsPublishedAt(now) {
		t.Error("定时发布时间未到应不可见")
	}

	past := now.Add(-time.Hour)
	story.ScheduledAt = &past
	if !story.IsPublishedAt(now) {
		t.Error("定时发布时间已过应可见")
	}

	exact := now
	story.ScheduledAt = &exact
	if !story.IsPublishedAt(now) {
		t.Error("恰好到达定时发布时间应可见")
	}
}
