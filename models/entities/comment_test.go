package entities

import (
	"strings"
	"testing"

	"github.com/Xushengqwer/story_service/constant"
)

func TestCommentValidate(t *testing.T) {
	tests := []struct {
		name      string
		comment   Comment
		wantField string
		wantMsg   string
	}{
		{
			name:      "昵称为空",
			comment:   Comment{AuthorName: "  ", Content: "great story"},
			wantField: "author_name",
			wantMsg:   "Name is required",
		},
		{
			name:      "昵称超长",
			comment:   Comment{AuthorName: strings.Repeat("n", constant.CommentAuthorMaxLen+1), Content: "great story"},
			wantField: "author_name",
			wantMsg:   "Name must be 50 characters or less",
		},
		{
			name:      "内容为空",
			comment:   Comment{AuthorName: "alice", Content: "   "},
			wantField: "content",
			wantMsg:   "Comment is required",
		},
		{
			name:      "内容超长",
			comment:   Comment{AuthorName: "alice", Content: strings.Repeat("c", constant.CommentMaxLen+1)},
			wantField: "content",
			wantMsg:   "Comment must be 1000 characters or less",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.comment.Validate()
			if got, ok := errs[tt.wantField]; !ok {
				t.Fatalf("缺少字段 %q 的校验错误, 得到 %v", tt.wantField, errs)
			} else if got != tt.wantMsg {
				t.Errorf("错误消息 = %q, 期望 %q", got, tt.wantMsg)
			}
		})
	}

	t.Run("合法评论无错误", func(t *testing.T) {
		comment := Comment{AuthorName: "alice", Content: "This reminded me of my own grandmother."}
		if errs := comment.Validate(); len(errs) != 0 {
			t.Errorf("期望无校验错误, 得到 %v", errs)
		}
	})
}
