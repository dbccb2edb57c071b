package constant

import "time"

// 故事生命周期相关的业务窗口。
const (
	// EditLockDuration 发布后允许修改正文内容（标题与描述）的时间窗口。
	// 超过该窗口后这两个字段锁定，其余字段仍可修改。
	EditLockDuration = 24 * time.Hour

	// RecoveryWindow 软删除后允许恢复的时间窗口，超时后等待清理任务物理删除。
	RecoveryWindow = 7 * 24 * time.Hour
)

// 故事内容校验限制。
const (
	CaptionMaxLen     = 120 // 标题最大长度
	DescriptionMinLen = 20  // 描述最小长度
	TagsMax           = 10  // 标签数量上限
)

// 评论内容校验限制。
const (
	CommentAuthorMaxLen = 50   // 评论者昵称最大长度
	CommentMaxLen       = 1000 // 评论内容最大长度
)

// MaxMediaFileSize 单个媒体文件的大小上限 (50MB)。
const MaxMediaFileSize = 50 * 1024 * 1024

// AllowedMediaExtensions 允许上传的媒体文件扩展名（小写，不含点）。
var AllowedMediaExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"webp": {},
	"mp4":  {},
	"webm": {},
	"mov":  {},
	"avi":  {},
}

// COSObjectKeyPrefixStoryMedia 故事媒体文件在对象存储中的公共前缀。
const COSObjectKeyPrefixStoryMedia = "story_media/"

// ActivityDateLayout 用户活跃日期的存储格式（按自然日聚合）。
const ActivityDateLayout = "2006-01-02"
