package events

import "time"

// StoryData 故事事件中的核心数据，供下游服务消费。
type StoryData struct {
	ID          uint64     `json:"id"`
	AuthorID    *string    `json:"author_id"`
	Caption     string     `json:"caption"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Privacy     string     `json:"privacy"`
	Tags        []string   `json:"tags"`
	MediaPaths  []string   `json:"media_paths"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// StoryCreatedEvent 故事创建事件，发往 story.created 主题。
type StoryCreatedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	Story     StoryData `json:"story"`
}

// StoryDeletedEvent 故事删除事件（软删除即发出），发往 story.deleted 主题。
type StoryDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	StoryID   uint64    `json:"story_id"`
}

// StoryFlaggedEvent 审核服务下发的标记事件，本服务消费。
type StoryFlaggedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	StoryID   uint64    `json:"story_id"`
	Reason    string    `json:"reason"`
}

// StoryUnflaggedEvent 审核服务下发的取消标记事件，本服务消费。
type StoryUnflaggedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	StoryID   uint64    `json:"story_id"`
}
