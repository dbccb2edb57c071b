package entities

// UserActivityDate 用户活跃日期记录
// - 使用场景: 连续活跃天数(streak)统计的底层数据，每个用户每个自然日至多一行
// - 表名: user_activity_dates
// - 主键: (user_id, activity_date)，写入使用 insert-or-ignore
// - activity_date 以 "YYYY-MM-DD" 字符串存储，按自然日聚合
type UserActivityDate struct {
	UserID       string `gorm:"type:char(36);primaryKey"`
	ActivityDate string `gorm:"type:char(10);primaryKey"`
}
