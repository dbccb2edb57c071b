package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList 字符串列表字段
// - 使用场景: 故事的标签、允许分组、媒体路径等列表字段，整体序列化为 JSON 存入单个 TEXT 列
// - 读写: 实现 driver.Valuer / sql.Scanner，GORM 读写时自动序列化与反序列化
// - 约定: NULL 或空串读出为 nil，空列表写入为 "[]"
type StringList []string

// Value 实现 driver.Valuer，将列表序列化为 JSON 字符串。
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("序列化字符串列表失败: %w", err)
	}
	return string(data), nil
}

// Scan 实现 sql.Scanner，从 TEXT 列反序列化 JSON。
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法将类型 %T 扫描为 StringList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("反序列化字符串列表失败: %w", err)
	}
	*l = out
	return nil
}
