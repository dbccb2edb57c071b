package enums

// Privacy 故事可见性设置
// - "Specific Groups" 时必须同时提供至少一个允许的分组
type Privacy string

const (
	PrivacyPublic         Privacy = "Public"
	PrivacyFriendsOnly    Privacy = "Friends Only"
	PrivacySpecificGroups Privacy = "Specific Groups"
)

// PrivacyOptions 返回所有合法可见性选项，顺序即表单展示顺序。
func PrivacyOptions() []Privacy {
	return []Privacy{PrivacyPublic, PrivacyFriendsOnly, PrivacySpecificGroups}
}

// IsValid 校验可见性取值是否合法。
func (p Privacy) IsValid() bool {
	switch p {
	case PrivacyPublic, PrivacyFriendsOnly, PrivacySpecificGroups:
		return true
	}
	return false
}

// RequiresGroups 判断该可见性是否要求指定分组。
func (p Privacy) RequiresGroups() bool {
	return p == PrivacySpecificGroups
}

func (p Privacy) String() string {
	return string(p)
}
