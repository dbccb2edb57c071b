package enums

// Category 故事分类枚举
// - 存储形式: 直接存储分类名称字符串 (varchar)，与历史数据的编码保持一致
// - 前端表单的下拉选项由 Categories() 提供
type Category string

const (
	CategoryLifeLessons      Category = "Life Lessons"
	CategoryHistoricalEvents Category = "Historical Events"
	CategoryFamilyTraditions Category = "Family Traditions"
	CategoryCareerJourney    Category = "Career Journey"
	CategoryHobbiesSkills    Category = "Hobbies & Skills"
	CategoryTravelAdventures Category = "Travel Adventures"
)

// Categories 返回所有合法分类，顺序即表单展示顺序。
func Categories() []Category {
	return []Category{
		CategoryLifeLessons,
		CategoryHistoricalEvents,
		CategoryFamilyTraditions,
		CategoryCareerJourney,
		CategoryHobbiesSkills,
		CategoryTravelAdventures,
	}
}

// IsValid 校验分类是否在合法集合内。
func (c Category) IsValid() bool {
	switch c {
	case CategoryLifeLessons, CategoryHistoricalEvents, CategoryFamilyTraditions,
		CategoryCareerJourney, CategoryHobbiesSkills, CategoryTravelAdventures:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
