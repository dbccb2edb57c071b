package enums

// StorySort 故事列表排序方式
type StorySort string

const (
	StorySortRecent   StorySort = "recent"   // 按创建时间倒序
	StorySortLikes    StorySort = "likes"    // 按点赞数倒序
	StorySortComments StorySort = "comments" // 按评论数倒序
)

// IsValid 校验排序方式；非法值由调用方回退到 recent。
func (s StorySort) IsValid() bool {
	switch s {
	case StorySortRecent, StorySortLikes, StorySortComments:
		return true
	}
	return false
}

// BadgeSort 用户勋章列表排序方式
type BadgeSort string

const (
	BadgeSortNewest       BadgeSort = "newest"       // 按获得时间倒序
	BadgeSortRarity       BadgeSort = "rarity"       // 按全站持有人数升序（越稀有越靠前）
	BadgeSortAlphabetical BadgeSort = "alphabetical" // 按勋章标题字典序
)

// IsValid 校验排序方式；非法值由调用方回退到 newest。
func (s BadgeSort) IsValid() bool {
	switch s {
	case BadgeSortNewest, BadgeSortRarity, BadgeSortAlphabetical:
		return true
	}
	return false
}

// BadgeCatalogOrder 勋章目录（全量勋章）展示顺序
type BadgeCatalogOrder string

const (
	BadgeCatalogOrderSortOrder BadgeCatalogOrder = "sort_order" // 按运营配置的 sort_order 升序
	BadgeCatalogOrderTitle     BadgeCatalogOrder = "title"      // 按标题字典序
	BadgeCatalogOrderNewest    BadgeCatalogOrder = "newest"     // 按创建时间倒序
)

// IsValid 校验展示顺序；非法值由调用方回退到 sort_order。
func (o BadgeCatalogOrder) IsValid() bool {
	switch o {
	case BadgeCatalogOrderSortOrder, BadgeCatalogOrderTitle, BadgeCatalogOrderNewest:
		return true
	}
	return false
}
