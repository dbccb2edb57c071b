package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	StoryCreated   string `mapstructure:"storyCreated" yaml:"storyCreated"`     //  故事创建主题（本服务生产）
	StoryDeleted   string `mapstructure:"storyDeleted" yaml:"storyDeleted"`     //  故事删除主题（本服务生产）
	StoryFlagged   string `mapstructure:"storyFlagged" yaml:"storyFlagged"`     //  审核标记主题（本服务消费）
	StoryUnflagged string `mapstructure:"storyUnflagged" yaml:"storyUnflagged"` //  取消标记主题（本服务消费）
}
