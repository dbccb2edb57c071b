package config

// PurgeConfig 过期软删除故事的清理任务配置
type PurgeConfig struct {
	// CronSpec 清理任务的 cron 表达式，建议凌晨低峰期执行，例如 "0 3 * * *"
	CronSpec string `mapstructure:"cronSpec" json:"cronSpec" yaml:"cronSpec"`

	// BatchTimeoutSeconds 单次清理的超时时间（秒）
	BatchTimeoutSeconds int `mapstructure:"batchTimeoutSeconds" json:"batchTimeoutSeconds" yaml:"batchTimeoutSeconds"`
}
