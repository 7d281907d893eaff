package config

// LifecycleConfig 包含内容生命周期（到期清理）相关的配置。
type LifecycleConfig struct {
	// PostTTLDays 是帖子自创建起的存活天数，到期时间在创建时一次性固定，之后不可延长。
	// 评论继承所属帖子的到期时间。默认 7 天。
	PostTTLDays int `mapstructure:"postTTLDays" json:"postTTLDays" yaml:"postTTLDays"`

	// ReaperSchedule 是清理任务的 cron 表达式，默认每小时整点执行（"0 * * * *"）。
	// 到期内容在任务真正删除之前，依靠查询层的 expires_at 过滤保证不可读。
	ReaperSchedule string `mapstructure:"reaperSchedule" json:"reaperSchedule" yaml:"reaperSchedule"`

	// PurgeBatchSize 是单次物理删除操作处理的最大记录数。
	// 分批删除避免单条超大 DELETE 长时间持有锁。默认 500。
	PurgeBatchSize int `mapstructure:"purgeBatchSize" json:"purgeBatchSize" yaml:"purgeBatchSize"`
}

// WithDefaults 为缺省字段补齐默认值，返回补齐后的副本。
func (c LifecycleConfig) WithDefaults() LifecycleConfig {
	if c.PostTTLDays <= 0 {
		c.PostTTLDays = 7
	}
	if c.ReaperSchedule == "" {
		c.ReaperSchedule = "0 * * * *"
	}
	if c.PurgeBatchSize <= 0 {
		c.PurgeBatchSize = 500
	}
	return c
}
