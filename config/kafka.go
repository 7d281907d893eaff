package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	ContentFlagged     string `mapstructure:"contentFlagged" yaml:"contentFlagged"`         //  内容达到举报阈值被自动隐藏
	PostDeleted        string `mapstructure:"postDeleted" yaml:"postDeleted"`               //  帖子被软删除
	ContentPurged      string `mapstructure:"contentPurged" yaml:"contentPurged"`           //  清理任务完成一轮物理删除
	ModerationTakedown string `mapstructure:"moderationTakedown" yaml:"moderationTakedown"` //  外部复审服务下达的下架指令
}
