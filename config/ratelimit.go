package config

// WindowConfig 描述一个固定窗口限流策略。
// - 本服务采用固定窗口（INCR + EXPIRE）实现：计数器在窗口首次命中时创建，
//   到期整体重置。窗口边界处可能出现短时突发，属于已知且可接受的权衡。
type WindowConfig struct {
	WindowSeconds int   `mapstructure:"windowSeconds" json:"windowSeconds" yaml:"windowSeconds"` // 窗口长度（秒）
	Max           int64 `mapstructure:"max" json:"max" yaml:"max"`                               // 窗口内允许的最大请求数
}

// RateLimitConfig 描述各独立限流窗口的参数。
// - 每个写操作拥有独立的计数器；全局窗口覆盖所有请求。
// - 计数器存放于 Redis，进程或 Redis 重启后状态丢失是可接受的（非持久化保证）。
type RateLimitConfig struct {
	Global        WindowConfig `mapstructure:"global" json:"global" yaml:"global"`                      // 默认 15 分钟 / 100 次
	CreatePost    WindowConfig `mapstructure:"createPost" json:"createPost" yaml:"createPost"`          // 默认 5 分钟 / 5 次
	CreateComment WindowConfig `mapstructure:"createComment" json:"createComment" yaml:"createComment"` // 默认 1 分钟 / 10 次
	Like          WindowConfig `mapstructure:"like" json:"like" yaml:"like"`                            // 默认 1 分钟 / 10 次
	Flag          WindowConfig `mapstructure:"flag" json:"flag" yaml:"flag"`                            // 默认 5 分钟 / 3 次

	// SlowDownAfter 是全局窗口内触发“减速”策略的阈值（默认 50）。
	// 超过该阈值后，每多一个请求增加 SlowDownStepMillis 的人为延迟，
	// 上限 SlowDownMaxMillis。减速只延迟、不拒绝。
	SlowDownAfter      int64 `mapstructure:"slowDownAfter" json:"slowDownAfter" yaml:"slowDownAfter"`
	SlowDownStepMillis int   `mapstructure:"slowDownStepMillis" json:"slowDownStepMillis" yaml:"slowDownStepMillis"`
	SlowDownMaxMillis  int   `mapstructure:"slowDownMaxMillis" json:"slowDownMaxMillis" yaml:"slowDownMaxMillis"`
}

// WithDefaults 为缺省的窗口参数补齐默认值，返回补齐后的副本。
func (c RateLimitConfig) WithDefaults() RateLimitConfig {
	fill := func(w *WindowConfig, seconds int, max int64) {
		if w.WindowSeconds <= 0 {
			w.WindowSeconds = seconds
		}
		if w.Max <= 0 {
			w.Max = max
		}
	}
	fill(&c.Global, 15*60, 100)
	fill(&c.CreatePost, 5*60, 5)
	fill(&c.CreateComment, 60, 10)
	fill(&c.Like, 60, 10)
	fill(&c.Flag, 5*60, 3)
	if c.SlowDownAfter <= 0 {
		c.SlowDownAfter = 50
	}
	if c.SlowDownStepMillis <= 0 {
		c.SlowDownStepMillis = 100
	}
	if c.SlowDownMaxMillis <= 0 {
		c.SlowDownMaxMillis = 3000
	}
	return c
}
