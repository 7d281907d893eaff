package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/mq/producer"
	"github.com/Xushengqwer/anon_forum_service/repo/mysql"
	"github.com/Xushengqwer/anon_forum_service/repo/redis"
)

// ExpiryReaperTask 负责定时物理删除到期内容。
// 到期内容在被删除之前就已经不可读（查询层过滤 expires_at），本任务只是
// 把不可见的数据真正清出存储。删除是分批、幂等的：单轮失败留下的残余
// 记录由下一轮补删。
type ExpiryReaperTask struct {
	purgeRepo    mysql.PurgeRepository
	trendingRepo redis.TrendingRepository
	kafkaSvc     *producer.KafkaProducer
	lifecycle    config.LifecycleConfig
	cron         *cron.Cron
	logger       *core.ZapLogger
}

// NewExpiryReaperTask 初始化并启动到期清理定时任务。
// 调度表达式来自配置，默认每小时整点执行一次。
func NewExpiryReaperTask(
	purgeRepo mysql.PurgeRepository,
	trendingRepo redis.TrendingRepository,
	kafkaSvc *producer.KafkaProducer,
	lifecycle config.LifecycleConfig,
	logger *core.ZapLogger,
) *ExpiryReaperTask {
	task := &ExpiryReaperTask{
		purgeRepo:    purgeRepo,
		trendingRepo: trendingRepo,
		kafkaSvc:     kafkaSvc,
		lifecycle:    lifecycle.WithDefaults(),
		cron:         cron.New(),
		logger:       logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *ExpiryReaperTask) startCronJob() {
	schedule := t.lifecycle.ReaperSchedule
	t.logger.Info("准备启动到期内容清理定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		// 单轮清理设置超时上限，防止任务卡死占住下一轮。
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		t.RunSweep(ctx)
	})
	if err != nil {
		t.logger.Fatal("添加到期内容清理 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("到期内容清理定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// RunSweep 执行一轮完整的到期清理。
// 独立导出以便启动时立即补跑一轮（进程停机期间可能积压了到期内容）。
func (t *ExpiryReaperTask) RunSweep(ctx context.Context) {
	t.logger.Info("到期内容清理开始执行...")
	startTime := time.Now()

	postsPurged, commentsPurged, purgedPostIDs, err := t.purgeRepo.PurgeExpired(ctx, time.Now(), t.lifecycle.PurgeBatchSize)
	if err != nil {
		t.logger.Error("到期内容清理执行失败", zap.Error(err))
		return
	}

	// 被物理删除的帖子从热度榜单同步移除，防止榜单残留死 ID。
	if len(purgedPostIDs) > 0 {
		if err := t.trendingRepo.Remove(ctx, purgedPostIDs...); err != nil {
			t.logger.Warn("从热度榜单移除已清理帖子失败", zap.Error(err), zap.Int("count", len(purgedPostIDs)))
		}
	}

	duration := time.Since(startTime)
	t.logger.Info("到期内容清理执行完毕",
		zap.Int64("postsPurged", postsPurged),
		zap.Int64("commentsPurged", commentsPurged),
		zap.Duration("duration", duration),
	)

	// 本轮确实删了东西才发事件，空轮不打扰下游。
	if postsPurged > 0 || commentsPurged > 0 {
		if err := t.kafkaSvc.SendContentPurgedEvent(ctx, postsPurged, commentsPurged, duration.Milliseconds()); err != nil {
			t.logger.Error("发送内容清理事件失败", zap.Error(err))
		}
	}
}

// Stop 优雅地停止 cron 调度器，返回的 context 在运行中的任务结束后完成。
func (t *ExpiryReaperTask) Stop() context.Context {
	t.logger.Info("正在停止到期内容清理定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("到期内容清理定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
