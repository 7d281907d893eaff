package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/Xushengqwer/anon_forum_service/docs" // 确保导入了 docs 包

	// 导入项目包
	appConfig "github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/controller"
	"github.com/Xushengqwer/anon_forum_service/dependencies"
	appMiddleware "github.com/Xushengqwer/anon_forum_service/middleware"
	"github.com/Xushengqwer/anon_forum_service/mq/consumer"
	"github.com/Xushengqwer/anon_forum_service/mq/producer"
	"github.com/Xushengqwer/anon_forum_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/anon_forum_service/repo/redis"
	"github.com/Xushengqwer/anon_forum_service/router"
	"github.com/Xushengqwer/anon_forum_service/security"
	"github.com/Xushengqwer/anon_forum_service/service"
	"github.com/Xushengqwer/anon_forum_service/tasks"

	// 导入公共模块
	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// @title           Anonymous Forum Service API
// @version         1.0
// @description     匿名论坛服务。帖子与评论加密存储、固定存活期后自动消失，提供点赞、举报与自动隐藏能力。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8085
// @BasePath  /api/v1/forum
// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.AnonForumConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 打印最终生效的配置以供调试（安全字段在 MarshalJSON 前先抹掉）
	printable := cfg
	printable.SecurityConfig.EncryptionKey = "<redacted>"
	printable.SecurityConfig.IPSalt = "<redacted>"
	configBytes, err := json.MarshalIndent(printable, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	var tracerShutdown func(context.Context) error
	if cfg.TracerConfig.Enabled {
		var err error
		tracerShutdown, err = sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		logger.Info("分布式追踪已初始化")
		// 出站 HTTP 请求同样携带追踪上下文。
		http.DefaultClient.Transport = otelhttp.NewTransport(http.DefaultTransport)
	} else {
		logger.Info("分布式追踪已禁用")
		tracerShutdown = func(ctx context.Context) error { return nil }
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 安全组件。密钥/盐未配置时生成临时随机值，进程重启后历史密文不可解、
	//     限流桶整体漂移，只适合开发环境，因此必须告警。
	if cfg.SecurityConfig.EncryptionKey == "" {
		key, keyErr := security.GenerateRandomKeyHex()
		if keyErr != nil {
			logger.Fatal("生成临时加密密钥失败", zap.Error(keyErr))
		}
		cfg.SecurityConfig.EncryptionKey = key
		logger.Warn("未配置内容加密密钥，已生成临时随机密钥；重启后历史密文将无法解密")
	}
	if cfg.SecurityConfig.IPSalt == "" {
		salt, saltErr := security.GenerateRandomKeyHex()
		if saltErr != nil {
			logger.Fatal("生成临时散列盐值失败", zap.Error(saltErr))
		}
		cfg.SecurityConfig.IPSalt = salt
		logger.Warn("未配置 IP 散列盐值，已生成临时随机值；重启后限流窗口会整体重置")
	}

	contentCipher, cipherErr := security.NewContentCipher(&cfg.SecurityConfig, logger)
	if cipherErr != nil {
		logger.Fatal("初始化内容加密组件失败", zap.Error(cipherErr))
	}
	ipHasher := security.NewIPHasher(&cfg.SecurityConfig)
	contentFilter := security.NewContentFilter(&cfg.SecurityConfig)
	logger.Info("安全组件已初始化")

	// 4.2 数据库 (MySQL)
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("MySQL 数据库连接成功")

	// 4.3 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.4 Kafka 生产者
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Warn("未配置 Kafka brokers，Kafka 生产者将为 nil")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	postRepo := mysql.NewPostRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	purgeRepo := mysql.NewPurgeRepository(db, logger)
	logger.Debug("MySQL Repositories 初始化完成")

	rateLimitRepo := redisrepo.NewRateLimitRepository(rdb, logger)
	trendingRepo := redisrepo.NewTrendingRepository(rdb, logger)
	logger.Debug("Redis Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	postService := service.NewPostService(db, postRepo, trendingRepo, contentCipher, ipHasher, contentFilter, cfg.LifecycleConfig, kafkaProducer, logger)
	commentService := service.NewCommentService(db, commentRepo, postRepo, contentCipher, ipHasher, contentFilter, logger)
	moderationService := service.NewModerationService(db, postRepo, commentRepo, trendingRepo, kafkaProducer, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	if err := router.RegisterCustomValidators(); err != nil {
		logger.Fatal("注册自定义校验器失败", zap.Error(err))
	}
	rateLimiter := appMiddleware.NewRateLimiter(rateLimitRepo, ipHasher, cfg.RateLimitConfig, logger)
	postController := controller.NewPostController(postService, rateLimiter)
	commentController := controller.NewCommentController(commentService, rateLimiter)
	moderationController := controller.NewModerationController(moderationService, rateLimiter)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化 Kafka 消费者 ---
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup
	var consumerCtx, consumerCancel = context.WithCancel(context.Background())

	if len(cfg.KafkaConfig.Brokers) > 0 {
		groupID := cfg.KafkaConfig.ConsumerGroupID
		if groupID == "" {
			logger.Warn("Kafka ConsumerGroupID 未在配置中设置，将使用默认值 'anon_forum_service_group'")
			groupID = "anon_forum_service_group"
		}

		takedownTopic := cfg.KafkaConfig.Topics.ModerationTakedown
		if takedownTopic != "" {
			takedownHandler := consumer.NewTakedownHandler(logger, moderationService)
			takedownConsumer, err := consumer.NewConsumer(
				&cfg.KafkaConfig,
				groupID,
				takedownTopic,
				takedownHandler,
				logger,
			)
			if err != nil {
				logger.Fatal("初始化 Takedown Kafka 消费者失败", zap.Error(err))
			}
			consumers = append(consumers, takedownConsumer)
			logger.Info("Takedown Kafka 消费者已准备就绪", zap.String("topic", takedownTopic))
		} else {
			logger.Warn("ModerationTakedown topic 未配置，跳过 Takedown 消费者创建")
		}

		if len(consumers) > 0 {
			logger.Info(fmt.Sprintf("准备启动 %d 个 Kafka 消费者...", len(consumers)))
			for _, c := range consumers {
				consumerWg.Add(1)
				go func(cons *consumer.Consumer) {
					defer consumerWg.Done()
					cons.Start(consumerCtx)
				}(c)
			}
		}
	} else {
		logger.Warn("Kafka Brokers 未配置，跳过所有 Kafka 消费者初始化。")
	}

	// --- 9. 初始化定时任务 ---
	reaperTask := tasks.NewExpiryReaperTask(purgeRepo, trendingRepo, kafkaProducer, cfg.LifecycleConfig, logger)
	logger.Info("后台定时任务已初始化并启动")

	// 进程停机期间可能积压了到期内容，启动后立即补跑一轮清理。
	go func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		reaperTask.RunSweep(sweepCtx)
	}()

	// --- 10. 设置 Gin 路由器 ---
	ginRouter := router.SetupRouter(logger, &cfg, ipHasher, rateLimiter, postController, commentController, moderationController)
	logger.Info("Gin 路由器已设置")

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 实现优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	if consumerCancel != nil {
		logger.Info("正在发送停止信号给 Kafka 消费者...")
		consumerCancel()
	}
	logger.Info("等待 Kafka 消费者停止...")
	consumerWg.Wait()
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭某个 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止。")

	// c. 停止定时任务调度器 (等待运行中的清理结束)
	logger.Info("正在停止定时任务...")
	reaperStopCtx := reaperTask.Stop()
	select {
	case <-reaperStopCtx.Done():
		logger.Info("到期内容清理任务已停止")
	case <-shutdownCtx.Done():
		logger.Error("等待定时任务停止超时", zap.Error(shutdownCtx.Err()))
	}

	// d. 关闭 Kafka 生产者
	if kafkaProducer != nil {
		if err := kafkaProducer.Close(); err != nil {
			logger.Error("关闭 Kafka 生产者失败", zap.Error(err))
		}
	}

	logger.Info("服务已成功关闭")
}
