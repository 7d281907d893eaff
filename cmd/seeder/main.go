package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	appConfig "github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/dependencies"
	"github.com/Xushengqwer/anon_forum_service/mq/producer"
	"github.com/Xushengqwer/anon_forum_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/anon_forum_service/repo/redis"
	"github.com/Xushengqwer/anon_forum_service/security"
	"github.com/Xushengqwer/anon_forum_service/service"
)

func main() {
	// --- 0. 解析命令行参数 ---
	var numPosts int
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "配置文件路径")
	flag.IntVar(&numPosts, "n", 50, "要生成的帖子数量 (默认: 50)")
	var maxComments int
	flag.IntVar(&maxComments, "comments", 5, "每个帖子随机生成的评论数量上限 (默认: 5)")
	flag.Parse()

	absConfigFile, err := filepath.Abs(configFile)
	if err != nil {
		fmt.Printf("无法获取配置文件的绝对路径 '%s': %v\n", configFile, err)
		absConfigFile = configFile
	}
	fmt.Printf("准备使用配置文件 '%s' 生成 %d 条测试帖子...\n", absConfigFile, numPosts)

	if numPosts <= 0 {
		fmt.Println("错误: 生成的帖子数量必须大于 0")
		os.Exit(1)
	}
	if maxComments < 0 {
		fmt.Println("错误: 评论数量上限不能为负")
		os.Exit(1)
	}

	// --- 1. 加载配置 ---
	var cfg appConfig.AnonForumConfig
	if err := core.LoadConfig(absConfigFile, &cfg); err != nil {
		fmt.Printf("加载配置失败 (%s): %v\n", absConfigFile, err)
		os.Exit(1)
	}
	fmt.Println("配置加载成功。")
	if cfg.MySQLConfig.Write.DSN == "" {
		fmt.Println("警告: MySQL Write DSN 为空，请检查配置文件内容与路径。")
	}

	// --- 2. 初始化日志记录器 ---
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		fmt.Printf("初始化 ZapLogger 失败: %v\n", loggerErr)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Logger().Sync()
	}()
	logger.Info("Logger 初始化成功 (Seeder)")

	// --- 3. 初始化安全组件 ---
	// 填充数据要通过完整的服务层（净化、加密一个不少），密钥缺失时
	// 生成临时值，填充出的密文只在同一密钥生命周期内可读。
	if cfg.SecurityConfig.EncryptionKey == "" {
		key, keyErr := security.GenerateRandomKeyHex()
		if keyErr != nil {
			logger.Fatal("生成临时加密密钥失败 (Seeder)", zap.Error(keyErr))
		}
		cfg.SecurityConfig.EncryptionKey = key
		logger.Warn("未配置内容加密密钥，Seeder 使用临时随机密钥")
	}
	if cfg.SecurityConfig.IPSalt == "" {
		salt, saltErr := security.GenerateRandomKeyHex()
		if saltErr != nil {
			logger.Fatal("生成临时散列盐值失败 (Seeder)", zap.Error(saltErr))
		}
		cfg.SecurityConfig.IPSalt = salt
	}
	contentCipher, cipherErr := security.NewContentCipher(&cfg.SecurityConfig, logger)
	if cipherErr != nil {
		logger.Fatal("初始化内容加密组件失败 (Seeder)", zap.Error(cipherErr))
	}
	ipHasher := security.NewIPHasher(&cfg.SecurityConfig)
	contentFilter := security.NewContentFilter(&cfg.SecurityConfig)

	// --- 4. 初始化 MySQL 与 Redis ---
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 失败 (Seeder)", zap.Error(dbErr))
	}
	logger.Info("MySQL 连接成功 (Seeder)")

	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败 (Seeder)", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功 (Seeder)")

	// --- 5. 初始化 Kafka 生产者 ---
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化 (Seeder)")
	}

	// --- 6. 组装仓库与服务层 ---
	postRepo := mysql.NewPostRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	trendingRepo := redisRepo.NewTrendingRepository(rdb, logger)

	postService := service.NewPostService(db, postRepo, trendingRepo, contentCipher, ipHasher, contentFilter, cfg.LifecycleConfig, kafkaProducer, logger)
	commentService := service.NewCommentService(db, commentRepo, postRepo, contentCipher, ipHasher, contentFilter, logger)

	// --- 7. 执行填充 ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	Seed(ctx, postService, commentService, logger, numPosts, maxComments)

	logger.Info("Seeder 执行完毕")
}
