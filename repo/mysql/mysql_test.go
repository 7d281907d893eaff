package mysql

import (
	"testing"
	"time"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/entities"
)

// 仓库层测试使用内存 SQLite：可见性过滤、计数增减与清理删除
// 都是纯 SQL 语义，与 MySQL 一致（置位条件引用自增前的计数，两种方言求值结果相同）。

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Post{}, &entities.Comment{}))
	return db
}

func testLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

// mustCreatePost 插入一条可见帖子并返回其实体。
func mustCreatePost(t *testing.T, db *gorm.DB, mutate func(*entities.Post)) *entities.Post {
	t.Helper()
	post := &entities.Post{
		AnonID:     "Shadow4821",
		Title:      "测试帖子标题",
		Ciphertext: "deadbeef",
		IV:         "00112233445566778899aabb",
		AuthTag:    "ffeeddccbbaa99887766554433221100",
		Category:   constant.CategoryGeneral,
		IPHash:     "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	if mutate != nil {
		mutate(post)
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// commentCountOf 读取帖子的评论计数（绕过软删除过滤）。
func commentCountOf(t *testing.T, db *gorm.DB, postID uint64) uint64 {
	t.Helper()
	var post entities.Post
	require.NoError(t, db.Unscoped().First(&post, postID).Error)
	return post.CommentCount
}

// mustCreateComment 插入一条评论，到期时间默认与父帖无关、由调用方指定。
func mustCreateComment(t *testing.T, db *gorm.DB, postID uint64, mutate func(*entities.Comment)) *entities.Comment {
	t.Helper()
	comment := &entities.Comment{
		PostID:     postID,
		AnonID:     "Ghost1234",
		Ciphertext: "cafebabe",
		IV:         "00112233445566778899aabb",
		AuthTag:    "ffeeddccbbaa99887766554433221100",
		IPHash:     "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	}
	if mutate != nil {
		mutate(comment)
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
