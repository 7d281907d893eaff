package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/anon_forum_service/models/entities"
)

func TestPurgeRepository_PurgeExpired(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurgeRepository(db, testLogger(t))
	ctx := context.Background()
	now := time.Now()

	// 三个到期帖子（其中一个已软删除，也要被物理清除），各带一条到期评论。
	expiredIDs := make(map[uint64]bool)
	for i := 0; i < 3; i++ {
		p := mustCreatePost(t, db, func(p *entities.Post) {
			p.ExpiresAt = now.Add(-time.Hour)
		})
		expiredIDs[p.ID] = true
		mustCreateComment(t, db, p.ID, func(c *entities.Comment) {
			c.ExpiresAt = now.Add(-time.Hour)
		})
		if i == 0 {
			require.NoError(t, db.Delete(&entities.Post{}, p.ID).Error)
		}
	}

	// 存活内容不受影响。
	alive := mustCreatePost(t, db, nil)
	aliveComment := mustCreateComment(t, db, alive.ID, nil)

	// batchSize 小于记录数，验证分批推进。
	postsPurged, commentsPurged, purgedPostIDs, err := repo.PurgeExpired(ctx, now, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, postsPurged)
	assert.EqualValues(t, 3, commentsPurged)
	require.Len(t, purgedPostIDs, 3)
	for _, id := range purgedPostIDs {
		assert.True(t, expiredIDs[id])
	}

	// 到期记录已物理删除（Unscoped 也查不到），存活记录完好。
	var remainPosts, remainComments int64
	require.NoError(t, db.Unscoped().Model(&entities.Post{}).Count(&remainPosts).Error)
	require.NoError(t, db.Unscoped().Model(&entities.Comment{}).Count(&remainComments).Error)
	assert.EqualValues(t, 1, remainPosts)
	assert.EqualValues(t, 1, remainComments)

	var stillAlive entities.Post
	require.NoError(t, db.First(&stillAlive, alive.ID).Error)
	var stillComment entities.Comment
	require.NoError(t, db.First(&stillComment, aliveComment.ID).Error)

	// 幂等：再跑一轮没有可删内容。
	postsPurged, commentsPurged, purgedPostIDs, err = repo.PurgeExpired(ctx, now, 2)
	require.NoError(t, err)
	assert.Zero(t, postsPurged)
	assert.Zero(t, commentsPurged)
	assert.Empty(t, purgedPostIDs)
}

func TestPurgeRepository_DefaultBatchSize(t *testing.T) {
	db := newTestDB(t)
	repo := NewPurgeRepository(db, testLogger(t))
	now := time.Now()

	mustCreatePost(t, db, func(p *entities.Post) {
		p.ExpiresAt = now.Add(-time.Hour)
	})

	// batchSize <= 0 回退到默认值，不会死循环或报错。
	postsPurged, _, _, err := repo.PurgeExpired(context.Background(), now, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, postsPurged)
}
