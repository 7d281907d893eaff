package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/constant"
	"github.com/Xushengqwer/anon_forum_service/models/dto"
	"github.com/Xushengqwer/anon_forum_service/service"
)

// Seed 通过完整的服务层填充匿名帖子与评论。
// 走服务层意味着填充数据同样经过净化、垃圾检查与加密，
// 与线上写入的数据形态完全一致。
func Seed(ctx context.Context, postSvc service.PostService, commentSvc service.CommentService, logger *core.ZapLogger, numPosts, maxComments int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numPosts))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numPosts; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			category := constant.Categories[gofakeit.Number(0, len(constant.Categories)-1)]
			tags := make([]string, 0, 3)
			for t := 0; t < gofakeit.Number(0, 3); t++ {
				tags = append(tags, gofakeit.Word())
			}

			createReq := &dto.CreatePostRequest{
				Title:    gofakeit.Sentence(gofakeit.Number(4, 10)),
				Content:  gofakeit.Paragraph(2, 4, 12, " "),
				Category: string(category),
				Tags:     tags,
			}

			resp, err := postSvc.CreatePost(ctx, createReq, gofakeit.IPv4Address())
			if err != nil {
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPosts),
					zap.Error(err),
					zap.String("title", createReq.Title))
				return
			}
			logger.Info(fmt.Sprintf("成功创建帖子 %d/%d", itemIndex+1, numPosts),
				zap.Uint64("post_id", resp.ID),
				zap.String("anon_id", resp.AnonID))

			// 每个帖子随机挂几条评论。
			for cIdx := 0; cIdx < gofakeit.Number(0, maxComments); cIdx++ {
				commentReq := &dto.CreateCommentRequest{
					Content: gofakeit.Sentence(gofakeit.Number(3, 20)),
				}
				if _, err := commentSvc.CreateComment(ctx, resp.ID, commentReq, gofakeit.IPv4Address()); err != nil {
					logger.Error("创建评论失败",
						zap.Error(err),
						zap.Uint64("post_id", resp.ID))
				}
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}
