package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/service"
)

// SeedGamificationCatalog 填充一套基础的勋章与成就目录。
// 目录是成就评估的前提，先于故事数据写入。
func SeedGamificationCatalog(ctx context.Context, adminSvc service.GamificationAdminService, logger *core.ZapLogger) {
	logger.Info("开始填充勋章与成就目录...")

	type seedAchievement struct {
		title       string
		description string
		ruleType    enums.RuleType
		ruleValue   int64
		badgeTitle  string
		badgeDesc   string
	}

	catalog := []seedAchievement{
		{"First Story", "发布第一个故事", enums.RuleStoriesCreatedTotal, 1, "Storyteller", "发布了第一个故事"},
		{"Prolific Author", "发布十个故事", enums.RuleStoriesCreatedTotal, 10, "Prolific Pen", "累计发布十个故事"},
		{"First Comment", "写下第一条评论", enums.RuleCommentsWrittenTotal, 1, "Conversationalist", "参与了第一次讨论"},
		{"Crowd Favorite", "累计获得五十个赞", enums.RuleLikesReceivedTotal, 50, "Crowd Favorite", "故事广受欢迎"},
		{"Viral Moment", "故事被分享十次", enums.RuleSharesReceivedTotal, 10, "Signal Booster", "故事被广泛传播"},
		{"Weekly Regular", "连续活跃七天", enums.RuleDaysActiveStreak, 7, "Regular", "坚持每天回来看看"},
	}

	for i, item := range catalog {
		badge, err := adminSvc.CreateBadge(ctx, &dto.CreateBadgeRequest{
			Title:       item.badgeTitle,
			Description: item.badgeDesc,
			IconURL:     gofakeit.ImageURL(64, 64),
			SortOrder:   i,
		})
		if err != nil {
			logger.Error("创建勋章失败", zap.Error(err), zap.String("title", item.badgeTitle))
			continue
		}

		if _, err := adminSvc.CreateAchievement(ctx, &dto.CreateAchievementRequest{
			Title:       item.title,
			Description: item.description,
			RuleType:    string(item.ruleType),
			RuleValue:   item.ruleValue,
			BadgeIDs:    []uint64{badge.ID},
		}); err != nil {
			logger.Error("创建成就失败", zap.Error(err), zap.String("title", item.title))
		}
	}

	logger.Info("勋章与成就目录填充完毕。", zap.Int("成就数量", len(catalog)))
}

// randomTags 生成合法的标签（仅字母数字下划线）。
func randomTags() []string {
	count := gofakeit.Number(0, 5)
	tags := make([]string, 0, count)
	for i := 0; i < count; i++ {
		tag := strings.ReplaceAll(gofakeit.HipsterWord(), " ", "_")
		tags = append(tags, tag)
	}
	return tags
}

// randomCategory 随机挑选一个合法分类。
func randomCategory() string {
	categories := enums.Categories()
	return string(categories[gofakeit.Number(0, len(categories)-1)])
}

// Seed 通过服务层填充故事与评论测试数据。
func Seed(ctx context.Context, storySvc service.StoryService, commentSvc service.CommentService, logger *core.ZapLogger, numStories int) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("数量", numStories))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numStories; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			authorID := uuid.New().String()

			createReq := &dto.CreateStoryRequest{
				Caption:     gofakeit.Sentence(gofakeit.Number(3, 8)),
				Description: gofakeit.Paragraph(2, 4, 20, " "),
				Category:    randomCategory(),
				Privacy:     string(enums.PrivacyPublic),
				Tags:        randomTags(),
			}

			resp, fieldErrs, err := storySvc.CreateStory(ctx, authorID, createReq, nil)
			if err != nil || len(fieldErrs) > 0 {
				logger.Error(fmt.Sprintf("创建故事 %d/%d 失败", itemIndex+1, numStories),
					zap.Error(err),
					zap.Any("field_errors", fieldErrs),
					zap.String("caption", createReq.Caption))
				return
			}

			logger.Info(fmt.Sprintf("成功创建故事 %d/%d", itemIndex+1, numStories),
				zap.Uint64("story_id", resp.Story.ID),
				zap.String("caption", resp.Story.Caption))

			// 给部分故事添加评论与点赞，让互动计数和成就数据更真实
			numComments := gofakeit.Number(0, 3)
			for j := 0; j < numComments; j++ {
				commenterID := uuid.New().String()
				_, commentErrs, commentErr := commentSvc.AddComment(ctx, resp.Story.ID, commenterID, &dto.AddCommentRequest{
					AuthorName: gofakeit.Username(),
					Content:    gofakeit.Sentence(gofakeit.Number(5, 20)),
				})
				if commentErr != nil || len(commentErrs) > 0 {
					logger.Warn("创建评论失败",
						zap.Error(commentErr),
						zap.Any("field_errors", commentErrs),
						zap.Uint64("story_id", resp.Story.ID))
				}
			}

			numLikes := gofakeit.Number(0, 10)
			for j := 0; j < numLikes; j++ {
				if _, _, likeErr := storySvc.LikeStory(ctx, resp.Story.ID); likeErr != nil {
					logger.Warn("点赞失败", zap.Error(likeErr), zap.Uint64("story_id", resp.Story.ID))
					break
				}
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}
