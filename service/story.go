package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/story_service/constant"
	"github.com/Xushengqwer/story_service/dependencies"
	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/models/events"
	"github.com/Xushengqwer/story_service/models/vo"
	"github.com/Xushengqwer/story_service/myErrors"
	"github.com/Xushengqwer/story_service/mq/producer"
	"github.com/Xushengqwer/story_service/repo/mysql"
)

// StoryService 定义了处理故事核心业务逻辑的接口。
type StoryService interface {
	// CreateStory 处理用户发布新故事的业务流程。
	// - 校验内容与媒体文件，上传媒体到对象存储，落库，异步广播创建事件。
	// - 内容写入提交后触发成就评估；评估失败只记录日志，不影响本次操作。
	// - 第二个返回值为字段级校验错误（字段名 -> 错误消息），非空时故事未创建。
	CreateStory(ctx context.Context, userID string, req *dto.CreateStoryRequest, mediaFiles []*multipart.FileHeader) (*vo.CreateStoryResponse, map[string]string, error)

	// GetStoryByID 获取单个故事详情。
	// - 定时发布时间未到的故事对外不可见，按未找到处理。
	GetStoryByID(ctx context.Context, id uint64) (*vo.StoryResponse, error)

	// ListStories 按条件查询故事列表。
	ListStories(ctx context.Context, params *dto.ListStoriesRequest) (*vo.StoryListResponse, error)

	// UpdateStory 处理故事更新。
	// - 发布 24 小时后标题与描述锁定：对应修改被忽略并通过 LockedFields 报告，
	//   其余字段的修改仍然生效。
	// - 合并后的内容重新执行完整校验，失败时返回字段级错误且不落库。
	UpdateStory(ctx context.Context, id uint64, req *dto.UpdateStoryRequest) (*vo.StoryUpdateResponse, map[string]string, error)

	// DeleteStory 对故事执行软删除，开启 7 天恢复窗口，并异步广播删除事件。
	DeleteStory(ctx context.Context, id uint64) error

	// RestoreStory 恢复一个软删除的故事。
	// - 未删除的返回 myErrors.ErrStoryNotDeleted；
	// - 超过恢复窗口的返回 myErrors.ErrRestoreWindowExpired。
	RestoreStory(ctx context.Context, id uint64) (*vo.StoryResponse, error)

	// ListDeletedStories 查询仍在 7 天恢复窗口内的软删除故事（回收站）。
	ListDeletedStories(ctx context.Context) ([]*vo.StoryResponse, error)

	// PurgeExpired 物理删除超过恢复窗口的软删除故事，返回清理数量。
	// - 由定时任务周期性调用，也可由管理端手动触发。
	PurgeExpired(ctx context.Context) (int64, error)

	// LikeStory 点赞：原子加一并对故事作者执行成就评估。
	// - 返回更新后的点赞数与作者本次新获得的勋章。
	LikeStory(ctx context.Context, id uint64) (int64, []*vo.BadgeVO, error)

	// UnlikeStory 取消点赞：原子减一（下限为 0）并对故事作者执行成就评估。
	UnlikeStory(ctx context.Context, id uint64) (int64, []*vo.BadgeVO, error)

	// ShareStory 分享：原子加一并对故事作者执行成就评估。
	ShareStory(ctx context.Context, id uint64) (int64, []*vo.BadgeVO, error)
}

// storyService 是 StoryService 接口的具体实现。
type storyService struct {
	storyRepo    mysql.StoryRepository           // 负责故事的 MySQL 操作
	cosClient    dependencies.COSClientInterface // cos云服务依赖
	gamification GamificationService             // 成就评估引擎
	db           *gorm.DB                        // GORM 数据库实例，主要用于事务管理
	kafkaSvc     *producer.KafkaProducer         // Kafka 生产者，用于发送异步消息
	logger       *core.ZapLogger                 // 日志记录器
	now          func() time.Time                // 可注入的时钟，编辑锁定/恢复窗口判断依赖它
}

// NewStoryService 是 storyService 的构造函数，通过依赖注入初始化服务实例。
func NewStoryService(
	db *gorm.DB,
	storyRepo mysql.StoryRepository,
	cosClient dependencies.COSClientInterface,
	gamification GamificationService,
	kafkaSvc *producer.KafkaProducer,
	logger *core.ZapLogger,
) StoryService {
	return &storyService{
		storyRepo:    storyRepo,
		cosClient:    cosClient,
		gamification: gamification,
		db:           db,
		kafkaSvc:     kafkaSvc,
		logger:       logger,
		now:          time.Now,
	}
}

// validateMediaFile 校验单个媒体文件的扩展名与大小。
func validateMediaFile(fileHeader *multipart.FileHeader) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if _, ok := constant.AllowedMediaExtensions[ext]; !ok {
		return fmt.Errorf("%w: 不支持的文件类型 %q", myErrors.ErrMediaFileInvalid, ext)
	}
	if fileHeader.Size > constant.MaxMediaFileSize {
		return fmt.Errorf("%w: 文件 %s 超过大小限制", myErrors.ErrMediaFileInvalid, fileHeader.Filename)
	}
	return nil
}

// generateMediaObjectKey 创建一个唯一的 COS 对象键。
// 规则: story_media/YYYYMMDD/userID_uuid.ext；匿名用户使用 "anonymous"。
func (s *storyService) generateMediaObjectKey(originalFilename string, userID string) string {
	datePrefix := s.now().Format("20060102")
	randomUUID := uuid.NewString()
	extension := strings.ToLower(filepath.Ext(originalFilename))
	owner := userID
	if owner == "" {
		owner = "anonymous"
	}
	return fmt.Sprintf("%s%s/%s_%s%s",
		constant.COSObjectKeyPrefixStoryMedia,
		datePrefix,
		owner,
		randomUUID,
		extension,
	)
}

// uploadMedia 依次上传媒体文件，任一文件失败时清理本次已上传的对象并返回错误。
func (s *storyService) uploadMedia(ctx context.Context, userID string, mediaFiles []*multipart.FileHeader) (urls []string, objectKeys []string, err error) {
	urls = make([]string, 0, len(mediaFiles))
	objectKeys = make([]string, 0, len(mediaFiles))

	cleanup := func() {
		for _, key := range objectKeys {
			s.logger.Warn("媒体上传中断，清理已上传的 COS 对象", zap.String("objectKey", key))
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), key); cleanupErr != nil {
				s.logger.Error("清理 COS 对象失败", zap.String("objectKey", key), zap.Error(cleanupErr))
			}
		}
	}

	for _, fileHeader := range mediaFiles {
		if err = validateMediaFile(fileHeader); err != nil {
			cleanup()
			return nil, nil, err
		}

		file, openErr := fileHeader.Open()
		if openErr != nil {
			s.logger.Error("打开媒体文件以上传失败",
				zap.String("filename", fileHeader.Filename),
				zap.Error(openErr))
			cleanup()
			return nil, nil, fmt.Errorf("打开媒体文件 %s 失败: %w", fileHeader.Filename, openErr)
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
			s.logger.Warn("未提供媒体文件的内容类型，使用默认值",
				zap.String("filename", fileHeader.Filename),
				zap.String("defaultContentType", contentType))
		}

		objectKey := s.generateMediaObjectKey(fileHeader.Filename, userID)
		mediaURL, uploadErr := s.cosClient.UploadFile(ctx, objectKey, file, fileHeader.Size, contentType)
		file.Close()
		if uploadErr != nil {
			s.logger.Error("上传媒体文件到 COS 失败",
				zap.String("filename", fileHeader.Filename),
				zap.String("objectKey", objectKey),
				zap.Error(uploadErr))
			cleanup()
			return nil, nil, fmt.Errorf("上传媒体文件 %s 到 COS 失败: %w", fileHeader.Filename, uploadErr)
		}

		urls = append(urls, mediaURL)
		objectKeys = append(objectKeys, objectKey)
	}
	return urls, objectKeys, nil
}

// evaluateAfterWrite 内容写入提交后的成就评估（含活跃日期记录）。
// 评估失败只记录日志，返回空列表。
func (s *storyService) evaluateAfterWrite(ctx context.Context, userID string) []*vo.BadgeVO {
	if userID == "" {
		return []*vo.BadgeVO{}
	}
	if err := s.gamification.RecordActivity(ctx, userID); err != nil {
		s.logger.Error("记录用户活跃日期失败", zap.Error(err), zap.String("userID", userID))
	}
	return s.evaluateFor(ctx, userID)
}

// evaluateFor 对指定用户执行成就评估，不记录活跃日期。
// 用于点赞/分享等收益归属作者、但作者本人并未操作的场景。
func (s *storyService) evaluateFor(ctx context.Context, userID string) []*vo.BadgeVO {
	if userID == "" {
		return []*vo.BadgeVO{}
	}
	badges, err := s.gamification.EvaluateAndAward(ctx, userID)
	if err != nil {
		// 成就评估永远不回滚或失败触发它的内容操作
		s.logger.Error("成就评估失败，本次操作按无新勋章处理",
			zap.Error(err),
			zap.String("userID", userID),
		)
		return []*vo.BadgeVO{}
	}
	return badges
}

// CreateStory 处理用户创建新故事的请求，包括媒体上传和数据库操作。
func (s *storyService) CreateStory(ctx context.Context, userID string, req *dto.CreateStoryRequest, mediaFiles []*multipart.FileHeader) (*vo.CreateStoryResponse, map[string]string, error) {
	// 1. 组装实体并做内容校验（媒体上传之前，校验失败不产生任何副作用）
	story := &entities.Story{
		Caption:       strings.TrimSpace(req.Caption),
		Description:   strings.TrimSpace(req.Description),
		Category:      enums.Category(req.Category),
		Privacy:       enums.Privacy(req.Privacy),
		AllowedGroups: req.AllowedGroups,
		Tags:          req.Tags,
		EventTitle:    req.EventTitle,
		ScheduledAt:   req.ScheduledAt,
	}
	if userID != "" {
		story.AuthorID = &userID
	}
	story.NormalizeTags()
	if fieldErrs := story.Validate(); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	// 2. 上传媒体文件到 COS
	mediaURLs, objectKeys, err := s.uploadMedia(ctx, userID, mediaFiles)
	if err != nil {
		return nil, nil, err
	}
	story.MediaPaths = mediaURLs

	// 3. 在事务中执行数据库写入
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if repoErr := s.storyRepo.CreateStory(ctx, tx, story); repoErr != nil {
			return fmt.Errorf("创建故事失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建故事事务失败", zap.Error(err))
		// 数据库写入失败时清理已上传的媒体文件，避免孤立对象
		for _, key := range objectKeys {
			if cleanupErr := s.cosClient.DeleteObject(context.Background(), key); cleanupErr != nil {
				s.logger.Error("清理孤立的 COS 文件失败", zap.String("objectKey", key), zap.Error(cleanupErr))
			}
		}
		return nil, nil, err
	}

	// --- 事务成功 ---

	// 4. 异步发送 Kafka 创建事件
	storyDataForKafka := events.StoryData{
		ID:          story.ID,
		AuthorID:    story.AuthorID,
		Caption:     story.Caption,
		Description: story.Description,
		Category:    story.Category.String(),
		Privacy:     story.Privacy.String(),
		Tags:        story.Tags,
		MediaPaths:  story.MediaPaths,
		ScheduledAt: story.ScheduledAt,
		CreatedAt:   story.CreatedAt,
	}
	go func(sd events.StoryData) {
		bgCtx := context.Background()
		if kafkaErr := s.kafkaSvc.SendStoryCreatedEvent(bgCtx, sd); kafkaErr != nil {
			s.logger.Error("发送 Kafka 故事创建事件失败", zap.Error(kafkaErr), zap.Uint64("story_id", sd.ID))
		}
	}(storyDataForKafka)

	// 5. 成就评估（内容已提交，评估只增益不回滚）
	earnedBadges := s.evaluateAfterWrite(ctx, userID)

	return &vo.CreateStoryResponse{
		Story:        vo.MapStoryToResponseVO(story),
		EarnedBadges: earnedBadges,
	}, nil, nil
}

// GetStoryByID 实现获取故事详情的逻辑。
func (s *storyService) GetStoryByID(ctx context.Context, id uint64) (*vo.StoryResponse, error) {
	story, err := s.storyRepo.GetStoryByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("故事未找到", zap.Uint64("storyID", id))
		} else {
			s.logger.Error("获取故事失败", zap.Error(err), zap.Uint64("storyID", id))
		}
		return nil, err
	}

	// 定时发布时间未到的故事对外表现为不存在
	if !story.IsPublishedAt(s.now()) {
		s.logger.Info("故事尚未到达定时发布时间，对外不可见",
			zap.Uint64("storyID", id),
			zap.Timep("scheduledAt", story.ScheduledAt),
		)
		return nil, commonerrors.ErrRepoNotFound
	}

	return vo.MapStoryToResponseVO(story), nil
}

// ListStories 实现故事列表查询。
func (s *storyService) ListStories(ctx context.Context, params *dto.ListStoriesRequest) (*vo.StoryListResponse, error) {
	stories, total, err := s.storyRepo.ListStories(ctx, params, s.now())
	if err != nil {
		return nil, err
	}
	return &vo.StoryListResponse{
		Stories: vo.MapStoriesToResponseVOs(stories),
		Total:   total,
	}, nil
}

// UpdateStory 实现故事更新，包含编辑锁定与重新校验。
func (s *storyService) UpdateStory(ctx context.Context, id uint64, req *dto.UpdateStoryRequest) (*vo.StoryUpdateResponse, map[string]string, error) {
	story, err := s.storyRepo.GetStoryByID(ctx, id, false)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	editable := story.IsEditableAt(now)
	lockedFields := make([]string, 0, 2)

	// 在实体副本上合并修改，校验通过后再生成列更新
	updateMap := make(map[string]interface{})

	if req.Caption != nil {
		if editable {
			story.Caption = strings.TrimSpace(*req.Caption)
			updateMap["caption"] = story.Caption
		} else {
			// 锁定字段的修改被忽略，但必须显式告知调用方
			lockedFields = append(lockedFields, "caption")
		}
	}
	if req.Description != nil {
		if editable {
			story.Description = strings.TrimSpace(*req.Description)
			updateMap["description"] = story.Description
		} else {
			lockedFields = append(lockedFields, "description")
		}
	}
	if req.Category != nil {
		story.Category = enums.Category(*req.Category)
		updateMap["category"] = story.Category
	}
	if req.Privacy != nil {
		story.Privacy = enums.Privacy(*req.Privacy)
		updateMap["privacy"] = story.Privacy
	}
	if req.AllowedGroups != nil {
		story.AllowedGroups = *req.AllowedGroups
		updateMap["allowed_groups"] = story.AllowedGroups
	}
	if req.Tags != nil {
		story.Tags = *req.Tags
		story.NormalizeTags()
		updateMap["tags"] = story.Tags
	}
	if req.EventTitle != nil {
		story.EventTitle = req.EventTitle
		updateMap["event_title"] = req.EventTitle
	}
	if req.ScheduledAt != nil {
		story.ScheduledAt = req.ScheduledAt
		updateMap["scheduled_at"] = req.ScheduledAt
	}

	// 合并后的完整内容重新校验
	if fieldErrs := story.Validate(); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	if len(updateMap) > 0 {
		if err := s.storyRepo.UpdateStory(ctx, id, updateMap); err != nil {
			return nil, nil, err
		}
	}

	// 回读最新状态，保证响应反映数据库内容
	updated, err := s.storyRepo.GetStoryByID(ctx, id, false)
	if err != nil {
		return nil, nil, err
	}

	return &vo.StoryUpdateResponse{
		Story:        vo.MapStoryToResponseVO(updated),
		LockedFields: lockedFields,
	}, nil, nil
}

// DeleteStory 实现故事的软删除逻辑。
func (s *storyService) DeleteStory(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if repoErr := s.storyRepo.SoftDeleteStory(ctx, tx, id); repoErr != nil {
			return repoErr
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("软删除故事失败", zap.Error(err), zap.Uint64("story_id", id))
		}
		return err
	}

	// 异步发送 Kafka 删除事件
	go func(storyID uint64) {
		bgCtx := context.Background()
		if kafkaErr := s.kafkaSvc.SendStoryDeletedEvent(bgCtx, storyID); kafkaErr != nil {
			s.logger.Error("发送 Kafka 故事删除事件失败", zap.Error(kafkaErr), zap.Uint64("story_id", storyID))
		}
	}(id)

	s.logger.Info("故事软删除完成，恢复窗口开启", zap.Uint64("story_id", id))
	return nil
}

// RestoreStory 实现软删除故事的恢复逻辑。
func (s *storyService) RestoreStory(ctx context.Context, id uint64) (*vo.StoryResponse, error) {
	story, err := s.storyRepo.GetStoryByID(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if !story.IsDeleted() {
		return nil, myErrors.ErrStoryNotDeleted
	}
	if !story.CanBeRestoredAt(s.now()) {
		s.logger.Warn("故事恢复窗口已过",
			zap.Uint64("storyID", id),
			zap.Time("deletedAt", story.DeletedAt.Time),
		)
		return nil, myErrors.ErrRestoreWindowExpired
	}

	if err := s.storyRepo.RestoreStory(ctx, id); err != nil {
		return nil, err
	}

	restored, err := s.storyRepo.GetStoryByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("故事恢复成功", zap.Uint64("story_id", id))
	return vo.MapStoryToResponseVO(restored), nil
}

// ListDeletedStories 实现回收站列表查询。
// 超过恢复窗口的故事只等待清理任务，不再出现在回收站中。
func (s *storyService) ListDeletedStories(ctx context.Context) ([]*vo.StoryResponse, error) {
	cutoff := s.now().Add(-constant.RecoveryWindow)
	stories, err := s.storyRepo.FindDeletedStories(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	return vo.MapStoriesToResponseVOs(stories), nil
}

// PurgeExpired 实现过期软删除故事的物理清理。
func (s *storyService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-constant.RecoveryWindow)
	purged, err := s.storyRepo.PurgeExpiredStories(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("清理过期软删除故事完成",
			zap.Int64("purged", purged),
			zap.Time("cutoff", cutoff),
		)
	}
	return purged, nil
}

// ownerOf 返回故事作者ID；故事不存在时透传 ErrRepoNotFound。
func (s *storyService) ownerOf(ctx context.Context, id uint64) (string, error) {
	story, err := s.storyRepo.GetStoryByID(ctx, id, false)
	if err != nil {
		return "", err
	}
	if story.AuthorID == nil {
		return "", nil
	}
	return *story.AuthorID, nil
}

// LikeStory 实现点赞逻辑。
func (s *storyService) LikeStory(ctx context.Context, id uint64) (int64, []*vo.BadgeVO, error) {
	owner, err := s.ownerOf(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	newCount, err := s.storyRepo.IncrementLikes(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	// 点赞收益归属于故事作者，对作者执行成就评估
	earnedBadges := s.evaluateFor(ctx, owner)
	return newCount, earnedBadges, nil
}

// UnlikeStory 实现取消点赞逻辑。
func (s *storyService) UnlikeStory(ctx context.Context, id uint64) (int64, []*vo.BadgeVO, error) {
	owner, err := s.ownerOf(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	newCount, err := s.storyRepo.DecrementLikes(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	// 与点赞一致, 计数变化后对作者重新评估
	earnedBadges := s.evaluateFor(ctx, owner)
	return newCount, earnedBadges, nil
}

// ShareStory 实现分享逻辑。
func (s *storyService) ShareStory(ctx context.Context, id uint64) (int64, []*vo.BadgeVO, error) {
	owner, err := s.ownerOf(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	newCount, err := s.storyRepo.IncrementShares(ctx, id)
	if err != nil {
		return 0, nil, err
	}

	earnedBadges := s.evaluateFor(ctx, owner)
	return newCount, earnedBadges, nil
}
