package services

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"

	"spectra/internal/cache"
	"spectra/internal/config"
	"spectra/internal/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CreatePostInput 上传完成后的入库数据，文件已落盘
type CreatePostInput struct {
	Filename    string
	Filepath    string
	Mimetype    string
	Filesize    int64
	Title       string
	Description string
	Width       int
	Height      int
	Tags        []string
}

// BatchTagResult 批量标签操作的结果：实际存在并被更新的帖子，
// 以及请求里不存在的 id（只报告，不产生失效）
type BatchTagResult struct {
	UpdatedCount int    `json:"updated_count"`
	FoundIDs     []uint `json:"found_ids"`
	MissingIDs   []uint `json:"missing_ids"`
}

type PostService struct {
	db    *gorm.DB
	cache cache.Store
	inv   *Invalidator
	tags  *TagService
	cfg   *config.Config
}

func NewPostService(db *gorm.DB, store cache.Store, inv *Invalidator, tags *TagService, cfg *config.Config) *PostService {
	return &PostService{db: db, cache: store, inv: inv, tags: tags, cfg: cfg}
}

// List 过滤/排序/分页列表加匹配总数，列表页和计数各走一条读穿缓存
func (s *PostService) List(ctx context.Context, q PostQuery) ([]models.Post, int64, error) {
	if err := q.Normalize(); err != nil {
		return nil, 0, err
	}
	params := q.CacheParams()

	posts, err := cache.FetchOrLoad(ctx, s.cache, cache.PostListKey(params), s.cfg.CacheTTL,
		func(ctx context.Context) ([]models.Post, error) {
			sql, args := q.ListSQL()
			var rows []postRow
			if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
				return nil, err
			}
			return assemblePosts(rows), nil
		})
	if err != nil {
		return nil, 0, err
	}

	total, err := cache.FetchOrLoad(ctx, s.cache, cache.PostCountKey(params), s.cfg.CacheTTL,
		func(ctx context.Context) (int64, error) {
			sql, args := q.CountSQL()
			var count int64
			if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&count).Error; err != nil {
				return 0, err
			}
			return count, nil
		})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Get 单帖详情，读穿缓存；不存在返回 ErrNotFound（不缓存否定结果）
func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	post, err := cache.FetchOrLoad(ctx, s.cache, cache.PostKey(postID), s.cfg.CacheTTL,
		func(ctx context.Context) (models.Post, error) {
			sql := "SELECT" + postSelectColumns +
				"\n\tFROM posts p\n\tLEFT JOIN users u ON p.uploader_id = u.id WHERE p.id = ?"
			var rows []postRow
			if err := s.db.WithContext(ctx).Raw(sql, postID).Scan(&rows).Error; err != nil {
				return models.Post{}, err
			}
			if len(rows) == 0 {
				return models.Post{}, ErrNotFound
			}
			return assemblePost(rows[0]), nil
		})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Create 帖子入库 + 标签关联，单事务全有或全无；提交后才广播失效，
// 并发读者失效后 miss 回源看到的一定是已提交状态
func (s *PostService) Create(ctx context.Context, input CreatePostInput, uploaderID uint) (*models.Post, error) {
	if len(input.Title) > 255 {
		return nil, newValidationError("title too long, maximum 255 characters")
	}
	if len(strings.Join(input.Tags, ",")) > 1000 {
		return nil, newValidationError("tags string too long")
	}

	post := models.Post{
		Filename:    input.Filename,
		Filepath:    input.Filepath,
		Mimetype:    input.Mimetype,
		Filesize:    input.Filesize,
		Title:       input.Title,
		Description: input.Description,
		Width:       input.Width,
		Height:      input.Height,
		UploaderID:  &uploaderID,
	}
	processedTags := models.TagList{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		for _, rawName := range input.Tags {
			if NormalizeTagName(rawName) == "" {
				continue
			}
			tag, err := s.tags.GetOrCreateTag(tx, rawName)
			if err != nil {
				return err
			}
			// 幂等关联，重复 (post,tag) 直接忽略
			if err := tx.Exec("INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
				post.ID, tag.ID).Error; err != nil {
				return err
			}
			processedTags = append(processedTags, tag)
		}
		post.Uploader = &models.User{}
		return tx.First(post.Uploader, uploaderID).Error
	})
	if err != nil {
		return nil, err
	}

	s.inv.PostCreated(ctx)

	post.Tags = processedTags
	post.CommentCount = 0
	post.Upvotes = 0
	post.Downvotes = 0
	return &post, nil
}

// Delete 先保证数据库和缓存一致，磁盘清理放最后且只记日志
func (s *PostService) Delete(ctx context.Context, postID uint) error {
	var post models.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// 关联表/评论/投票按外键级联删除
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return err
	}

	s.inv.PostDeleted(ctx, postID)

	if post.Filepath != "" {
		if err := os.Remove(post.Filepath); err != nil && !os.IsNotExist(err) {
			log.Printf("删除帖子 %d 的磁盘文件失败（忽略）: %v", postID, err)
		}
	}
	return nil
}

// BatchUpdateTags 批量加/减/重置标签。只有实际存在的帖子参与更新和失效，
// 不存在的 id 原样报告。
func (s *PostService) BatchUpdateTags(ctx context.Context, postIDs []uint, tagNames []string, action string) (*BatchTagResult, error) {
	if action != "add" && action != "remove" && action != "set" {
		return nil, newValidationError("invalid action %q, allowed: add, remove, set", action)
	}
	if len(postIDs) == 0 {
		return nil, newValidationError("post_ids cannot be empty")
	}

	var foundIDs []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("id IN ?", postIDs).Pluck("id", &foundIDs).Error; err != nil {
			return err
		}
		if len(foundIDs) == 0 {
			return nil
		}

		var tagIDs []uint
		if action == "remove" {
			// 删除只需要已存在的标签
			names := lo.FilterMap(tagNames, func(raw string, _ int) (string, bool) {
				name := NormalizeTagName(raw)
				return name, name != ""
			})
			if err := tx.Model(&models.Tag{}).Where("name IN ?", names).Pluck("id", &tagIDs).Error; err != nil {
				return err
			}
		} else {
			for _, rawName := range tagNames {
				if NormalizeTagName(rawName) == "" {
					continue
				}
				tag, err := s.tags.GetOrCreateTag(tx, rawName)
				if err != nil {
					return err
				}
				tagIDs = append(tagIDs, tag.ID)
			}
		}

		if action == "set" {
			if err := tx.Where("post_id IN ?", foundIDs).Delete(&models.PostTag{}).Error; err != nil {
				return err
			}
		}
		if action == "remove" {
			if len(tagIDs) == 0 {
				return nil
			}
			return tx.Where("post_id IN ? AND tag_id IN ?", foundIDs, tagIDs).Delete(&models.PostTag{}).Error
		}
		for _, postID := range foundIDs {
			for _, tagID := range tagIDs {
				if err := tx.Exec("INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
					postID, tagID).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 只有确实存在的帖子触发失效；一个都没找到就什么都不清
	s.inv.PostsTagged(ctx, foundIDs...)

	missing, _ := lo.Difference(postIDs, foundIDs)
	return &BatchTagResult{
		UpdatedCount: len(foundIDs),
		FoundIDs:     foundIDs,
		MissingIDs:   missing,
	}, nil
}
