package services

import (
	"context"
	"errors"
	"strings"

	"spectra/internal/cache"
	"spectra/internal/config"
	"spectra/internal/models"

	"gorm.io/gorm"
)

// NormalizeTagName 标签归一化：去首尾空白、小写、内部空格转下划线
func NormalizeTagName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	return strings.ReplaceAll(name, " ", "_")
}

type TagService struct {
	db    *gorm.DB
	cache cache.Store
	cfg   *config.Config
}

func NewTagService(db *gorm.DB, store cache.Store, cfg *config.Config) *TagService {
	return &TagService{db: db, cache: store, cfg: cfg}
}

// tagInsertSQL 必须吞掉唯一冲突：在同一个事务里捕获 23505 再重查行不通，
// PG 会把整个事务置为 aborted，后续查询只会报 25P02
const tagInsertSQL = "INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING"

// GetOrCreateTag 在传入的事务里按归一化名称查找或创建标签。
// 并发创建同名标签时依赖唯一约束去重，不加应用层锁。
func (s *TagService) GetOrCreateTag(tx *gorm.DB, rawName string) (models.Tag, error) {
	name := NormalizeTagName(rawName)
	if name == "" {
		return models.Tag{}, newValidationError("tag name cannot be empty")
	}

	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, err
	}

	if err := tx.Exec(tagInsertSQL, name).Error; err != nil {
		return models.Tag{}, err
	}
	// 无论是本次插入还是并发方先建好，这里都能查到
	if err := tx.Where("name = ?", name).First(&tag).Error; err != nil {
		return models.Tag{}, err
	}
	return tag, nil
}

// AllTagsWithCounts 全量标签目录带帖子计数。变化慢，TTL 放宽一倍，
// 不参与写失效，到期自然刷新。
func (s *TagService) AllTagsWithCounts(ctx context.Context) ([]models.TagWithCount, error) {
	return cache.FetchOrLoad(ctx, s.cache, cache.TagCatalogKey, s.cfg.TagCacheTTL,
		func(ctx context.Context) ([]models.TagWithCount, error) {
			type tagCountRow struct {
				ID        uint
				Name      string
				PostCount int64
			}
			var rows []tagCountRow
			err := s.db.WithContext(ctx).Raw(`
				SELECT t.id, t.name, COUNT(pt.post_id) AS post_count
				FROM tags t
				LEFT JOIN post_tags pt ON pt.tag_id = t.id
				GROUP BY t.id, t.name
				ORDER BY t.name`).Scan(&rows).Error
			if err != nil {
				return nil, err
			}
			result := make([]models.TagWithCount, 0, len(rows))
			for _, row := range rows {
				result = append(result, models.TagWithCount{
					Tag:       models.Tag{ID: row.ID, Name: row.Name},
					PostCount: row.PostCount,
				})
			}
			return result, nil
		})
}
