package models

import (
	"encoding/json"
	"log"
)

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// PostTag 帖子与标签的关联表，复合主键保证 (post,tag) 去重
type PostTag struct {
	PostID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
	Post   Post `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Tag    Tag  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (PostTag) TableName() string {
	return "post_tags"
}

// TagWithCount 标签目录条目
type TagWithCount struct {
	Tag       Tag   `json:"tag"`
	PostCount int64 `json:"post_count"`
}

// TagList 反序列化时兼容历史缓存里的多种形态：
// JSON 字符串（内容是标签数组）、原生对象数组、字符串数组。
// 无法识别的元素丢弃并记日志，不让整次读取失败。
type TagList []Tag

func (l *TagList) UnmarshalJSON(data []byte) error {
	*l = decodeTagPayload(data)
	return nil
}

func decodeTagPayload(data []byte) []Tag {
	tags := []Tag{}
	if len(data) == 0 || string(data) == "null" {
		return tags
	}

	// 形态一：字符串包裹的数组（缓存二次编码的产物）
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		if asString == "" {
			return tags
		}
		return decodeTagPayload([]byte(asString))
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		log.Printf("tags payload 不是数组也不是字符串，丢弃: %.100s", data)
		return tags
	}

	for _, el := range elements {
		if tag, ok := decodeTagElement(el); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// decodeTagElement 按固定优先级解析单个元素：对象 → 对象的 JSON 字符串 → 纯标签名
func decodeTagElement(el json.RawMessage) (Tag, bool) {
	var tag Tag
	if err := json.Unmarshal(el, &tag); err == nil && tag.Name != "" {
		return tag, true
	}

	var s string
	if err := json.Unmarshal(el, &s); err == nil {
		var nested Tag
		if err := json.Unmarshal([]byte(s), &nested); err == nil && nested.Name != "" {
			return nested, true
		}
		if s != "" {
			return Tag{Name: s}, true
		}
	}

	log.Printf("无法识别的 tag 元素，丢弃: %.100s", el)
	return Tag{}, false
}
