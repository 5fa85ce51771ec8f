package services

import (
	"strings"
	"testing"
)

func TestNormalizeTagName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Cat", "cat"},
		{" Cat Dog ", "cat_dog"},
		{"BEACH", "beach"},
		{"already_fine", "already_fine"},
		{"  ", ""},
		{"", ""},
		{"Multi Word Tag Name", "multi_word_tag_name"},
	}
	for _, c := range cases {
		if got := NormalizeTagName(c.in); got != c.want {
			t.Errorf("NormalizeTagName(%q): expected %q, got %q", c.in, c.want, got)
		}
	}
}

func TestTagInsertToleratesConflict(t *testing.T) {
	// 标签插入在事务内输掉并发竞争时必须继续走重查，
	// 普通 INSERT 的唯一冲突会让整个事务变成 aborted
	if !strings.Contains(tagInsertSQL, "ON CONFLICT (name) DO NOTHING") {
		t.Errorf("tag insert must swallow unique conflicts, got: %s", tagInsertSQL)
	}
}
