package models

import (
	"reflect"
	"strings"
	"testing"
)

func TestVoteTargetsCascadeOnDelete(t *testing.T) {
	// 帖子/评论删除后不能留下指向死 id 的投票行
	typ := reflect.TypeOf(Vote{})
	for _, name := range []string{"Post", "Comment", "User"} {
		field, ok := typ.FieldByName(name)
		if !ok {
			t.Fatalf("Vote is missing the %s relation", name)
		}
		if !strings.Contains(field.Tag.Get("gorm"), "OnDelete:CASCADE") {
			t.Errorf("Vote.%s must cascade on delete, tag: %s", name, field.Tag.Get("gorm"))
		}
	}
}
