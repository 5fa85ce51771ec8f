package services

import "testing"

func TestDecideVote(t *testing.T) {
	up, down := 1, -1
	cases := []struct {
		name     string
		existing *int
		newType  int
		want     voteAction
	}{
		{"首次投票", nil, 1, voteInsert},
		{"首次踩", nil, -1, voteInsert},
		{"重复点赞取消", &up, 1, voteRemove},
		{"重复点踩取消", &down, -1, voteRemove},
		{"赞改踩", &up, -1, voteUpdate},
		{"踩改赞", &down, 1, voteUpdate},
	}
	for _, c := range cases {
		if got := decideVote(c.existing, c.newType); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}
