package models

import "time"

// Comment 远端 tracker 上的一条评论
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record 远端 tracker 的原始 issue 表示，只读输入
// 由 ghclient 从 REST/GraphQL 响应转换而来
type Record struct {
	ID            int64      `json:"id"`
	Number        int        `json:"number"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Comments      []*Comment `json:"comments"`
	Labels        []string   `json:"labels"`
	Assignees     []string   `json:"assignees"`
	Milestone     string     `json:"milestone"`
	State         string     `json:"state"`
	IsPullRequest bool       `json:"is_pull_request"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
}

// RecordFilter 批量拉取的过滤条件
type RecordFilter struct {
	State  string   `json:"state,omitempty"`  // open / closed / all，空等同 all
	Labels []string `json:"labels,omitempty"` // 必须同时带有的标签
}

// LatestComment 返回最新的评论，没有评论时返回 nil
func (r *Record) LatestComment() *Comment {
	if len(r.Comments) == 0 {
		return nil
	}
	latest := r.Comments[0]
	for _, c := range r.Comments[1:] {
		if c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	return latest
}
