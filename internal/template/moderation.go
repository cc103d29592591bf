package template

import (
	"strings"

	"github.com/qiniu/reviewsync/pkg/models"
)

// Dispute 测试者在 issue 正文里提出的一条异议
type Dispute struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Resolution 导师对一条异议的裁决
// Description 来自按位置配对的 Dispute，不在评论里重复存储
type Resolution struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Remarks     string `json:"remarks"`
	Done        bool   `json:"done"`
}

// IsDone 该异议是否已裁决
func (r *Resolution) IsDone() bool {
	return r.Done
}

// DisputeSet 从 issue 正文解析出的异议列表
type DisputeSet struct {
	Disputes     []Dispute
	ParseFailure bool
}

// ResolutionSet 从导师评论解析出的裁决列表
type ResolutionSet struct {
	Resolutions  []Resolution
	ParseFailure bool
}

// ParseDisputes 解析 issue 正文中 "# Disputes" 之后的异议条目
func ParseDisputes(issueBody string) *DisputeSet {
	content, ok := sectionAfter(issueBody, disputesPattern)
	if !ok {
		return &DisputeSet{ParseFailure: true}
	}

	items := splitItems(content)
	if len(items) == 0 {
		return &DisputeSet{ParseFailure: true}
	}

	disputes := make([]Dispute, 0, len(items))
	for _, item := range items {
		disputes = append(disputes, Dispute{
			Title:       item.title,
			Description: item.body,
		})
	}
	return &DisputeSet{Disputes: disputes}
}

// ParseResolutions 解析导师评论中 "# Tutor Moderation" 之后的裁决条目
func ParseResolutions(comment *models.Comment) *ResolutionSet {
	if comment == nil {
		return &ResolutionSet{ParseFailure: true}
	}
	content, ok := sectionAfter(comment.Body, moderationPattern)
	if !ok {
		return &ResolutionSet{ParseFailure: true}
	}

	items := splitItems(content)
	if len(items) == 0 {
		return &ResolutionSet{ParseFailure: true}
	}

	resolutions := make([]Resolution, 0, len(items))
	for _, item := range items {
		r := Resolution{Title: item.title}
		r.Done, _ = checkbox(item.body, donePattern)
		remarks := donePattern.ReplaceAllString(item.body, "")
		r.Remarks = strings.TrimSpace(remarks)
		resolutions = append(resolutions, r)
	}
	return &ResolutionSet{Resolutions: resolutions}
}

// ZipResolutions 按位置把异议描述配对到裁决上：
// resolutions[i] 的描述取自 disputes[i]。两个列表依赖评论修订之间
// 保持相同的长度和顺序，乱序或增删会把描述配到错误的裁决上
func ZipResolutions(resolutions []Resolution, disputes []Dispute) []Resolution {
	zipped := make([]Resolution, len(resolutions))
	copy(zipped, resolutions)
	for i := range zipped {
		if i < len(disputes) {
			zipped[i].Description = disputes[i].Description
		}
	}
	return zipped
}
