package template

import (
	"strings"

	"github.com/qiniu/reviewsync/pkg/models"
)

const reasonMarker = "**Reason for disagreement:**"

// Verdict 测试者对单个判定项的裁决
type Verdict struct {
	Title    string `json:"title"`
	Disagree bool   `json:"disagree"`
	Reason   string `json:"reason,omitempty"`
}

// TesterResponse 测试者回应阶段的解析结果，由两个独立的子模板组成：
// 判定项列表和 "队伍已接受" 标记。只有两个子模板都落空才算解析失败
type TesterResponse struct {
	Verdicts     []Verdict
	TeamAccepted bool
	ParseFailure bool
}

// ParseTesterResponse 解析测试者回应评论
func ParseTesterResponse(comments []*models.Comment) *TesterResponse {
	result := &TesterResponse{}
	foundVerdicts := false

	for _, c := range comments {
		if c == nil {
			continue
		}
		if content, ok := sectionAfter(c.Body, testerVerifyPattern); ok && !foundVerdicts {
			result.Verdicts = parseVerdicts(content)
			foundVerdicts = true
		}
		if _, ok := sectionAfter(c.Body, teamAcceptedPattern); ok {
			result.TeamAccepted = true
		}
	}

	result.ParseFailure = !foundVerdicts && !result.TeamAccepted
	return result
}

func parseVerdicts(content string) []Verdict {
	items := splitItems(content)
	verdicts := make([]Verdict, 0, len(items))
	for _, item := range items {
		v := Verdict{Title: item.title}
		v.Disagree, _ = checkbox(item.body, disagreePattern)
		if idx := strings.Index(item.body, reasonMarker); idx >= 0 {
			v.Reason = strings.TrimSpace(item.body[idx+len(reasonMarker):])
		}
		verdicts = append(verdicts, v)
	}
	return verdicts
}
