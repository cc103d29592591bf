package template

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/qiniu/reviewsync/pkg/models"
)

var duplicatePattern = regexp.MustCompile(`(?mi)^Duplicate of #(\d+)\s*$`)

// TeamResponse 队伍回应阶段的解析结果
// DuplicateOf 为 0 表示没有重复标记
type TeamResponse struct {
	Body         string
	DuplicateOf  int
	ParseFailure bool
}

// ParseTeamResponse 在评论列表中查找队伍回应 section
// 取第一条包含 "# Team's Response" 标题的评论；标题存在但正文为空时
// 标记解析失败，完全找不到标题同样标记失败
func ParseTeamResponse(comments []*models.Comment) *TeamResponse {
	for _, c := range comments {
		if c == nil {
			continue
		}
		content, ok := sectionAfter(c.Body, teamResponsePattern)
		if !ok {
			continue
		}

		result := &TeamResponse{}
		if m := duplicatePattern.FindStringSubmatch(content); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				result.DuplicateOf = n
			}
			content = strings.TrimSpace(duplicatePattern.ReplaceAllString(content, ""))
		}

		result.Body = content
		if content == "" && result.DuplicateOf == 0 {
			result.ParseFailure = true
		}
		return result
	}

	return &TeamResponse{ParseFailure: true}
}
