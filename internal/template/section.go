// Package template 实现各评审阶段的评论模板解析。
// 模板是基于 markdown 标题的固定文法，也是持久化在 GitHub 上的线上格式，
// 只允许追加新的可选 section，不允许破坏旧格式。
// 所有解析器都是全函数：任何输入都返回结果，解析问题通过失败标志表达。
package template

import (
	"regexp"
	"strings"
)

// 各阶段的 section 标题
const (
	HeaderTeamResponse  = "# Team's Response"
	HeaderTesterVerify  = "# Items for the Tester to Verify"
	HeaderTeamAccepted  = "# Team Accepted"
	HeaderDisputes      = "# Disputes"
	HeaderModeration    = "# Tutor Moderation"
)

var (
	topHeaderPattern  = regexp.MustCompile(`(?m)^# .*$`)
	itemHeaderPattern = regexp.MustCompile(`(?m)^## :question: (.*)$`)

	disagreePattern = regexp.MustCompile(`(?m)^- \[([ xX])\] I disagree\s*$`)
	donePattern     = regexp.MustCompile(`(?m)^- \[([ xX])\] Done\s*$`)

	teamResponsePattern = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(HeaderTeamResponse) + `\s*$`)
	testerVerifyPattern = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(HeaderTesterVerify) + `\s*$`)
	teamAcceptedPattern = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(HeaderTeamAccepted) + `\s*$`)
	disputesPattern     = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(HeaderDisputes) + `\s*$`)
	moderationPattern   = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(HeaderModeration) + `\s*$`)
)

// section 一个带标题的条目块
type section struct {
	title string
	body  string
}

// sectionAfter 截取某个一级标题之后、下一个一级标题之前的内容
func sectionAfter(body string, header *regexp.Regexp) (string, bool) {
	loc := header.FindStringIndex(body)
	if loc == nil {
		return "", false
	}
	rest := body[loc[1]:]
	if next := topHeaderPattern.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	return strings.TrimSpace(rest), true
}

// splitItems 把 section 内容按 "## :question: <标题>" 拆成条目
func splitItems(text string) []section {
	locs := itemHeaderPattern.FindAllStringSubmatchIndex(text, -1)
	items := make([]section, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		items = append(items, section{
			title: strings.TrimSpace(text[loc[2]:loc[3]]),
			body:  strings.TrimSpace(text[loc[1]:end]),
		})
	}
	return items
}

// checkbox 查找形如 "- [x] <label>" 的勾选框，返回是否勾选以及是否存在
func checkbox(text string, pattern *regexp.Regexp) (checked, found bool) {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return false, false
	}
	return m[1] != " ", true
}
