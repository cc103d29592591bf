// Package label 在扁平的 "namespace.value" 标签串和类型化属性之间转换。
package label

import (
	"strconv"
	"strings"

	"github.com/qiniu/reviewsync/pkg/models"
)

// 标签命名空间
const (
	NamespaceSeverity = "severity"
	NamespaceType     = "type"
	NamespaceResponse = "response"
	NamespaceStatus   = "status"
	NamespacePending  = "pending"
	NamespaceTutorial = "tutorial"
	NamespaceTeam     = "team"

	// 布尔标志没有 value 部分，整个标签就是命名空间本身
	LabelDuplicate = "duplicate"
	LabelUnsure    = "unsure"
)

// Attributes issue 上由标签承载的属性集合
// 字符串属性为空表示未设置；Pending 只有大于 0 时才会被编码
type Attributes struct {
	Severity   string
	Type       string
	Response   string
	Status     string
	Pending    int
	Duplicated bool
	Unsure     bool
	TeamID     string
}

// ToLabels 把属性编码为标签串列表
// 队伍标签只在 bug 上报阶段产生：队伍 ID 按最后一个连字符拆成
// tutorial.<课程>-<辅导班> 和 team.<编号> 两个标签
func ToLabels(attrs Attributes, phase models.Phase) []string {
	var labels []string

	if attrs.Severity != "" {
		labels = append(labels, NamespaceSeverity+"."+attrs.Severity)
	}
	if attrs.Type != "" {
		labels = append(labels, NamespaceType+"."+attrs.Type)
	}
	if attrs.Response != "" {
		labels = append(labels, NamespaceResponse+"."+attrs.Response)
	}
	if attrs.Status != "" {
		labels = append(labels, NamespaceStatus+"."+attrs.Status)
	}
	if attrs.Pending > 0 {
		labels = append(labels, NamespacePending+"."+strconv.Itoa(attrs.Pending))
	}
	if attrs.Duplicated {
		labels = append(labels, LabelDuplicate)
	}
	if attrs.Unsure {
		labels = append(labels, LabelUnsure)
	}
	if phase == models.PhaseBugReporting && attrs.TeamID != "" {
		if tutorial, team, ok := SplitTeamID(attrs.TeamID); ok {
			labels = append(labels,
				NamespaceTutorial+"."+tutorial,
				NamespaceTeam+"."+team)
		}
	}

	return labels
}

// FromLabels 把标签串列表还原为属性，ToLabels 的逆操作
// 未知命名空间直接忽略；命名空间缺失表示属性未设置
func FromLabels(labels []string) Attributes {
	var attrs Attributes
	var tutorial, team string

	for _, l := range labels {
		switch l {
		case LabelDuplicate:
			attrs.Duplicated = true
			continue
		case LabelUnsure:
			attrs.Unsure = true
			continue
		}

		namespace, value, found := strings.Cut(l, ".")
		if !found {
			continue
		}
		switch namespace {
		case NamespaceSeverity:
			attrs.Severity = value
		case NamespaceType:
			attrs.Type = value
		case NamespaceResponse:
			attrs.Response = value
		case NamespaceStatus:
			attrs.Status = value
		case NamespacePending:
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				attrs.Pending = n
			}
		case NamespaceTutorial:
			tutorial = value
		case NamespaceTeam:
			team = value
		}
	}

	if tutorial != "" && team != "" {
		attrs.TeamID = tutorial + "-" + team
	}

	return attrs
}

// SplitTeamID 按最后一个连字符把队伍 ID 拆为辅导班和队伍编号
// ID 至少要有两个连字符，例如 "CS2103T-W12-3" -> ("CS2103T-W12", "3")
func SplitTeamID(id string) (tutorial, team string, ok bool) {
	if strings.Count(id, "-") < 2 {
		return "", "", false
	}
	idx := strings.LastIndex(id, "-")
	tutorial, team = id[:idx], id[idx+1:]
	if tutorial == "" || team == "" {
		return "", "", false
	}
	return tutorial, team, true
}
