// Package issue 把远端 record、标签属性和模板解析结果组装成领域对象。
package issue

import (
	"time"

	"github.com/qiniu/reviewsync/internal/hidden"
	"github.com/qiniu/reviewsync/internal/label"
	"github.com/qiniu/reviewsync/internal/template"
	"github.com/qiniu/reviewsync/pkg/models"
)

// Issue 反规范化的 issue 领域对象
// 按阶段从一个 Record 构造；阶段决定填充哪些模板字段
type Issue struct {
	ID          int64  `json:"id"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`

	HiddenData map[string]string `json:"hidden_data,omitempty"`

	Severity   string `json:"severity,omitempty"`
	Type       string `json:"type,omitempty"`
	Response   string `json:"response,omitempty"`
	Status     string `json:"status,omitempty"`
	Pending    int    `json:"pending,omitempty"`
	Duplicated bool   `json:"duplicated"`
	Unsure     bool   `json:"unsure"`
	TeamID     string `json:"team_id,omitempty"`

	Assignees []string     `json:"assignees,omitempty"`
	Milestone string       `json:"milestone,omitempty"`
	Team      *models.Team `json:"team,omitempty"`
	Phase     models.Phase `json:"phase"`

	// 队伍回应阶段
	TeamResponse             string `json:"team_response,omitempty"`
	DuplicateOf              int    `json:"duplicate_of,omitempty"`
	TeamResponseParseFailure bool   `json:"team_response_parse_failure,omitempty"`

	// 测试者回应阶段
	Verdicts           []template.Verdict `json:"verdicts,omitempty"`
	TeamAccepted       bool               `json:"team_accepted,omitempty"`
	TesterParseFailure bool               `json:"tester_parse_failure,omitempty"`

	// 导师仲裁阶段
	Disputes               []template.Dispute    `json:"disputes,omitempty"`
	Resolutions            []template.Resolution `json:"resolutions,omitempty"`
	DisputesParseFailure   bool                  `json:"disputes_parse_failure,omitempty"`
	ModerationParseFailure bool                  `json:"moderation_parse_failure,omitempty"`

	Comments      []*models.Comment `json:"comments,omitempty"`
	State         string            `json:"state"`
	IsPullRequest bool              `json:"is_pull_request"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	ClosedAt      *time.Time        `json:"closed_at,omitempty"`

	// 原始 record，保留用于 Clone 重新构造，不被任何更新操作修改
	record *models.Record
}

// New 按阶段从远端 record 构造 Issue
// 未知阶段只填充基础字段，得到一个降级的 Issue
func New(record *models.Record, phase models.Phase, team *models.Team) *Issue {
	i := newBase(record, phase)

	switch phase {
	case models.PhaseBugReporting:
		// 上报阶段没有模板，全部信息来自标签和隐藏元数据

	case models.PhaseTeamResponse:
		i.Team = team
		resp := template.ParseTeamResponse(record.Comments)
		i.TeamResponse = resp.Body
		i.DuplicateOf = resp.DuplicateOf
		i.TeamResponseParseFailure = resp.ParseFailure

	case models.PhaseTesterResponse:
		resp := template.ParseTesterResponse(record.Comments)
		i.Verdicts = resp.Verdicts
		i.TeamAccepted = resp.TeamAccepted
		i.TesterParseFailure = resp.ParseFailure

	case models.PhaseModeration:
		i.Team = team
		// 对剥离了隐藏块的可见正文做解析，元数据不参与文法
		disputes := template.ParseDisputes(i.Description)
		i.Disputes = disputes.Disputes
		i.DisputesParseFailure = disputes.ParseFailure
		todo := template.ParseResolutions(record.LatestComment())
		i.Resolutions = template.ZipResolutions(todo.Resolutions, i.Disputes)
		i.ModerationParseFailure = todo.ParseFailure
	}

	return i
}

func newBase(record *models.Record, phase models.Phase) *Issue {
	description, data := hidden.Decode(record.Body)
	attrs := label.FromLabels(record.Labels)

	return &Issue{
		ID:            record.ID,
		Number:        record.Number,
		Title:         record.Title,
		Description:   description,
		HiddenData:    data,
		Severity:      attrs.Severity,
		Type:          attrs.Type,
		Response:      attrs.Response,
		Status:        attrs.Status,
		Pending:       attrs.Pending,
		Duplicated:    attrs.Duplicated,
		Unsure:        attrs.Unsure,
		TeamID:        attrs.TeamID,
		Assignees:     append([]string(nil), record.Assignees...),
		Milestone:     record.Milestone,
		Phase:         phase,
		Comments:      record.Comments,
		State:         record.State,
		IsPullRequest: record.IsPullRequest,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
		ClosedAt:      record.ClosedAt,
		record:        record,
	}
}

// Clone 基于原始 record 重新构造一个全新的 Issue
// 用于在推测性本地编辑之前留快照，与原对象不共享可变子结构
func (i *Issue) Clone(phase models.Phase) *Issue {
	return New(i.record, phase, i.Team)
}

// Record 返回构造时的原始 record
func (i *Issue) Record() *models.Record {
	return i.record
}

// Attributes 把 issue 上标签承载的属性收集回编码用的结构
func (i *Issue) Attributes() label.Attributes {
	return label.Attributes{
		Severity:   i.Severity,
		Type:       i.Type,
		Response:   i.Response,
		Status:     i.Status,
		Pending:    i.Pending,
		Duplicated: i.Duplicated,
		Unsure:     i.Unsure,
		TeamID:     i.TeamID,
	}
}

// ApplyTesterResponse 用一条新评论就地更新测试者裁决
// 重新对单条评论运行模板，结果整体替换现有列表，按下标对齐
func (i *Issue) ApplyTesterResponse(comment *models.Comment) {
	resp := template.ParseTesterResponse([]*models.Comment{comment})
	i.Verdicts = resp.Verdicts
	i.TeamAccepted = i.TeamAccepted || resp.TeamAccepted
	i.TesterParseFailure = resp.ParseFailure
}

// ApplyDisputeResolution 用一条新评论就地更新导师裁决
// 裁决与既有异议按下标配对，异议描述不从评论重新读取
func (i *Issue) ApplyDisputeResolution(comment *models.Comment) {
	todo := template.ParseResolutions(comment)
	i.Resolutions = template.ZipResolutions(todo.Resolutions, i.Disputes)
	i.ModerationParseFailure = todo.ParseFailure
}

// NumOfUnresolvedDisputes 未裁决的异议数量
func (i *Issue) NumOfUnresolvedDisputes() int {
	count := 0
	for idx := range i.Resolutions {
		if !i.Resolutions[idx].IsDone() {
			count++
		}
	}
	return count
}

// SessionID 隐藏元数据中的 session 标识，没有时为空串
func (i *Issue) SessionID() string {
	return i.HiddenData[hidden.KeySession]
}
