package models

// Phase 评审工作流当前所处的阶段，决定使用哪些模板解析器
// 由外部管理配置切换，进程内全局生效，不随单个 issue 变化
type Phase string

const (
	PhaseBugReporting   Phase = "bugReporting"
	PhaseTeamResponse   Phase = "teamResponse"
	PhaseTesterResponse Phase = "testerResponse"
	PhaseModeration     Phase = "moderation"
)

// IsValidPhase 检查是否是已知的阶段
func IsValidPhase(phase Phase) bool {
	switch phase {
	case PhaseBugReporting, PhaseTeamResponse, PhaseTesterResponse, PhaseModeration:
		return true
	default:
		return false
	}
}
