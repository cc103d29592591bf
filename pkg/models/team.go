package models

// Team 一个参赛队伍，来自外部的 session 配置
// ID 形如 "CS2103T-W12-3"：课程-辅导班-队伍编号
type Team struct {
	ID      string   `json:"id"`
	Members []string `json:"members,omitempty"`
}
