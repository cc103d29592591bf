package ghclient

import (
	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/google/go-github/v58/github"
)

// convertIssue 把 REST 响应转换为 models.Record
func convertIssue(ghIssue *github.Issue, comments []*github.IssueComment) *models.Record {
	if ghIssue == nil {
		return nil
	}

	record := &models.Record{
		ID:            ghIssue.GetID(),
		Number:        ghIssue.GetNumber(),
		Title:         ghIssue.GetTitle(),
		Body:          ghIssue.GetBody(),
		State:         ghIssue.GetState(),
		Milestone:     ghIssue.GetMilestone().GetTitle(),
		IsPullRequest: ghIssue.PullRequestLinks != nil,
		CreatedAt:     ghIssue.GetCreatedAt().Time,
		UpdatedAt:     ghIssue.GetUpdatedAt().Time,
	}

	if ghIssue.ClosedAt != nil {
		closed := ghIssue.ClosedAt.Time
		record.ClosedAt = &closed
	}

	for _, l := range ghIssue.Labels {
		record.Labels = append(record.Labels, l.GetName())
	}
	for _, a := range ghIssue.Assignees {
		record.Assignees = append(record.Assignees, a.GetLogin())
	}
	for _, c := range comments {
		record.Comments = append(record.Comments, convertComment(c))
	}

	return record
}

// convertComment 把 REST 评论转换为 models.Comment
func convertComment(c *github.IssueComment) *models.Comment {
	if c == nil {
		return nil
	}
	return &models.Comment{
		ID:        c.GetID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
	}
}
