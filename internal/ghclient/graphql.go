package ghclient

import (
	"context"

	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/qiniu/x/log"
	"github.com/shurcooL/githubv4"
)

// issueNode GraphQL issue 节点，单次查询带回同步需要的全部子资源
type issueNode struct {
	DatabaseID githubv4.Int
	Number     githubv4.Int
	Title      githubv4.String
	Body       githubv4.String
	State      githubv4.String
	CreatedAt  githubv4.DateTime
	UpdatedAt  githubv4.DateTime
	ClosedAt   githubv4.DateTime
	Milestone  struct {
		Title githubv4.String
	}
	Labels struct {
		Nodes []struct {
			Name githubv4.String
		}
	} `graphql:"labels(first: 50)"`
	Assignees struct {
		Nodes []struct {
			Login githubv4.String
		}
	} `graphql:"assignees(first: 20)"`
	Comments struct {
		Nodes []struct {
			DatabaseID githubv4.Int
			Author     struct {
				Login githubv4.String
			}
			Body      githubv4.String
			CreatedAt githubv4.DateTime
			UpdatedAt githubv4.DateTime
		}
	} `graphql:"comments(first: 100)"`
}

// recordsQuery 分页列出仓库 issue 的查询
// issues 连接只返回 issue，不会混入 pull request
type recordsQuery struct {
	Repository struct {
		Issues struct {
			Nodes    []issueNode
			PageInfo struct {
				EndCursor   githubv4.String
				HasNextPage githubv4.Boolean
			}
		} `graphql:"issues(first: $pageSize, after: $cursor, states: $states, labels: $labels, orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
	RateLimit struct {
		Limit     githubv4.Int
		Cost      githubv4.Int
		Remaining githubv4.Int
	}
}

// FetchRecords 用 GraphQL 分页拉取匹配过滤条件的全部 record
// 返回空列表表示远端没有匹配的 issue 或没有变化，不代表任何删除语义
func (c *Client) FetchRecords(ctx context.Context, filter models.RecordFilter) ([]*models.Record, error) {
	variables := map[string]interface{}{
		"owner":    githubv4.String(c.owner),
		"name":     githubv4.String(c.repo),
		"pageSize": githubv4.Int(c.pageSize),
		"cursor":   (*githubv4.String)(nil),
		"states":   filterStates(filter.State),
		"labels":   filterLabels(filter.Labels),
	}

	var records []*models.Record
	for {
		var query recordsQuery
		if err := c.graphql.Query(ctx, &query, variables); err != nil {
			return nil, NewClientError("fetch_records", c.owner+"/"+c.repo, err)
		}

		for i := range query.Repository.Issues.Nodes {
			records = append(records, convertIssueNode(&query.Repository.Issues.Nodes[i]))
		}

		log.Debugf("GraphQL page fetched: %d issues, cost %d, remaining %d/%d",
			len(query.Repository.Issues.Nodes),
			query.RateLimit.Cost, query.RateLimit.Remaining, query.RateLimit.Limit)

		if !query.Repository.Issues.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(query.Repository.Issues.PageInfo.EndCursor)
	}

	return records, nil
}

func filterStates(state string) []githubv4.IssueState {
	switch state {
	case "open":
		return []githubv4.IssueState{githubv4.IssueStateOpen}
	case "closed":
		return []githubv4.IssueState{githubv4.IssueStateClosed}
	default:
		return []githubv4.IssueState{githubv4.IssueStateOpen, githubv4.IssueStateClosed}
	}
}

func filterLabels(labels []string) *[]githubv4.String {
	if len(labels) == 0 {
		return nil
	}
	converted := make([]githubv4.String, len(labels))
	for i, l := range labels {
		converted[i] = githubv4.String(l)
	}
	return &converted
}

func convertIssueNode(node *issueNode) *models.Record {
	record := &models.Record{
		ID:        int64(node.DatabaseID),
		Number:    int(node.Number),
		Title:     string(node.Title),
		Body:      string(node.Body),
		State:     stateToLower(string(node.State)),
		Milestone: string(node.Milestone.Title),
		CreatedAt: node.CreatedAt.Time,
		UpdatedAt: node.UpdatedAt.Time,
	}

	if !node.ClosedAt.Time.IsZero() {
		closed := node.ClosedAt.Time
		record.ClosedAt = &closed
	}

	for _, l := range node.Labels.Nodes {
		record.Labels = append(record.Labels, string(l.Name))
	}
	for _, a := range node.Assignees.Nodes {
		record.Assignees = append(record.Assignees, string(a.Login))
	}
	for _, c := range node.Comments.Nodes {
		record.Comments = append(record.Comments, &models.Comment{
			ID:        int64(c.DatabaseID),
			Author:    string(c.Author.Login),
			Body:      string(c.Body),
			CreatedAt: c.CreatedAt.Time,
			UpdatedAt: c.UpdatedAt.Time,
		})
	}

	return record
}

// stateToLower GraphQL 返回 OPEN/CLOSED，统一成 REST 风格的小写
func stateToLower(state string) string {
	switch state {
	case "OPEN":
		return "open"
	case "CLOSED":
		return "closed"
	default:
		return state
	}
}
