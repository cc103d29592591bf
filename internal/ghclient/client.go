// Package ghclient 封装对 GitHub 的全部远端访问：
// 批量读取走 GraphQL（一次查询带回评论、标签、负责人），
// 写操作走 REST。传输错误原样上抛给调用方，这里不做重试。
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/qiniu/reviewsync/internal/hidden"
	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/log"
	"github.com/shurcooL/githubv4"
)

type Client struct {
	rest     *github.Client
	graphql  *githubv4.Client
	owner    string
	repo     string
	pageSize int

	sessionID     string
	clientVersion string
}

// NewClient 基于同一个带认证的 HTTP 客户端创建 REST 和 GraphQL 客户端
func NewClient(httpClient *http.Client, owner, repo string, pageSize int) *Client {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &Client{
		rest:     github.NewClient(httpClient),
		graphql:  githubv4.NewClient(httpClient),
		owner:    owner,
		repo:     repo,
		pageSize: pageSize,
	}
}

// SetSessionMeta 设置新建 record 时注入正文的会话元数据
// sessionID 为空时不注入
func (c *Client) SetSessionMeta(sessionID, version string) {
	c.sessionID = sessionID
	c.clientVersion = version
}

// FetchRecord 拉取单条 record 及其全部评论
func (c *Client) FetchRecord(ctx context.Context, number int) (*models.Record, error) {
	ghIssue, resp, err := c.rest.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			err = ErrRecordNotFound
		}
		return nil, NewClientError("fetch_record", fmt.Sprintf("#%d", number), err)
	}

	comments, err := c.listComments(ctx, number)
	if err != nil {
		return nil, err
	}

	return convertIssue(ghIssue, comments), nil
}

// CreateRecord 创建 record，正文末尾自动附加会话元数据块
func (c *Client) CreateRecord(ctx context.Context, title, body string, labels []string) (*models.Record, error) {
	if c.sessionID != "" {
		encoded, err := hidden.EncodeSession(body, c.sessionID, c.clientVersion)
		if err != nil {
			return nil, NewClientError("create_record", title, err)
		}
		body = encoded
	}

	req := &github.IssueRequest{
		Title: &title,
		Body:  &body,
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}

	ghIssue, _, err := c.rest.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return nil, NewClientError("create_record", title, err)
	}

	log.Infof("Created issue #%d: %s", ghIssue.GetNumber(), title)
	return convertIssue(ghIssue, nil), nil
}

// UpdateRecord 更新 record，整体覆盖给定的字段
// assignees 非 nil 时表示要改负责人，先通过 CheckAssignable 再提交
func (c *Client) UpdateRecord(ctx context.Context, number int, title, body string, labels []string, assignees []string) (*models.Record, error) {
	if assignees != nil {
		if err := c.CheckAssignable(ctx, assignees); err != nil {
			return nil, err
		}
	}

	req := &github.IssueRequest{
		Title:  &title,
		Body:   &body,
		Labels: &labels,
	}
	if assignees != nil {
		req.Assignees = &assignees
	}

	ghIssue, _, err := c.rest.Issues.Edit(ctx, c.owner, c.repo, number, req)
	if err != nil {
		return nil, NewClientError("update_record", fmt.Sprintf("#%d", number), err)
	}

	log.Infof("Updated issue #%d", number)
	return convertIssue(ghIssue, nil), nil
}

// CloseRecord 关闭 record
func (c *Client) CloseRecord(ctx context.Context, number int) (*models.Record, error) {
	state := "closed"
	ghIssue, _, err := c.rest.Issues.Edit(ctx, c.owner, c.repo, number, &github.IssueRequest{State: &state})
	if err != nil {
		return nil, NewClientError("close_record", fmt.Sprintf("#%d", number), err)
	}

	log.Infof("Closed issue #%d", number)
	return convertIssue(ghIssue, nil), nil
}

// AddComment 在 record 下新增评论
func (c *Client) AddComment(ctx context.Context, number int, body string) (*models.Comment, error) {
	comment, _, err := c.rest.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{Body: &body})
	if err != nil {
		return nil, NewClientError("add_comment", fmt.Sprintf("#%d", number), err)
	}
	return convertComment(comment), nil
}

// UpdateComment 整体覆盖一条已有评论的正文
func (c *Client) UpdateComment(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	updated, _, err := c.rest.Issues.EditComment(ctx, c.owner, c.repo, comment.ID, &github.IssueComment{Body: &comment.Body})
	if err != nil {
		return nil, NewClientError("update_comment", strconv.FormatInt(comment.ID, 10), err)
	}
	return convertComment(updated), nil
}

// CheckAssignable 校验所有 login 都可以被指派到本仓库
// 任何一个不可指派就整体失败，调用方不应继续提交负责人变更
func (c *Client) CheckAssignable(ctx context.Context, logins []string) error {
	for _, login := range logins {
		ok, _, err := c.rest.Issues.IsAssignee(ctx, c.owner, c.repo, login)
		if err != nil {
			return NewClientError("check_assignable", login, err)
		}
		if !ok {
			return NotAssignableError(login)
		}
	}
	return nil
}

// listComments 分页拉取 record 的全部评论，按创建时间升序
func (c *Client) listComments(ctx context.Context, number int) ([]*github.IssueComment, error) {
	sort := "created"
	direction := "asc"
	opts := &github.IssueListCommentsOptions{
		Sort:      &sort,
		Direction: &direction,
		ListOptions: github.ListOptions{
			PerPage: c.pageSize,
		},
	}

	var all []*github.IssueComment
	for {
		comments, resp, err := c.rest.Issues.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, NewClientError("list_comments", fmt.Sprintf("#%d", number), err)
		}

		all = append(all, comments...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}
