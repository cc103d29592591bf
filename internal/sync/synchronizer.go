package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/qiniu/reviewsync/internal/issue"
	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/qiniu/x/xlog"
)

// BatchFetcher 远端批量与单条读取，由 ghclient 实现
// 空的返回列表表示 "自上次轮询以来没有变化"，永远不表示 "全部删除"
type BatchFetcher interface {
	RecordFetcher
	FetchRecords(ctx context.Context, filter models.RecordFilter) ([]*models.Record, error)
}

// Synchronizer 把 store 和 poller 组合成完整的同步引擎
type Synchronizer struct {
	store   *Store
	poller  *Poller
	fetcher BatchFetcher
	build   Builder
	filter  models.RecordFilter

	sessionMu stdsync.Mutex
	sessionID string
}

// NewSynchronizer 创建同步引擎，不会自动开始轮询
func NewSynchronizer(fetcher BatchFetcher, build Builder, interval time.Duration, filter models.RecordFilter, sessionID string) *Synchronizer {
	s := &Synchronizer{
		store:     NewStore(fetcher, build),
		fetcher:   fetcher,
		build:     build,
		filter:    filter,
		sessionID: sessionID,
	}
	s.poller = NewPoller(interval, s.runCycle)
	return s
}

// Start 开始周期性同步
func (s *Synchronizer) Start() {
	s.poller.Start()
}

// Stop 停止周期性同步，不清空本地视图
func (s *Synchronizer) Stop() {
	s.poller.Stop()
}

// Get 读取单条 issue，语义见 Store.Get
func (s *Synchronizer) Get(ctx context.Context, number int) (*issue.Issue, error) {
	return s.store.Get(ctx, number)
}

// Snapshot 当前完整视图
func (s *Synchronizer) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// Subscribe 订阅视图变更
func (s *Synchronizer) Subscribe() <-chan Snapshot {
	return s.store.Subscribe()
}

// Loading 是否有同步周期正在进行
func (s *Synchronizer) Loading() bool {
	return s.poller.Loading()
}

// SessionID 当前 session 标识，被 Reset(true) 清空后为空串
func (s *Synchronizer) SessionID() string {
	s.sessionMu.Lock()
	defer s.sessionMu.Unlock()
	return s.sessionID
}

// Reset 停止轮询并清空本地视图，登出或阶段切换时调用
// clearSession 为 true 时同时清除 session 身份
func (s *Synchronizer) Reset(clearSession bool) {
	s.poller.Stop()
	s.store.Reset()
	if clearSession {
		s.sessionMu.Lock()
		s.sessionID = ""
		s.sessionMu.Unlock()
	}
}

// RefreshNow 同步执行一轮 fetch-merge，不影响轮询节奏
// 与轮询周期共用单飞标记，已有周期在进行时返回 ErrCycleInFlight
func (s *Synchronizer) RefreshNow(ctx context.Context) error {
	return s.poller.RunOnce(ctx)
}

// runCycle 一轮 fetch-merge：拉取远端批次、构造 Issue、合并进 store
// 提交合并前检查轮询代数，Stop/Reset 之后完成的陈旧周期丢弃结果
func (s *Synchronizer) runCycle(ctx context.Context, gen int64) error {
	xl := xlog.NewWith(ctx)

	records, err := s.fetcher.FetchRecords(ctx, s.filter)
	if err != nil {
		return err
	}

	batch := make([]*issue.Issue, 0, len(records))
	for _, record := range records {
		if record == nil || record.IsPullRequest {
			continue
		}
		batch = append(batch, s.build(record))
	}

	if gen != s.poller.Generation() {
		xl.Infof("Discarding stale sync cycle result (%d issues)", len(batch))
		return nil
	}

	s.store.MergeBatch(batch)
	xl.Debugf("Merged %d issues from remote", len(batch))
	return nil
}
