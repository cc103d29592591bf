// Package sync 维护 issue 的权威本地视图：
// 把周期性拉取的远端批次合并进内存快照，驱逐远端已消失的条目，
// 并把每次变化后的完整快照广播给订阅者。
package sync

import (
	"context"
	"fmt"
	"sync"

	"github.com/qiniu/reviewsync/internal/issue"
	"github.com/qiniu/reviewsync/pkg/models"

	"github.com/qiniu/x/log"
)

// Snapshot 某一时刻的完整 issue 视图，按 issue 编号索引
// 每次变更整体替换，订阅者拿到的引用永远是一致的，只读不可改
type Snapshot map[int]*issue.Issue

// Builder 把远端 record 构造成 Issue，阶段和队伍信息由闭包携带
type Builder func(record *models.Record) *issue.Issue

// RecordFetcher 单条 record 的远端读取，用于未初始化时的点查
type RecordFetcher interface {
	FetchRecord(ctx context.Context, number int) (*models.Record, error)
}

// Store issue 本地视图的唯一持有者
// 所有写入都经过 MergeBatch / Reset，外部只能拿到快照
type Store struct {
	mu          sync.RWMutex
	snapshot    Snapshot
	initialized bool

	fetcher RecordFetcher
	build   Builder

	subMu sync.Mutex
	subs  []chan Snapshot
}

// NewStore 创建空的 store
func NewStore(fetcher RecordFetcher, build Builder) *Store {
	return &Store{
		snapshot: Snapshot{},
		fetcher:  fetcher,
		build:    build,
	}
}

// MergeBatch 把一批新拉取的 issue 合并进快照
// 同编号整体覆盖（最后一次拉取胜出）；合并后驱逐上一份快照里有、
// 本批次里没有的条目。两种情况不驱逐：首次拉取（没有可比较的基准），
// 以及空批次（远端的 "没有变化" 应答，绝不能当成 "全部删除"）
func (s *Store) MergeBatch(batch []*issue.Issue) {
	s.mu.Lock()

	prev := s.snapshot
	next := make(Snapshot, len(prev)+len(batch))
	for number, i := range prev {
		next[number] = i
	}

	fetched := make(map[int]bool, len(batch))
	for _, i := range batch {
		if i == nil {
			continue
		}
		next[i.Number] = i
		fetched[i.Number] = true
	}

	evicted := 0
	if s.initialized && len(prev) > 0 && len(fetched) > 0 {
		for number := range prev {
			if !fetched[number] {
				delete(next, number)
				evicted++
			}
		}
	}

	s.snapshot = next
	s.initialized = true
	s.mu.Unlock()

	if evicted > 0 {
		log.Infof("Evicted %d issues no longer present upstream", evicted)
	}
	s.publish(next)
}

// Upsert 写入单条 issue，点查或单 issue 轮询落盘用
// 与并发的 MergeBatch 交错时同键最后写入胜出
func (s *Store) Upsert(i *issue.Issue) {
	if i == nil {
		return
	}
	s.mu.Lock()
	next := make(Snapshot, len(s.snapshot)+1)
	for number, existing := range s.snapshot {
		next[number] = existing
	}
	next[i.Number] = i
	s.snapshot = next
	s.mu.Unlock()

	s.publish(next)
}

// Get 读取单条 issue
// store 从未初始化时同步拉取并缓存；初始化过的 store 直接返回缓存，
// 即便内容可能过期：刷新由轮询驱动，不由读驱动
func (s *Store) Get(ctx context.Context, number int) (*issue.Issue, error) {
	s.mu.RLock()
	initialized := s.initialized
	cached := s.snapshot[number]
	s.mu.RUnlock()

	if initialized || cached != nil {
		return cached, nil
	}

	record, err := s.fetcher.FetchRecord(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}
	fetched := s.build(record)
	s.Upsert(fetched)
	return fetched, nil
}

// Snapshot 返回当前快照
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Initialized store 是否已经历过至少一次合并
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Reset 清空快照并广播空视图，用于登出或阶段切换
func (s *Store) Reset() {
	s.mu.Lock()
	empty := Snapshot{}
	s.snapshot = empty
	s.initialized = false
	s.mu.Unlock()

	s.publish(empty)
}

// Subscribe 订阅快照变更
// 通道容量为 1，消费慢时旧快照被新快照挤掉，订阅者总能读到最新视图
func (s *Store) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	s.subMu.Lock()
	s.subs = append(s.subs, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) publish(snap Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
