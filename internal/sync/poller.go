package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/qiniu/x/xlog"
)

// ErrCycleInFlight 主动刷新撞上了正在进行的周期
var ErrCycleInFlight = errors.New("a sync cycle is already in flight")

// CycleFunc 一轮 fetch-merge 周期
// gen 是启动该轮时的轮询代数，周期在提交合并前应当确认代数未变，
// Stop/Reset 之后才完成的陈旧周期要丢弃自己的结果
type CycleFunc func(ctx context.Context, gen int64) error

// Poller 以固定间隔驱动 fetch-merge 周期
// 首个周期立即执行；上一轮还在进行时新到的 tick 被整个丢弃，
// 绝不排队也绝不并行；单轮失败只记日志，不终止循环
type Poller struct {
	interval time.Duration
	cycle    CycleFunc

	mu         stdsync.Mutex
	cancel     context.CancelFunc
	busy       atomic.Bool
	loading    atomic.Bool
	generation atomic.Int64
}

// NewPoller 创建轮询器，不会自动启动
func NewPoller(interval time.Duration, cycle CycleFunc) *Poller {
	return &Poller{
		interval: interval,
		cycle:    cycle,
	}
}

// Start 启动轮询循环，已在运行时是空操作
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	gen := p.generation.Add(1)

	go p.run(ctx, gen)
}

// Stop 停止轮询，幂等
// 已经发出的远端请求不会被强行打断，但代数递增保证它完成后
// 的合并会被周期自身丢弃；in-flight 标记一并清除
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}
	p.cancel()
	p.cancel = nil
	p.generation.Add(1)
	p.busy.Store(false)
	p.loading.Store(false)
}

// Loading 是否有周期正在进行
func (p *Poller) Loading() bool {
	return p.loading.Load()
}

// Generation 当前轮询代数
func (p *Poller) Generation() int64 {
	return p.generation.Load()
}

// RunOnce 在轮询节奏之外同步执行一轮周期
// 与轮询共用同一个单飞标记：已有周期在进行时拒绝执行，
// 保证任何时刻最多只有一轮 fetch-merge
func (p *Poller) RunOnce(ctx context.Context) error {
	if !p.busy.CompareAndSwap(false, true) {
		return ErrCycleInFlight
	}
	defer p.busy.Store(false)

	p.loading.Store(true)
	defer p.loading.Store(false)

	return p.cycle(ctx, p.generation.Load())
}

func (p *Poller) run(ctx context.Context, gen int64) {
	// tick 0 不等待间隔
	p.runCycle(ctx, gen)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.runCycle(ctx, gen)
		}
	}
}

func (p *Poller) runCycle(ctx context.Context, gen int64) {
	xl := xlog.NewWith(ctx)

	// skip-if-busy：上一轮未结束时本轮直接丢弃
	if !p.busy.CompareAndSwap(false, true) {
		xl.Debugf("Previous sync cycle still in flight, skipping tick")
		return
	}
	defer p.busy.Store(false)

	p.loading.Store(true)
	defer p.loading.Store(false)

	if err := p.cycle(ctx, gen); err != nil {
		// 单轮失败静默重试，下一个 tick 继续
		xl.Warnf("Sync cycle failed: %v", err)
	}
}
