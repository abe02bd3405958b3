package email

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"recetario-pae/internal/infrastructure/config"
	"recetario-pae/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	ErrQueueFull        = errors.New("email queue is full")
	ErrDispatcherClosed = errors.New("email dispatcher is closed")
)

// job 隊列中的郵件
type job struct {
	ctx    context.Context
	msg    Message
	result chan error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	FailedCount    int64 `json:"failed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Dispatcher 以固定數量的 worker 發送郵件
type Dispatcher struct {
	sender    Deliverer
	queue     chan *job
	done      chan struct{}
	workers   int
	maxSize   int
	processed int64
	failed    int64
	mu        sync.RWMutex
	closed    bool
	wg        sync.WaitGroup
}

// NewDispatcher 創建並啟動郵件隊列
func NewDispatcher(sender Deliverer, cfg config.QueueConfig) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 1
	}

	d := &Dispatcher{
		sender:  sender,
		queue:   make(chan *job, maxSize),
		done:    make(chan struct{}),
		workers: workers,
		maxSize: maxSize,
	}

	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}

	common.LogInfo("Email dispatcher started",
		zap.Int("workers", workers),
		zap.Int("max_queue_size", maxSize),
	)
	return d
}

// Enqueue 將郵件加入隊列，結果從回傳的 channel 取得
func (d *Dispatcher) Enqueue(ctx context.Context, msg Message) (<-chan error, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, ErrDispatcherClosed
	}

	j := &job{ctx: ctx, msg: msg, result: make(chan error, 1)}

	select {
	case d.queue <- j:
		common.LogDebug("Email enqueued",
			zap.String("kind", msg.Kind),
			zap.Int("queue_length", len(d.queue)),
			zap.Int("max_queue_size", d.maxSize),
		)
		return j.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, ErrQueueFull
	}
}

// Send 加入隊列並等待發送結果
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	result, err := d.Enqueue(ctx, msg)
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status 取得隊列狀態
func (d *Dispatcher) Status() Status {
	return Status{
		QueueLength:    len(d.queue),
		ProcessedCount: atomic.LoadInt64(&d.processed),
		FailedCount:    atomic.LoadInt64(&d.failed),
		MaxQueueSize:   d.maxSize,
		Workers:        d.workers,
	}
}

// Close 停止接收新郵件，送完隊列中剩餘的郵件後返回
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.done)
	d.mu.Unlock()

	d.wg.Wait()
	common.LogInfo("Email dispatcher stopped",
		zap.Int64("processed", atomic.LoadInt64(&d.processed)),
		zap.Int64("failed", atomic.LoadInt64(&d.failed)),
	)
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for {
		select {
		case j := <-d.queue:
			d.handle(j)
		case <-d.done:
			for {
				select {
				case j := <-d.queue:
					d.handle(j)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) handle(j *job) {
	if err := j.ctx.Err(); err != nil {
		atomic.AddInt64(&d.failed, 1)
		j.result <- err
		return
	}

	start := time.Now()
	err := d.sender.Send(j.ctx, j.msg)
	common.LogEmailDispatch(j.msg.Kind, time.Since(start), err, j.msg.RequestID)

	atomic.AddInt64(&d.processed, 1)
	if err != nil {
		atomic.AddInt64(&d.failed, 1)
	}
	j.result <- err
}
