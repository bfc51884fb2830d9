package worker

import (
	"context"
	"sync"
	"time"

	"shop_engine/pkg/logger"

	"go.uber.org/zap"
)

// Task 异步任务，失败后按重试次数退避重新入队
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

type envelope struct {
	task  Task
	retry int // 已重试次数
}

type WorkerPool struct {
	taskQueue  chan envelope
	retryQueue chan envelope // 重试队列
	workerNum  int
	maxRetry   int
	backoff    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewWorkerPool(workerNum int, bufferSize int) *WorkerPool {
	if workerNum <= 0 {
		workerNum = 1
	}
	if bufferSize <= 0 {
		bufferSize = 100
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		taskQueue:  make(chan envelope, bufferSize),
		retryQueue: make(chan envelope, bufferSize/2+1),
		workerNum:  workerNum,
		maxRetry:   3, // 最多重试3次
		backoff:    time.Second,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetRetry 调整最大重试次数与退避基数
func (p *WorkerPool) SetRetry(maxRetry int, backoff time.Duration) {
	p.maxRetry = maxRetry
	p.backoff = backoff
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.workerNum; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	// 启动重试处理协程
	p.wg.Add(1)
	go p.retryWorker()
	logger.Log.Info("worker pool started", zap.Int("workers", p.workerNum))
}

// Stop 停止接收任务并等待协程退出，队列中未执行的任务会被丢弃
func (p *WorkerPool) Stop() {
	p.once.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case env := <-p.taskQueue:
			p.process(id, env)
		}
	}
}

func (p *WorkerPool) process(id int, env envelope) {
	err := env.task.Run(p.ctx)
	if err == nil {
		return
	}

	logger.Log.Warn("task failed",
		zap.Int("worker", id),
		zap.String("task", env.task.Name()),
		zap.Int("retry", env.retry),
		zap.Error(err),
	)

	// 如果未达到最大重试次数，加入重试队列
	if env.retry >= p.maxRetry {
		p.logFailedTask(env, err)
		return
	}
	env.retry++
	select {
	case p.retryQueue <- env:
	default:
		p.logFailedTask(env, err)
	}
}

func (p *WorkerPool) retryWorker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case env := <-p.retryQueue:
			// 延迟重试，避免立即重试
			select {
			case <-p.ctx.Done():
				return
			case <-time.After(time.Duration(env.retry) * p.backoff):
			}

			select {
			case p.taskQueue <- env:
			default:
				p.logFailedTask(env, nil)
			}
		}
	}
}

func (p *WorkerPool) logFailedTask(env envelope, err error) {
	logger.Log.Error("task dropped",
		zap.String("task", env.task.Name()),
		zap.Int("retry", env.retry),
		zap.Error(err),
	)
}

// AddTask 非阻塞入队，队列满时丢弃并返回 false
func (p *WorkerPool) AddTask(task Task) bool {
	select {
	case p.taskQueue <- envelope{task: task}:
		return true
	default:
		p.logFailedTask(envelope{task: task}, nil)
		return false
	}
}
