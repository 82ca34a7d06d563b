package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"trip-approval-backend/lib/metrics"
)

// JobFunc одна итерация фоновой задачи
type JobFunc func(ctx context.Context) error

type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
}

func NewInstance(workerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	return &BaseImpl{
		WorkerName:    workerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	return log.WithField("worker_name", i.WorkerName)
}

// Run блокирует до завершения контекста
func (i BaseImpl) Run(ctx context.Context, jobFunc JobFunc) {
	logger := i.GetLogger()
	timer := time.NewTimer(i.firstRunDelay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Задача остановлена")
			return
		case <-timer.C:
			i.runOnce(ctx, jobFunc)
			timer.Reset(i.runInterval)
		}
	}
}

// runOnce паника в задаче не останавливает воркер
func (i BaseImpl) runOnce(ctx context.Context, jobFunc JobFunc) (err error) {
	logger := i.GetLogger()
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
			err = errors.Errorf("panic: %v", r)
		}
		metrics.RecordWorkerRun(i.WorkerName, err == nil)
		logger = logger.WithField("duration", time.Since(started).String())
		if err != nil {
			logger.WithError(err).Error("Задача завершилась с ошибкой")
			return
		}
		logger.Info("Задача выполнена")
	}()
	logger.Info("Задача запущена")
	return jobFunc(ctx)
}
