package mgo

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	mgo "talentlink/data/database/mgo/mongoutil"
	"talentlink/logger"
)

type MongoManager struct {
	mu        sync.RWMutex
	client    *mgo.Client
	readyCh   chan struct{} // 首次就绪通知；只会被 close 一次
	readyOnce sync.Once
}

var globalMgr MongoManager

// StartAsync 一直运行到 ctx.Done()；首次连上时 close readyCh，连接失败带退避重试。
func StartAsync(ctx context.Context, cfg *mgo.Config) {
	if globalMgr.readyCh == nil {
		globalMgr.readyCh = make(chan struct{})
	}

	go func() {
		const (
			baseBackoff = 200 * time.Millisecond
			maxBackoff  = 5 * time.Second
		)

		attempt := 0
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			cli, err := mgo.NewMongoDB(ctx, cfg)
			if err == nil {
				globalMgr.mu.Lock()
				globalMgr.client = cli
				globalMgr.mu.Unlock()

				globalMgr.readyOnce.Do(func() { close(globalMgr.readyCh) })
				return
			}

			logger.Errorf("mongo connect failed (attempt %d): %v", attempt, err)

			backoff := baseBackoff << attempt
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			jitter := time.Duration(rand.Int63n(int64(backoff/5) + 1))
			sleep := backoff - jitter/2

			timer := time.NewTimer(sleep)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			if attempt < 6 {
				attempt++
			}
		}
	}()
}

// Ready blocks until the first successful connection or ctx cancellation.
func Ready(ctx context.Context) error {
	if globalMgr.readyCh == nil {
		globalMgr.readyCh = make(chan struct{})
	}
	select {
	case <-globalMgr.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func GetDB() *mongo.Database {
	globalMgr.mu.RLock()
	defer globalMgr.mu.RUnlock()
	if globalMgr.client == nil {
		panic("Mongo not ready: wait Ready() first")
	}
	return globalMgr.client.GetDB()
}
