package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mongoutil "talentlink/data/database/mgo/mongoutil"
	"talentlink/global/config"
	"talentlink/logger"
	midsec "talentlink/middleware/security"
	chathandler "talentlink/module/chat/handler"
	chatservice "talentlink/module/chat/service"
	chatstore "talentlink/module/chat/store"
	dirhandler "talentlink/module/directory/handler"
	dirstore "talentlink/module/directory/store"
	nethandler "talentlink/module/network/handler"
	netservice "talentlink/module/network/service"
	netstore "talentlink/module/network/store"
	rosterhandler "talentlink/module/roster/handler"
	rosterservice "talentlink/module/roster/service"
	rosterstore "talentlink/module/roster/store"
	"talentlink/service/mgo"
	"talentlink/service/notify"
	"talentlink/service/storage"
	redissvc "talentlink/service/storage/redis"
	"talentlink/tools/ids"
	"talentlink/tools/security"
)

func main() {
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		panic(err)
	}
	cfg := config.Global

	ids.SetNodeID(cfg.NodeID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis 可选；缓存未初始化时未读数走全量计算
	if cfg.Redis.Addr != "" {
		if err := redissvc.InitRedis(redissvc.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}); err != nil {
			logger.Warn("redis init failed, unread cache disabled", zap.Error(err))
		}
	}

	mgo.StartAsync(ctx, &mongoutil.Config{
		Uri:         cfg.Mongo.Uri,
		Address:     cfg.Mongo.Address,
		Database:    cfg.Mongo.Database,
		Username:    cfg.Mongo.Username,
		Password:    cfg.Mongo.Password,
		AuthSource:  cfg.Mongo.AuthSource,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	readyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := mgo.Ready(readyCtx); err != nil {
		logger.Errorf("mongo not ready: %v", err)
		return
	}
	db := mgo.GetDB()

	var dispatcher notify.Dispatcher = notify.Nop{}
	if cfg.Nats.URL != "" {
		nd, err := notify.NewNatsDispatcher(notify.NatsConfig{
			URL:           cfg.Nats.URL,
			SubjectPrefix: cfg.Nats.SubjectPrefix,
		})
		if err != nil {
			logger.Warn("nats connect failed, notifications disabled", zap.Error(err))
		} else {
			dispatcher = nd
			defer nd.Close()
		}
	}

	cipherKey, err := base64.StdEncoding.DecodeString(cfg.Security.CipherKey)
	if err != nil {
		logger.Errorf("bad cipher key: %v", err)
		return
	}
	cipher, err := security.NewCipher(cipherKey)
	if err != nil {
		logger.Errorf("bad cipher key: %v", err)
		return
	}

	accounts := &dirstore.MongoAccountStore{DB: db}
	jobs := &dirstore.MongoJobStore{DB: db}
	groups := &rosterstore.MongoGroupStore{DB: db}
	hotLists := &rosterstore.MongoHotListStore{DB: db}
	connections := &netstore.MongoConnectionStore{DB: db}
	requests := &chatstore.MongoRequestStore{DB: db}
	conversations := &chatstore.MongoConversationStore{DB: db}

	registry := &rosterservice.Registry{
		Groups:   groups,
		HotLists: hotLists,
		Accounts: accounts,
		Jobs:     jobs,
	}
	network := &netservice.Network{
		Connections: connections,
		Dispatcher:  dispatcher,
	}
	workflow := &chatservice.Workflow{
		Requests:      requests,
		Conversations: conversations,
		Accounts:      accounts,
		Jobs:          jobs,
		Dispatcher:    dispatcher,
	}
	messenger := &chatservice.Messenger{
		Conversations: conversations,
		Accounts:      accounts,
		Dispatcher:    dispatcher,
		Unread:        storage.NewUnreadCache(),
		Cipher:        cipher,
	}

	auth := midsec.DefaultOptions([]byte(cfg.Security.JwtSecret))

	r := gin.Default()
	(&dirhandler.Handler{Accounts: accounts, Jobs: jobs, Registry: registry}).Register(r, auth)
	(&rosterhandler.Handler{Registry: registry}).Register(r, auth)
	(&nethandler.Handler{Network: network}).Register(r, auth)
	(&chathandler.Handler{Workflow: workflow, Messenger: messenger}).Register(r, auth)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	logger.Infof("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Errorf("http server exited: %v", err)
	}
}
