package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"talentlink/logger"
	"talentlink/tools/safe"
)

type NatsConfig struct {
	URL           string
	SubjectPrefix string // 默认 "notify"
}

// NatsDispatcher 将通知发布到 NATS，由独立的推送网关消费。
type NatsDispatcher struct {
	nc     *nats.Conn
	prefix string
}

func NewNatsDispatcher(cfg NatsConfig) (*NatsDispatcher, error) {
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "notify"
	}
	nc, err := nats.Connect(cfg.URL,
		nats.Name("talentlink-notify"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NatsDispatcher{nc: nc, prefix: cfg.SubjectPrefix}, nil
}

// Dispatch 发完即忘：publish 失败只记日志。
func (d *NatsDispatcher) Dispatch(_ context.Context, n Notification) {
	safe.Go(func() {
		data, err := json.Marshal(n)
		if err != nil {
			logger.Error("notify marshal failed", zap.Error(err))
			return
		}
		subject := d.prefix + "." + n.Channel
		if n.Channel == "" {
			subject = d.prefix + ".push"
		}
		if err := d.nc.Publish(subject, data); err != nil {
			logger.Error("notify publish failed",
				zap.String("subject", subject), zap.Error(err))
		}
	})
}

func (d *NatsDispatcher) Close() {
	if d.nc != nil {
		d.nc.Drain() //nolint:errcheck
	}
}
