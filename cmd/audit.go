package cmd

import (
	"context"
	"eventdesk/common/constant"
	commonJs "eventdesk/common/jetstream"
	"eventdesk/inbound/event"
	"eventdesk/outbound/migration"
	"eventdesk/outbound/sqlgen"
	"log"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

func runQueueAuditCmd(ctx context.Context) {
	cfg := newCfg("env")

	shutdownTracer := newTracer(ctx, cfg)
	defer shutdownTracer()

	db := newDb(cfg)
	defer db.Close()

	if err := migration.Run(ctx, db); err != nil {
		log.Fatalln("unable to migrate audit schema", err)
	}

	querier := sqlgen.New(db)

	natsConn := newNats(cfg)
	defer natsConn.Close()

	js := newJs(natsConn)
	st := commonJs.CreateQueueStream(ctx, js)

	auditEvent := event.AuditEvent{
		Querier: querier,
		Timeout: cfg.GetDuration("queue.audit.timeout"),
	}

	cons, err := st.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Durable:       "consumer:audit",
		FilterSubject: constant.AuditWildcard,
		MaxDeliver:    cfg.GetInt("queue.audit.max_deliver"),
		AckWait:       cfg.GetDuration("queue.audit.ack_wait"),
	})
	if err != nil {
		log.Fatalln("failed to create consumer", err)
	}

	iter, err := cons.Messages()
	if err != nil {
		panic(err)
	}

	auditMessageCh := make(chan jetstream.Msg, cfg.GetInt("queue.audit.channel_size"))
	flushTicker := time.NewTicker(cfg.GetDuration("queue.audit.flush_interval"))
	batchDone := make(chan struct{})

	go func() {
		defer close(auditMessageCh)

		for {
			select {
			case <-ctx.Done():
				return
			default:
				msg, err := iter.Next()
				if err != nil && err != jetstream.ErrMsgIteratorClosed {
					slog.ErrorContext(ctx, "Error fetching message", slog.Any(constant.LogFieldErr, err))
					continue
				}

				if msg == nil {
					continue
				}

				if msg.Subject() != constant.SubjectRecordAudit {
					ack(ctx, msg)
					continue
				}

				select {
				case auditMessageCh <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		defer func() {
			close(batchDone)
			flushTicker.Stop()
		}()

		batchSize := cfg.GetInt("queue.audit.batch_size")
		if batchSize <= 0 {
			batchSize = 100
		}
		rows := make([]sqlgen.InsertAuditLogsParams, 0, batchSize)
		pendingMsgs := make([]jetstream.Msg, 0, batchSize)

		// flush uses a fresh context so a batch collected before shutdown
		// is still stored.
		flush := func() {
			if len(pendingMsgs) == 0 {
				return
			}

			err := auditEvent.BulkInsertHandler(context.WithoutCancel(ctx), rows)
			for _, msg := range pendingMsgs {
				if err != nil {
					_ = msg.NakWithDelay(time.Second)
					continue
				}
				ack(ctx, msg)
			}

			rows = rows[:0]
			pendingMsgs = pendingMsgs[:0]
		}

		for {
			select {
			case <-flushTicker.C:
				flush()
			case msg, ok := <-auditMessageCh:
				if !ok {
					flush()
					return
				}

				row, valid := auditEvent.DecodeAuditHandler(ctx, msg.Data())
				if !valid {
					ack(ctx, msg)
					continue
				}

				rows = append(rows, row)
				pendingMsgs = append(pendingMsgs, msg)
				if len(pendingMsgs) >= batchSize {
					flush()
				}
			}
		}
	}()

	slog.InfoContext(ctx, "audit queue consumer started")

	<-ctx.Done()

	iter.Stop()

	<-batchDone

	slog.InfoContext(ctx, "audit queue consumer stopped")
}

func ack(ctx context.Context, msg jetstream.Msg) {
	if err := msg.Ack(); err != nil {
		slog.ErrorContext(ctx, "Error acknowledging message",
			slog.Any(constant.LogFieldErr, err),
			slog.Any(constant.LogFieldPayload, string(msg.Data())),
			slog.String("subject", msg.Subject()),
		)
	}
}
