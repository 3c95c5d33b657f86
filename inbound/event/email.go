package event

import (
	"context"
	"encoding/json"
	"eventdesk/common/constant"
	"eventdesk/common/contract"
	"eventdesk/model"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

type EmailEvent struct {
	Sender  contract.EmailSender
	Timeout time.Duration
}

func (in EmailEvent) SendEmailHandler(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, in.Timeout)
	defer cancel()

	var req model.SendEmailEventMessage
	err := json.Unmarshal(msg, &req)
	if err != nil {
		slog.WarnContext(ctx, "send email event unmarshal error", slog.Any(constant.LogFieldErr, err))
		return nil
	}

	traceIdAttr := slog.String(constant.LogFieldTraceId, ulid.Make().String())
	reqAttr := slog.Any(constant.LogFieldPayload, string(msg))

	if strings.TrimSpace(req.To) == "" {
		slog.WarnContext(ctx, "send email event without recipient", reqAttr, traceIdAttr)
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	err = in.Sender.Send([]string{req.To}, req.Subject, req.Body)
	if err != nil {
		slog.ErrorContext(ctx, "send email event error", slog.Any(constant.LogFieldErr, err), reqAttr, traceIdAttr)
		return err
	}

	slog.DebugContext(ctx, "send email event success", reqAttr, traceIdAttr)
	return nil
}
