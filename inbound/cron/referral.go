package cron

import (
	"context"
	"eventdesk/common"
	"eventdesk/common/constant"
	"eventdesk/common/vars"
	"eventdesk/core/referral"
	"eventdesk/model"
	"log/slog"
	"time"

	"github.com/spf13/viper"
)

// ReferralBackend is the part of the upstream client the cron needs.
type ReferralBackend interface {
	ListAllVendorReferrals(ctx context.Context, q model.VendorReferralQuery) ([]model.VendorReferral, error)
}

type ReferralStatsCron struct {
	Cfg     *viper.Viper
	Backend ReferralBackend
	TimeNow func() time.Time
}

func (in ReferralStatsCron) Start(ctx context.Context) {
	refreshTicker := time.NewTicker(in.Cfg.GetDuration("cron.referral_stats.interval"))
	defer refreshTicker.Stop()

	in.refresh(ctx)

	slog.Info("referral stats cron started")

	for {
		select {
		case <-refreshTicker.C:
			in.refresh(ctx)
		case <-ctx.Done():
			slog.Info("referral stats cron stopped")
			return
		}
	}
}

func (in ReferralStatsCron) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, in.Cfg.GetDuration("cron.referral_stats.timeout"))
	defer cancel()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	slog.DebugContext(ctx, "refreshing referral statistics", traceIdAttr)

	referrals, err := in.Backend.ListAllVendorReferrals(ctx, model.VendorReferralQuery{
		ListQuery: model.ListQuery{PerPage: in.Cfg.GetInt("cron.referral_stats.per_page")},
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to list vendor referrals", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		return
	}

	now := time.Now
	if in.TimeNow != nil {
		now = in.TimeNow
	}

	vars.SetReferralSnapshot(vars.ReferralSnapshot{
		Statistics:  referral.Summarize(referrals),
		Campaigns:   referral.CampaignNames(referrals),
		RefreshedAt: now(),
	})

	slog.DebugContext(ctx, "referral statistics refreshed successfully", traceIdAttr, slog.Int("referrals", len(referrals)))
}
