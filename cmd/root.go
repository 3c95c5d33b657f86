package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Start() {
	cfg := newCfg("env")
	slog.SetLogLoggerLevel(slog.Level(cfg.GetInt("log.level")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var exportOpts exportSubmissionsOptions
	exportCmd := &cobra.Command{
		Use:   "export:submissions",
		Short: "Export the submissions of a form to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportSubmissionsCmd(ctx, exportOpts)
		},
	}
	exportCmd.Flags().Int64Var(&exportOpts.FormID, "form", 0, "form id")
	exportCmd.Flags().StringVar(&exportOpts.Status, "status", "", "submission status filter")
	exportCmd.Flags().StringVar(&exportOpts.ParticipantType, "participant-type", "", "participant type filter")
	exportCmd.Flags().StringVarP(&exportOpts.Output, "output", "o", "", "output file, defaults to a dated name")
	_ = exportCmd.MarkFlagRequired("form")

	var tokenOpts issueTokenOptions
	tokenCmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Sign an operator token for the back-office API",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := runIssueTokenCmd(tokenOpts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tokenOpts.OperatorID, "operator", "", "operator id, random when empty")
	tokenCmd.Flags().StringVar(&tokenOpts.Email, "email", "", "operator email")
	tokenCmd.Flags().StringVar(&tokenOpts.Role, "role", "admin", "operator role")
	tokenCmd.Flags().DurationVar(&tokenOpts.TTL, "ttl", 0, "token lifetime, defaults to jwt.ttl")

	rootCmd := &cobra.Command{Use: "eventdesk", SilenceUsage: true}
	cmd := []*cobra.Command{
		{
			Use:   "serve-http",
			Short: "Run HTTP server",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
		},
		{
			Use:   "serve-queue:audit",
			Short: "Run queue audit server",
			Run: func(cmd *cobra.Command, args []string) {
				runQueueAuditCmd(ctx)
			},
		},
		{
			Use:   "serve-queue:email",
			Short: "Run queue email server",
			Run: func(cmd *cobra.Command, args []string) {
				runQueueEmailCmd(ctx)
			},
		},
		{
			Use:   "migrate",
			Short: "Apply the audit schema migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrateCmd(ctx)
			},
		},
		exportCmd,
		tokenCmd,
		{
			Use:   "dev",
			Short: "Run dev server, for testing purpose",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
			PreRun: func(cmd *cobra.Command, args []string) {
				go func() {
					runQueueAuditCmd(ctx)
				}()
				go func() {
					runQueueEmailCmd(ctx)
				}()
			},
		},
	}

	rootCmd.AddCommand(cmd...)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
