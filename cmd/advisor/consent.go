package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mhollis/finadvisor/internal/store"
)

var consentUser string

var consentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Manage a user's consent to be processed",
}

var consentGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Record a user's consent grant",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setConsent(cmd, true)
	},
}

var consentRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Record a user's consent revocation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return setConsent(cmd, false)
	},
}

func init() {
	consentCmd.PersistentFlags().StringVar(&consentUser, "user", "", "User ID (required)")
	consentCmd.MarkPersistentFlagRequired("user")
	consentCmd.AddCommand(consentGrantCmd, consentRevokeCmd)
}

func setConsent(cmd *cobra.Command, granted bool) error {
	cfg, logger, err := buildLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	profiles, err := store.NewPostgresStore(ctx, cfg.Relational.DSN, cfg.Relational.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}
	defer profiles.Close()

	at := time.Now().UTC()
	if err := profiles.SetConsent(ctx, consentUser, granted, at); err != nil {
		return fmt.Errorf("set consent for %s: %w", consentUser, err)
	}

	action := "granted"
	if !granted {
		action = "revoked"
	}
	logger.Info("consent updated",
		zap.String("user", consentUser),
		zap.String("action", action),
		zap.Time("at", at))
	fmt.Printf("consent %s for %s at %s\n", action, consentUser, at.Format(time.RFC3339))
	return nil
}
