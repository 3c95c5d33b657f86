package cmd

import (
	"errors"
	"eventdesk/common/auth"
	"time"

	"github.com/google/uuid"
)

type issueTokenOptions struct {
	OperatorID string
	Email      string
	Role       string
	TTL        time.Duration
}

// runIssueTokenCmd signs an operator token for the back-office API.
func runIssueTokenCmd(opts issueTokenOptions) (string, error) {
	cfg := newCfg("env")

	secret := cfg.GetString("jwt.secret")
	if secret == "" {
		return "", errors.New("jwt.secret is not configured")
	}

	if opts.OperatorID == "" {
		opts.OperatorID = uuid.NewString()
	}
	if opts.TTL <= 0 {
		opts.TTL = cfg.GetDuration("jwt.ttl")
	}

	return auth.GenerateToken(secret, cfg.GetString("jwt.issuer"), opts.OperatorID, opts.Email, opts.Role, opts.TTL, time.Now())
}
