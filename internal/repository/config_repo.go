package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/billaxle/paygate/internal/domain"
)

// ConfigRepo reads gateway module settings from the billing configuration
// table.
type ConfigRepo struct {
	db *sql.DB
}

func NewConfigRepo(db *sql.DB) *ConfigRepo {
	return &ConfigRepo{db: db}
}

// GatewayConfig loads the configured variables for a gateway module. A
// module with no "type" setting is considered inactive.
func (r *ConfigRepo) GatewayConfig(ctx context.Context, module string) (domain.GatewayConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT setting, value FROM tblgatewayconfig WHERE gateway = ?", module,
	)
	if err != nil {
		return domain.GatewayConfig{}, fmt.Errorf("load config for %s: %w", module, err)
	}
	defer rows.Close()

	vars := make(map[string]string)
	for rows.Next() {
		var setting, value string
		if err := rows.Scan(&setting, &value); err != nil {
			return domain.GatewayConfig{}, fmt.Errorf("scan config for %s: %w", module, err)
		}
		vars[setting] = value
	}
	if err := rows.Err(); err != nil {
		return domain.GatewayConfig{}, fmt.Errorf("read config for %s: %w", module, err)
	}

	return domain.GatewayConfig{
		Active:        vars["type"] != "",
		TestMode:      vars["testMode"] == "on",
		TestSecretKey: vars["testSecretKey"],
		TestPublicKey: vars["testPublicKey"],
		LiveSecretKey: vars["liveSecretKey"],
		LivePublicKey: vars["livePublicKey"],
		GatewayLogs:   vars["gatewayLogs"] == "on",
		ConvertTo:     vars["convertto"],
	}, nil
}

// SetVariable stores one module setting, replacing any existing value.
func (r *ConfigRepo) SetVariable(ctx context.Context, module, setting, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tblgatewayconfig (gateway, setting, value) VALUES (?,?,?)
		 ON CONFLICT(gateway, setting) DO UPDATE SET value = excluded.value`,
		module, setting, value,
	)
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", module, setting, err)
	}
	return nil
}
