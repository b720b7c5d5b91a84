package api

import (
	"context"

	"google.golang.org/api/option"

	"sheetform/pkg/config"
	"sheetform/pkg/credentials"
	"sheetform/pkg/sheets"
)

// SheetsFactory builds Google Sheets clients authenticated as the bundle's
// service account.
func SheetsFactory(scopes []string, opts ...option.ClientOption) ClientFactory {
	return func(ctx context.Context, bundle credentials.Bundle) (sheets.Spreadsheet, error) {
		client, err := sheets.NewSheetClientFromBundle(ctx, bundle, scopes, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// NewServiceFromConfig ranks the configured secrets store (keyring or TOML
// file) ahead of the environment.
func NewServiceFromConfig(cfg *config.Config) (*Service, error) {
	var primary credentials.Source = credentials.NewFileSource(cfg.SecretsFile)
	if cfg.KeyringService != "" {
		ring, err := credentials.OpenKeyringSource(cfg.KeyringService)
		if err != nil {
			return nil, err
		}
		primary = ring
	}
	scopes := sheets.DefaultScopes
	if cfg.DriveScope {
		scopes = sheets.DriveScopes
	}
	resolver := credentials.NewResolver(primary, credentials.NewEnvSource())
	return NewService(resolver, SheetsFactory(scopes)), nil
}
