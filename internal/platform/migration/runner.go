// Copyright (c) 2026 Tripora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies embedded SQL migrations with golang-migrate.
//
// The postgres storage driver calls [Apply] before its first query, so a
// fresh database needs no separate setup step.
package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

// Report describes what [Apply] did.
type Report struct {
	From    uint
	To      uint
	Changed bool
}

// Apply runs every pending up migration under dir in files against dsn.
// A dirty schema is reported as an error and left alone.
func Apply(dsn string, files fs.FS, dir string, logger zerolog.Logger) (Report, error) {
	source, err := iofs.New(files, dir)
	if err != nil {
		return Report{}, fmt.Errorf("migration: open %s: %w", dir, err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, DriverURL(dsn))
	if err != nil {
		return Report{}, fmt.Errorf("migration: connect: %w", err)
	}
	defer closeMigrator(migrator, logger)
	migrator.Log = printer{logger: logger}

	from, err := version(migrator)
	if err != nil {
		return Report{}, err
	}
	report := Report{From: from, To: from}

	switch err := migrator.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Debug().Uint("version", from).Msg("schema up to date")
		return report, nil
	case err != nil:
		return report, fmt.Errorf("migration: up from %d: %w", from, err)
	}

	report.To, err = version(migrator)
	if err != nil {
		return report, err
	}
	report.Changed = true
	logger.Info().Uint("from", report.From).Uint("to", report.To).Msg("schema migrated")
	return report, nil
}

// DriverURL rewrites postgres:// and postgresql:// URLs to the pgx5://
// scheme golang-migrate registers for pgx v5. Other DSNs pass through.
func DriverURL(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest
		}
	}
	return dsn
}

func version(migrator *migrate.Migrate) (uint, error) {
	v, dirty, err := migrator.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration: read version: %w", err)
	case dirty:
		return v, fmt.Errorf("migration: schema dirty at version %d", v)
	}
	return v, nil
}

func closeMigrator(migrator *migrate.Migrate, logger zerolog.Logger) {
	sourceErr, dbErr := migrator.Close()
	if err := errors.Join(sourceErr, dbErr); err != nil {
		logger.Warn().Err(err).Msg("migrator close failed")
	}
}

// printer routes golang-migrate's own output to debug logs.
type printer struct {
	logger zerolog.Logger
}

func (p printer) Printf(format string, args ...any) {
	p.logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (p printer) Verbose() bool {
	return p.logger.GetLevel() <= zerolog.DebugLevel
}
