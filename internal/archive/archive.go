// Package archive keeps copies of generated reports outside the reports
// directory.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"salimco/pos/internal/config"
)

// Archiver stores the report at path under the given period (YYYY-MM-DD or
// YYYY-MM).
type Archiver interface {
	Archive(ctx context.Context, period string, path string) error
	Name() string
}

func New(ctx context.Context, cfg config.ArchiveConfig, log *zap.Logger) (Archiver, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "", "none", "noop":
		return Noop{}, nil
	case "local":
		return NewLocal(cfg.Dir)
	case "s3":
		return NewS3(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported archive mode %q", cfg.Mode)
	}
}

type Noop struct{}

func (Noop) Archive(context.Context, string, string) error { return nil }

func (Noop) Name() string { return "none" }

type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("archive dir is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Local{root: root}, nil
}

func (l *Local) Name() string { return "local" }

func (l *Local) Archive(ctx context.Context, period string, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Join(l.root, period)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive period dir: %w", err)
	}

	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open report: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filepath.Base(path)))
	if err != nil {
		return fmt.Errorf("create archive copy: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy report: %w", err)
	}
	return dst.Close()
}

func objectKey(period string, path string) string {
	return fmt.Sprintf("reports/%s/%s", period, filepath.Base(path))
}
