// Package site renders the static chore site and publishes it atomically:
// every build lands in a fresh staging directory and only replaces the
// previous output once all pages rendered, so a failed build leaves the
// published tree untouched.
package site

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/choreworld/choreworld.github.io/internal/types"
)

// Builder stages one site build. All writes land under a scratch directory
// created next to the output directory, so the final rename stays on one
// filesystem.
type Builder struct {
	outputDir       string
	scratch         string
	archivePrevious bool
	logger          *slog.Logger
	published       bool
}

// NewBuilder creates the staging directory for a build targeting outputDir.
func NewBuilder(outputDir string, archivePrevious bool, logger *slog.Logger) (*Builder, error) {
	outputDir = filepath.Clean(outputDir)
	parent := filepath.Dir(outputDir)

	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, types.NewAppError(types.ErrCodePublishStaging,
			fmt.Sprintf("failed to create output parent %s", parent), err)
	}

	scratch, err := os.MkdirTemp(parent, ".choreworld-stage-")
	if err != nil {
		return nil, types.NewAppError(types.ErrCodePublishStaging,
			"failed to create staging directory", err)
	}

	return &Builder{
		outputDir:       outputDir,
		scratch:         scratch,
		archivePrevious: archivePrevious,
		logger:          logger,
	}, nil
}

// WriteFile writes data to the site-relative path inside the staging tree,
// creating parent directories as needed.
func (b *Builder) WriteFile(sitePath string, data []byte) error {
	target, err := b.stagePath(sitePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return types.NewAppError(types.ErrCodePublishStaging,
			fmt.Sprintf("failed to create directory for %s", sitePath), err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return types.NewAppError(types.ErrCodePublishStaging,
			fmt.Sprintf("failed to write %s", sitePath), err)
	}
	return nil
}

// CopyDir copies the directory tree at src into the staging tree at the
// site-relative destination.
func (b *Builder) CopyDir(src, sitePath string) error {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return types.NewAppError(types.ErrCodeConfigFileNotFound,
				fmt.Sprintf("static directory not found: %s", src), err)
		}
		return types.NewAppError(types.ErrCodePublishStaging,
			fmt.Sprintf("failed to read static directory %s", src), err)
	}

	target, err := b.stagePath(sitePath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return types.NewAppError(types.ErrCodePublishStaging,
			fmt.Sprintf("failed to create directory for %s", sitePath), err)
	}
	if err := os.CopyFS(target, os.DirFS(src)); err != nil {
		return types.NewAppError(types.ErrCodePublishStaging,
			fmt.Sprintf("failed to copy %s into the staging tree", src), err)
	}
	return nil
}

// Publish replaces the output directory with the staged tree. When archiving
// is enabled and a previous build exists, it is snapshotted next to the
// output directory first.
func (b *Builder) Publish() error {
	if b.published {
		return types.NewAppError(types.ErrCodeInternalUnexpected,
			"build already published", nil)
	}

	if _, err := os.Stat(b.outputDir); err == nil {
		if b.archivePrevious {
			archivePath := b.outputDir + ".prev.tar.gz"
			if err := archiveDir(b.outputDir, archivePath); err != nil {
				return err
			}
			b.logger.Info("archived previous build", "path", archivePath)
		}
		if err := os.RemoveAll(b.outputDir); err != nil {
			return types.NewAppError(types.ErrCodePublishReplace,
				fmt.Sprintf("failed to remove previous build at %s", b.outputDir), err)
		}
	} else if !os.IsNotExist(err) {
		return types.NewAppError(types.ErrCodePublishReplace,
			fmt.Sprintf("failed to stat output directory %s", b.outputDir), err)
	}

	if err := os.Rename(b.scratch, b.outputDir); err != nil {
		return types.NewAppError(types.ErrCodePublishReplace,
			fmt.Sprintf("failed to move staged build into %s", b.outputDir), err)
	}

	b.published = true
	b.logger.Info("site published", "path", b.outputDir)
	return nil
}

// Abort discards the staging directory. Safe to call after Publish, where
// it does nothing, so callers can defer it unconditionally.
func (b *Builder) Abort() {
	if b.published || b.scratch == "" {
		return
	}
	if err := os.RemoveAll(b.scratch); err != nil {
		b.logger.Warn("failed to clean up staging directory",
			"path", b.scratch, "error", err)
	}
	b.scratch = ""
}

// stagePath resolves a site-relative path ("/CNAME", "/welly/index.html")
// to its location inside the staging directory.
func (b *Builder) stagePath(sitePath string) (string, error) {
	rel := strings.TrimLeft(sitePath, "/")
	target := filepath.Join(b.scratch, filepath.FromSlash(rel))
	if target != b.scratch && !strings.HasPrefix(target, b.scratch+string(filepath.Separator)) {
		return "", types.NewAppError(types.ErrCodePublishStaging,
			fmt.Sprintf("path %s escapes the staging tree", sitePath), nil)
	}
	return target, nil
}
