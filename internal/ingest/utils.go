package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
)

// AllowedExt checks if a file extension is in the allowed set (defaults to pdf).
func AllowedExt(ext string) bool {
	ext = constants.NormalizeExt(ext)
	_, ok := constants.AllowedExtensions[ext]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}

// ValidateWorkspace ensures the workspace exists before rows are
// written under it.
func ValidateWorkspace(ctx context.Context, repo repository.WorkspaceRepository, id uuid.UUID) error {
	exists, err := repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check workspace: %w", err)
	}
	if !exists {
		return errors.New("workspace not found")
	}
	return nil
}
