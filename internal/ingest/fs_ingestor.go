package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/haldkarsurbhi/risk-analyser-backend/constants"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
)

// FSIngestor reads from the local filesystem and stages uploads under
// ArtifactDir.
type FSIngestor struct {
	Workspaces  repository.WorkspaceRepository
	FilesRepo   repository.TechpackFileRepository
	ArtifactDir string
	Logger      *slog.Logger
}

func NewFSIngestor(w repository.WorkspaceRepository, f repository.TechpackFileRepository, artifactDir string, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	if artifactDir == "" {
		artifactDir = "./artifacts"
	}
	return &FSIngestor{
		Workspaces:  w,
		FilesRepo:   f,
		ArtifactDir: artifactDir,
		Logger:      logger,
	}
}

func (i *FSIngestor) IngestPath(ctx context.Context, workspaceID uuid.UUID, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		i.Logger.Error("abs path failed", "path", path, "error", err)
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) {
		i.Logger.Warn("unsupported or missing extension", "path", abs, "ext", ext)
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	if err := ValidateWorkspace(ctx, i.Workspaces, workspaceID); err != nil {
		return out, err
	}

	f, err := os.Open(abs)
	if err != nil {
		i.Logger.Error("open failed", "path", abs, "error", err)
		return out, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			i.Logger.Warn("close file failed", "path", abs, "error", err)
		}
	}(f)

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		i.Logger.Error("hash failed", "path", abs, "error", err)
		return out, err
	}
	sum := h.Sum(nil)

	pages, err := Preflight(abs)
	if err != nil {
		i.Logger.Warn("preflight rejected file", "path", abs, "error", err)
		return out, err
	}

	now := time.Now().UTC()
	row, dedup, err := i.FilesRepo.UpsertByHash(ctx, workspaceID, abs, filepath.Base(abs), ext, int(size), sum, now)
	if err != nil {
		return out, err
	}
	if !dedup && pages > 0 {
		_ = i.FilesRepo.SetPageCount(ctx, row.ID, pages)
	}

	out = IngestionResult{
		SourcePath:   row.SourcePath,
		FileID:       row.ID.String(),
		Deduplicated: dedup,
		HashHex:      hex.EncodeToString(sum),
		FileExt:      row.FileExt,
		PageCount:    pages,
		UploadedAt:   row.UploadedAt,
	}
	return out, nil
}

// IngestDirectory walks root, skips hidden if requested,
// and calls IngestPath for each file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(
	ctx context.Context,
	workspaceID uuid.UUID,
	root string,
	skipHidden bool,
) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root_path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if !AllowedExt(ext) {
			return nil
		}
		stats.Matched++

		r, err := i.IngestPath(ctx, workspaceID, path)
		if err != nil {
			results = append(results, IngestionResult{SourcePath: path, Err: err.Error()})
			stats.Failed++
			return nil
		}

		results = append(results, r)
		stats.Succeeded++
		if r.Deduplicated {
			stats.Deduplicated++
		}
		return nil
	})

	if err != nil {
		return results, stats, fmt.Errorf("walk: %w", err)
	}
	return results, stats, nil
}

// IngestBytes stages uploaded content under ArtifactDir and records it.
// Duplicate content is detected before anything is written to disk.
func (i *FSIngestor) IngestBytes(ctx context.Context, workspaceID uuid.UUID, filename string, content []byte) (IngestionResult, error) {
	var out IngestionResult

	if len(content) == 0 {
		return out, errors.New("empty upload")
	}
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if ext == "" || !AllowedExt(ext) {
		i.Logger.Warn("unsupported or missing extension", "filename", filename, "ext", ext)
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	if err := ValidateWorkspace(ctx, i.Workspaces, workspaceID); err != nil {
		return out, err
	}

	sum := sha256.Sum256(content)
	hashHex := hex.EncodeToString(sum[:])

	if existing, err := i.FilesRepo.GetByWorkspaceAndHash(ctx, workspaceID, sum[:]); err == nil {
		return IngestionResult{
			SourcePath:   existing.SourcePath,
			FileID:       existing.ID.String(),
			Deduplicated: true,
			HashHex:      hashHex,
			FileExt:      existing.FileExt,
			UploadedAt:   existing.UploadedAt,
		}, nil
	}

	dir := filepath.Join(i.ArtifactDir, workspaceID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		i.Logger.Error("create artifact dir failed", "dir", dir, "error", err)
		return out, err
	}
	staged := filepath.Join(dir, hashHex+"."+ext)
	if err := os.WriteFile(staged, content, 0o644); err != nil {
		i.Logger.Error("stage upload failed", "path", staged, "error", err)
		return out, err
	}

	pages, err := Preflight(staged)
	if err != nil {
		_ = os.Remove(staged)
		i.Logger.Warn("preflight rejected upload", "filename", filename, "error", err)
		return out, err
	}

	now := time.Now().UTC()
	row, err := i.FilesRepo.Create(ctx, workspaceID, staged, filename, ext, len(content), sum[:], now)
	if err != nil {
		return out, err
	}
	if pages > 0 {
		_ = i.FilesRepo.SetPageCount(ctx, row.ID, pages)
	}

	i.Logger.Info("upload staged", "workspace_id", workspaceID, "file_id", row.ID, "path", staged, "pages", pages)
	out = IngestionResult{
		SourcePath:   staged,
		FileID:       row.ID.String(),
		Deduplicated: false,
		HashHex:      hashHex,
		FileExt:      ext,
		PageCount:    pages,
		UploadedAt:   row.UploadedAt,
	}
	return out, nil
}
