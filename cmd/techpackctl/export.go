package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/haldkarsurbhi/risk-analyser-backend/gen/ent"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/common"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/export"
	repo "github.com/haldkarsurbhi/risk-analyser-backend/internal/repository"
	"github.com/haldkarsurbhi/risk-analyser-backend/internal/utils"
)

var (
	exportWorkspace string
	exportOut       string
	exportFromStr   string
	exportToStr     string
	exportFormat    string
	exportSQLite    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the styles of a workspace to XLSX or CSV",
	Long: `Export writes the style records of an existing workspace to a file.

The workspace is addressed by ID or by name. --from and --to bound the
window on each record's update time; with only --from the window runs
through today.

Example:
  techpackctl export --workspace "Local Batch" --format csv -o styles.csv`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportWorkspace, "workspace", "", "workspace ID or name (required)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (defaults to styles.xlsx or styles.csv)")
	exportCmd.Flags().StringVar(&exportFromStr, "from", "", "window start YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportToStr, "to", "", "window end YYYY-MM-DD")
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "output format, xlsx or csv")
	exportCmd.Flags().StringVar(&exportSQLite, "sqlite", "", "read from a local SQLite file instead of DB_URL")
	_ = exportCmd.MarkFlagRequired("workspace")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "xlsx" && exportFormat != "csv" {
		return fmt.Errorf("unsupported format %q, use xlsx or csv", exportFormat)
	}
	if exportOut == "" {
		exportOut = "styles." + exportFormat
	}

	var from, to *time.Time
	if exportFromStr != "" {
		parsed, err := utils.ParseYMD(exportFromStr)
		if err != nil {
			return fmt.Errorf("invalid --from date, use YYYY-MM-DD: %w", err)
		}
		from = &parsed
	}
	if exportToStr != "" {
		parsed, err := utils.ParseYMD(exportToStr)
		if err != nil {
			return fmt.Errorf("invalid --to date, use YYYY-MM-DD: %w", err)
		}
		to = &parsed
	}

	ctx := cmd.Context()
	cfg := common.LoadConfig()

	entc, pool, err := openDatabase(ctx, exportSQLite, cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close(entc, pool, logger)

	workspacesRepo := repo.NewWorkspaceRepository(entc, logger)
	ws, err := resolveWorkspace(ctx, workspacesRepo, exportWorkspace)
	if err != nil {
		return err
	}
	logger.Info("exporting workspace", "id", ws.ID, "name", ws.Name, "format", exportFormat)

	stylesRepo := repo.NewStyleRecordRepository(entc, logger)
	svc := export.NewService(stylesRepo, logger)

	var data []byte
	switch exportFormat {
	case "csv":
		data, err = svc.ExportStylesCSV(ctx, ws.ID, from, to)
	default:
		data, err = svc.ExportStylesXLSX(ctx, ws.ID, from, to)
	}
	if err != nil {
		return fmt.Errorf("export styles: %w", err)
	}

	if err := os.WriteFile(exportOut, data, 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	fmt.Printf("Exported styles of %q to %s\n", ws.Name, exportOut)
	return nil
}

// resolveWorkspace accepts a workspace UUID or an exact name. Names are
// matched against the full list, so ambiguous names resolve to the
// oldest workspace carrying them.
func resolveWorkspace(ctx context.Context, wr repo.WorkspaceRepository, ref string) (*ent.Workspace, error) {
	if id, err := uuid.Parse(ref); err == nil {
		ws, err := wr.GetByID(ctx, id)
		if err != nil {
			if ent.IsNotFound(err) {
				return nil, fmt.Errorf("no workspace with ID %s", id)
			}
			return nil, err
		}
		return ws, nil
	}
	wlist, err := wr.ListWorkspaces(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range wlist {
		if w.Name == ref {
			return w, nil
		}
	}
	return nil, fmt.Errorf("no workspace named %q", ref)
}
