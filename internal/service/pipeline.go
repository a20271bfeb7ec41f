package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rotorops/fleetboard/internal/db"
	"github.com/rotorops/fleetboard/internal/duesheet"
	"github.com/rotorops/fleetboard/internal/models"
	"github.com/rotorops/fleetboard/internal/publish"
)

// Pipeline runs one end-to-end build: assemble the report, write the
// JSON artifact, and fan out to the optional sinks. Only the build and
// the report file are load-bearing; archive, due sheet, and publish
// failures are logged and the run still succeeds.
type Pipeline struct {
	Builder      *Builder
	ReportPath   string
	DueSheetPath string
	Archive      *db.Store
	Publisher    publish.Publisher
	Logger       zerolog.Logger
}

func (p *Pipeline) Run(ctx context.Context) (*models.Report, error) {
	rep, err := p.Builder.Build()
	if err != nil {
		return nil, err
	}
	if err := WriteReportFile(p.ReportPath, rep); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	p.Logger.Info().Str("path", p.ReportPath).Str("run_id", rep.Meta.RunID).Msg("report written")

	var sheet []byte
	if p.DueSheetPath != "" || p.Publisher != nil {
		sheet, err = duesheet.Render(rep)
		if err != nil {
			p.Logger.Error().Err(err).Msg("due sheet render failed")
			sheet = nil
		}
	}
	if p.DueSheetPath != "" && sheet != nil {
		if err := writeSheet(p.DueSheetPath, sheet); err != nil {
			p.Logger.Error().Err(err).Str("path", p.DueSheetPath).Msg("due sheet write failed")
		} else {
			p.Logger.Info().Str("path", p.DueSheetPath).Msg("due sheet written")
		}
	}

	if p.Archive != nil {
		if err := p.Archive.ArchiveRun(ctx, rep); err != nil {
			p.Logger.Error().Err(err).Str("run_id", rep.Meta.RunID).Msg("archive failed")
		}
	}

	if p.Publisher != nil {
		p.publishArtifact(ctx, "dashboard.json", "application/json", reportBytes(p.ReportPath))
		p.publishArtifact(ctx, "due_sheet.pdf", "application/pdf", sheet)
	}
	return rep, nil
}

func (p *Pipeline) publishArtifact(ctx context.Context, key, contentType string, body []byte) {
	if body == nil {
		return
	}
	loc, err := p.Publisher.Publish(ctx, key, contentType, body)
	if err != nil {
		p.Logger.Error().Err(err).Str("key", key).Msg("publish failed")
		return
	}
	if loc != "" {
		p.Logger.Info().Str("location", loc).Msg("published")
	}
}

// reportBytes rereads the artifact so the published object is exactly
// the file readers see.
func reportBytes(path string) []byte {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return b
}

func writeSheet(path string, raw []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
