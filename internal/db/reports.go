package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eduflow/campus/internal/models"
)

// ReportRepository provides moderation ledger database operations
type ReportRepository struct {
	*Repository
}

// NewReportRepository creates a new report repository
func NewReportRepository(repo *Repository) *ReportRepository {
	return &ReportRepository{Repository: repo}
}

// Create inserts a report and flags its target in one transaction.
// Returns false without error when the reporter has already reported
// this target; the unique index keeps that check race-free across
// concurrent requests. Re-flagging an already-flagged target is a
// no-op.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) (bool, error) {
	var created bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(report)
		if res.Error != nil {
			return res.Error
		}
		created = res.RowsAffected > 0
		if !created {
			return nil
		}

		table, pk := targetTable(report.TargetKind)
		return tx.Exec(fmt.Sprintf(
			`UPDATE %s SET foi_denunciado = true WHERE %s = ?`, table, pk),
			report.TargetID,
		).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// ListByTarget retrieves a target's reports, newest first
func (r *ReportRepository) ListByTarget(ctx context.Context, targetKind string, targetID int64) ([]models.Report, error) {
	var reports []models.Report
	if err := r.db.WithContext(ctx).
		Where("tipo_alvo = ? AND id_alvo = ?", targetKind, targetID).
		Order("data_denuncia DESC").
		Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// Resolve marks an open report resolved. Returns false when the report
// does not exist or was already resolved.
func (r *ReportRepository) Resolve(ctx context.Context, reportID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND resolvida = false", reportID).
		UpdateColumn("resolvida", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
