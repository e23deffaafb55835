package models

import (
	"database/sql"
	"time"
)

// Report is one moderation ledger row per (reporter, target). Unlike
// votes, reports never toggle: the unique index makes a second report
// by the same reporter a hard conflict.
type Report struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id"`
	ReporterID  int64          `gorm:"not null;uniqueIndex:idx_report_user_target;column:id_denunciante"`
	TargetKind  string         `gorm:"type:varchar(10);not null;uniqueIndex:idx_report_user_target;column:tipo_alvo"`
	TargetID    int64          `gorm:"not null;uniqueIndex:idx_report_user_target;index:idx_report_target;column:id_alvo"`
	Reason      string         `gorm:"type:varchar(100);not null;column:motivo"`
	Description sql.NullString `gorm:"type:text;column:descricao"`
	Resolved    bool           `gorm:"not null;default:false;column:resolvida"`
	CreatedAt   time.Time      `gorm:"not null;column:data_denuncia"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "forum_denuncia"
}
