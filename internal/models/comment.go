package models

import (
	"database/sql"
	"time"
)

// Comment is a reply to exactly one thread. Comments are leaves: they
// carry no title and no child counter.
type Comment struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id_comentario"`
	ThreadID       int64          `gorm:"not null;index:idx_forum_comentario_tema;column:id_tema"`
	AuthorID       int64          `gorm:"not null;index;column:id_utilizador"`
	Body           sql.NullString `gorm:"type:text;column:texto"`
	AttachmentURL  sql.NullString `gorm:"type:varchar(255);column:anexo_url"`
	AttachmentName sql.NullString `gorm:"type:varchar(100);column:anexo_nome"`
	AttachmentKind sql.NullString `gorm:"type:varchar(20);column:tipo_anexo"`
	Likes          int            `gorm:"not null;default:0;column:likes"`
	Dislikes       int            `gorm:"not null;default:0;column:dislikes"`
	Flagged        bool           `gorm:"not null;default:false;column:foi_denunciado"`
	Hidden         bool           `gorm:"not null;default:false;column:oculto"`
	CreatedAt      time.Time      `gorm:"not null;column:data_criacao"`

	Thread *Thread `gorm:"foreignKey:ThreadID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "forum_comentario"
}
