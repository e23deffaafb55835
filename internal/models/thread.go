package models

import (
	"database/sql"
	"time"
)

// Thread is a top-level post inside a topic. Like/dislike/comment
// counters are denormalized from the vote ledger and comment table and
// are only ever mutated through atomic store-level expressions.
type Thread struct {
	ID             int64          `gorm:"primaryKey;autoIncrement;column:id_tema"`
	TopicID        int64          `gorm:"not null;index:idx_forum_tema_topico;column:id_topico"`
	AuthorID       int64          `gorm:"not null;index:idx_forum_tema_utilizador;column:id_utilizador"`
	Title          sql.NullString `gorm:"type:varchar(255);column:titulo"`
	Body           sql.NullString `gorm:"type:text;column:texto"`
	AttachmentURL  sql.NullString `gorm:"type:varchar(255);column:anexo_url"`
	AttachmentName sql.NullString `gorm:"type:varchar(100);column:anexo_nome"`
	AttachmentKind sql.NullString `gorm:"type:varchar(20);column:tipo_anexo"`
	Likes          int            `gorm:"not null;default:0;column:likes"`
	Dislikes       int            `gorm:"not null;default:0;column:dislikes"`
	Comments       int            `gorm:"not null;default:0;column:comentarios"`
	Flagged        bool           `gorm:"not null;default:false;column:foi_denunciado"`
	Hidden         bool           `gorm:"not null;default:false;column:oculto"`
	CreatedAt      time.Time      `gorm:"not null;column:data_criacao"`

	Topic *Topic `gorm:"foreignKey:TopicID;references:ID"`
}

// TableName specifies the table name for Thread
func (Thread) TableName() string {
	return "forum_tema"
}
