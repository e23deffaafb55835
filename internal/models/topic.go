package models

import "time"

// Category is the owning course category a topic is scoped to.
// Category management itself lives outside this service; only the name
// is needed here, to derive the attachment directory for a topic.
type Category struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id_categoria"`
	Name string `gorm:"type:varchar(255);not null;column:nome"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categorias"
}

// Topic is a discussion container scoped to a category/area pair.
// Topics are created by privileged actors and own threads.
type Topic struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id_topico"`
	CategoryID int64     `gorm:"not null;index;column:id_categoria"`
	AreaID     int64     `gorm:"column:id_area"`
	Title      string    `gorm:"type:varchar(255);not null;column:titulo"`
	CreatorID  int64     `gorm:"not null;column:id_utilizador"`
	CreatedAt  time.Time `gorm:"not null;column:data_criacao"`

	Category *Category `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName specifies the table name for Topic
func (Topic) TableName() string {
	return "topico_area"
}
