package models

// Board is the root of the kanban hierarchy. CreatedBy is nil for boards that
// predate ownership (legacy/anonymous boards); writes to those are open.
type Board struct {
	ID        string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string  `gorm:"type:varchar(255);not null" json:"name"`
	Color     string  `gorm:"type:varchar(32);not null" json:"color"`
	CreatedBy *string `gorm:"type:varchar(191);index" json:"createdBy,omitempty"`
	CreatedAt int64   `gorm:"autoCreateTime:milli" json:"createdAt"`

	// Relations
	Columns []Column `gorm:"foreignKey:BoardID;references:ID" json:"columns,omitempty"`
	Items   []Item   `gorm:"foreignKey:BoardID;references:ID" json:"items,omitempty"`
}

// Column is an ordered lane on a board. Order is a 1-based sequence assigned
// at creation and never renumbered, so deletions leave gaps.
type Column struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	BoardID string `gorm:"type:varchar(36);index;not null" json:"boardId"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	Order   int    `gorm:"column:sort_order;not null" json:"order"`
}

// Item is a card on a board, denormalized with both its column and board ids.
type Item struct {
	ID       string  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title    string  `gorm:"type:varchar(255);not null" json:"title"`
	Content  *string `gorm:"type:text" json:"content,omitempty"`
	Order    int     `gorm:"column:sort_order;not null" json:"order"`
	ColumnID string  `gorm:"type:varchar(36);index;not null" json:"columnId"`
	BoardID  string  `gorm:"type:varchar(36);index;not null" json:"boardId"`
}
