package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Photo is a profile photo. At most one photo per user has IsMain set;
// SortOrder is the position in the user's gallery.
type Photo struct {
	bun.BaseModel `bun:"table:photos,alias:pht"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID    uuid.UUID  `bun:"user_id,notnull,type:uuid" json:"user_id,omitempty"`
	URL       string     `bun:"url,notnull" json:"url"`
	Caption   string     `bun:"caption" json:"caption,omitempty"`
	SortOrder int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
	IsMain    bool       `bun:"is_main,notnull,default:false" json:"is_main"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}
