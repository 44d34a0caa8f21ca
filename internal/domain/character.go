package domain

import "time"

// Character is a player's sheet record. CurrentXP and TotalXP always move by
// the same delta on an award; nothing ties them together beyond that. The
// Portrait column holds the gzip-compressed image and is only ever expanded
// at the read boundary. Sheet is an opaque JSON document the server stores
// and returns verbatim.
type Character struct {
	ID                   uint   `gorm:"primaryKey"`
	UserID               uint   `gorm:"index;not null"`
	Name                 string `gorm:"type:varchar(191);not null"`
	IdentificationNumber int64
	Realm                Realm  `gorm:"type:varchar(32);not null"`
	Aptitude             string `gorm:"type:varchar(191)"`
	CurrentXP            int64  `gorm:"column:current_xp;not null;default:0"`
	TotalXP              int64  `gorm:"column:total_xp;not null;default:0"`
	Portrait             []byte `gorm:"type:mediumblob"`
	Sheet                string `gorm:"type:longtext"`
	Age                  int
	Level                int       `gorm:"not null;default:0"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}
