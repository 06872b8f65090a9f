package entity

type Migration struct {
	Version int `gorm:"primaryKey;autoIncrement:false"`
}
