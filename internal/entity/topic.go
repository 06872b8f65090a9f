package entity

type Topic struct {
	Base
	Title         string `gorm:"size:255"`
	CreatedBy     string `gorm:"size:36"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`
	IsPublic      bool
}

type Post struct {
	Base
	Content       string `gorm:"type:text"`
	CreatedBy     string `gorm:"size:36;index"`
	CreatedByUser User   `gorm:"foreignKey:CreatedBy"`
	TopicID       string `gorm:"size:36;index"`
	Topic         Topic  `gorm:"foreignKey:TopicID"`
}
