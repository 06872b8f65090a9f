package entity

// User is owned by the identity provider. Only the columns this service reads
// are mapped.
type User struct {
	Base
	Username  string        `gorm:"unique;size:64"`
	Interests Array[string] `gorm:"type:text"`
	Hobbies   Array[string] `gorm:"type:text"`
}
