package entity

import "database/sql"

// Follow is either a user follow (FollowingID set) or a topic follow (TopicID
// set), never both.
type Follow struct {
	Base
	FollowerID  string         `gorm:"size:36;uniqueIndex:idx_follows_user;uniqueIndex:idx_follows_topic"`
	Follower    User           `gorm:"foreignKey:FollowerID"`
	FollowingID sql.NullString `gorm:"size:36;uniqueIndex:idx_follows_user;check:chk_follows_target,(following_id IS NULL) <> (topic_id IS NULL)"`
	TopicID     sql.NullString `gorm:"size:36;uniqueIndex:idx_follows_topic;index"`
}
