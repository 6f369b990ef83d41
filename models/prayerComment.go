package models

import "time"

// Comment represents a comment on a prayer
type Comment struct {
	Comment_ID      int       `json:"commentId" db:"comment_id" goqu:"skipinsert"`
	Prayer_ID       int       `json:"prayerId" db:"prayer_id"`
	User_Profile_ID int       `json:"userProfileId" db:"user_profile_id"`
	Comment_Text    string    `json:"commentText" db:"comment_text"`
	DateTime_Create time.Time `json:"datetimeCreate" db:"datetime_create" goqu:"skipinsert"`
}

// CommentCreate represents the request body for creating a comment
type CommentCreate struct {
	Comment_Text string `json:"commentText"`
}

// CommentWithUser includes commenter information for display purposes
type CommentWithUser struct {
	Comment
	Commenter_Name string `json:"commenterName" db:"commenter_name"`
}
