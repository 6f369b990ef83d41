package controllers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
)

const maxCommentLength = 500

// GetPrayerComments lists a prayer's comments, oldest first. A prayer the
// author's visibility window hides from the viewer reads as not found.
func GetPrayerComments(c *gin.Context) {
	prayerID, ok := paramID(c, "prayer_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID"})
		return
	}

	ctx := c.Request.Context()
	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}

	visible, err := visibleTo(ctx, prayer, currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if !visible {
		respondError(c, services.ErrPrayerNotFound)
		return
	}

	comments := []models.CommentWithUser{}
	err = initializers.DB.From("prayer_comment").
		Select(
			goqu.I("prayer_comment.comment_id"),
			goqu.I("prayer_comment.prayer_id"),
			goqu.I("prayer_comment.user_profile_id"),
			goqu.I("prayer_comment.comment_text"),
			goqu.I("prayer_comment.datetime_create"),
			goqu.I("user_profile.first_name").As("commenter_name"),
		).
		Join(
			goqu.T("user_profile"),
			goqu.On(goqu.I("prayer_comment.user_profile_id").Eq(goqu.I("user_profile.user_profile_id"))),
		).
		Where(goqu.I("prayer_comment.prayer_id").Eq(prayerID)).
		Order(goqu.I("prayer_comment.datetime_create").Asc()).
		ScanStructsContext(ctx, &comments)
	if err != nil {
		log.Printf("Failed to fetch comments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func visibleTo(ctx context.Context, prayer models.Prayer, viewerID *int) (bool, error) {
	prayers := []models.Prayer{prayer}
	settings, err := services.LoadVisibilitySettings(ctx, services.AuthorIDs(prayers))
	if err != nil {
		return false, err
	}
	return len(services.GetVisibilityFilter().FilterVisible(prayers, viewerID, settings)) == 1, nil
}

// CreateComment adds a moderated comment to a prayer on the current
// week's wall and notifies the prayer's author.
func CreateComment(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	prayerID, ok := paramID(c, "prayer_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID"})
		return
	}

	var req models.CommentCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	text := strings.TrimSpace(req.Comment_Text)
	if text == "" {
		respondError(c, &models.ValidationError{Field: "commentText", Message: "Comment text is required"})
		return
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		respondError(c, &models.ValidationError{Field: "commentText", Message: "Comment must be 500 characters or fewer"})
		return
	}
	if err := moderate("comment", text); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	clock := services.GetWeekClock()
	if !clock.IsCurrentWeek(clock.WeekKeyFor(prayer.Datetime_Create)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "This wall is read-only"})
		return
	}

	comment := models.Comment{
		Prayer_ID:       prayerID,
		User_Profile_ID: *actorID,
		Comment_Text:    text,
	}

	var inserted struct {
		Comment_ID      int       `db:"comment_id"`
		Datetime_Create time.Time `db:"datetime_create"`
	}
	insert := initializers.DB.Insert("prayer_comment").
		Rows(comment).
		Returning("comment_id", "datetime_create")
	if _, err := insert.Executor().ScanStructContext(ctx, &inserted); err != nil {
		respondError(c, &services.StorageError{Op: "create comment", Err: err})
		return
	}
	comment.Comment_ID = inserted.Comment_ID
	comment.DateTime_Create = inserted.Datetime_Create

	if prayer.Wall_ID != nil {
		services.GetWallDirectory().ScheduleStatsRefresh(*prayer.Wall_ID)
	}

	user := c.MustGet("currentUser").(models.UserProfile)
	if prayer.User_Profile_ID != nil {
		go services.NotifyAuthorOfComment(*prayer.User_Profile_ID, *actorID, user.First_Name, prayerID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment created successfully",
		"comment": models.CommentWithUser{Comment: comment, Commenter_Name: user.First_Name},
	})
}

// DeleteComment removes a comment. The commenter and the prayer's author
// may delete it.
func DeleteComment(c *gin.Context) {
	actorID := currentUserID(c)
	if actorID == nil {
		respondError(c, services.ErrUnauthorized)
		return
	}

	prayerID, ok := paramID(c, "prayer_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prayer ID"})
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	ctx := c.Request.Context()
	var existing models.Comment
	found, err := initializers.DB.From("prayer_comment").
		Where(goqu.C("comment_id").Eq(commentID), goqu.C("prayer_id").Eq(prayerID)).
		ScanStructContext(ctx, &existing)
	if err != nil {
		respondError(c, &services.StorageError{Op: "load comment", Err: err})
		return
	}
	if !found {
		respondError(c, services.ErrCommentNotFound)
		return
	}

	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}

	if existing.User_Profile_ID != *actorID && !prayer.IsAuthoredBy(*actorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this comment"})
		return
	}

	result, err := initializers.DB.Delete("prayer_comment").
		Where(goqu.C("comment_id").Eq(commentID)).
		Executor().ExecContext(ctx)
	if err != nil {
		respondError(c, &services.StorageError{Op: "delete comment", Err: err})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		respondError(c, services.ErrCommentNotFound)
		return
	}

	if prayer.Wall_ID != nil {
		services.GetWallDirectory().ScheduleStatsRefresh(*prayer.Wall_ID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
