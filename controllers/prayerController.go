package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
	"github.com/PrayerLoop/services"
)

// loadPrayer fetches a live prayer by ID.
func loadPrayer(ctx context.Context, prayerID int) (models.Prayer, error) {
	var prayer models.Prayer
	found, err := initializers.DB.From("prayer").
		Where(goqu.C("prayer_id").Eq(prayerID), goqu.C("deleted").IsFalse()).
		ScanStructContext(ctx, &prayer)
	if err != nil {
		return models.Prayer{}, &services.StorageError{Op: "load prayer", Err: err}
	}
	if !found {
		return models.Prayer{}, services.ErrPrayerNotFound
	}
	return prayer, nil
}

// requireEditable enforces that only the author may change a prayer, and
// only while its week is still the current week.
func requireEditable(prayer models.Prayer, actorID int) error {
	if !prayer.IsAuthoredBy(actorID) {
		return services.ErrForbidden
	}
	clock := services.GetWeekClock()
	if !clock.IsCurrentWeek(clock.WeekKeyFor(prayer.Datetime_Create)) {
		return services.ErrForbidden
	}
	return nil
}

// moderate rejects text the moderation filter flags. Detected terms are
// logged by count only.
func moderate(kind string, parts ...string) error {
	result := services.GetModerationFilter().FilterParts(parts...)
	if !result.IsValid {
		log.Printf("Rejected %s: %d flagged term(s)", kind, len(result.DetectedTerms))
		return services.ErrModerationRejected
	}
	return nil
}

func recordHistory(prayerID int, userID int, action string) {
	go func() {
		entry := models.PrayerEditHistory{
			Prayer_ID:       prayerID,
			User_Profile_ID: userID,
			Action_Type:     action,
		}
		_, err := initializers.DB.Insert("prayer_edit_history").Rows(entry).Executor().Exec()
		if err != nil {
			log.Printf("Failed to log prayer %s to history: %v", action, err)
		}
	}()
}

// SubmitPrayer adds a prayer to the organization's wall for the current
// week. Guests may submit; they must supply an author name.
func SubmitPrayer(c *gin.Context) {
	orgID, ok := paramID(c, "organization_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization ID"})
		return
	}

	var req models.PrayerSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	actorID := currentUserID(c)
	if actorID != nil && req.Author_Name == "" {
		req.Author_Name = c.MustGet("currentUser").(models.UserProfile).First_Name
	}

	content := req.Resolve()
	if err := content.Validate(); err != nil {
		respondError(c, err)
		return
	}
	authorName, err := models.ValidateAuthorName(req.Author_Name)
	if err != nil {
		respondError(c, err)
		return
	}
	fellowship, ok := models.NormalizeFellowship(req.Fellowship)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fellowship", "field": "fellowship"})
		return
	}

	if err := moderate("prayer", append(content.Parts(), authorName)...); err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	directory := services.GetWallDirectory()
	clock := directory.Clock()
	now := clock.Now()

	wall, _, err := directory.GetOrCreateWall(ctx, clock.WeekKeyFor(now), orgID, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	thanksgiving, intercession := models.Sections(content)
	wallID := wall.Wall_ID
	prayer := models.Prayer{
		Wall_ID:         &wallID,
		Organization_ID: orgID,
		User_Profile_ID: actorID,
		Author_Name:     authorName,
		Content:         content.Display(),
		Thanksgiving:    thanksgiving,
		Intercession:    intercession,
		Fellowship:      fellowship,
		Datetime_Create: now,
		Datetime_Update: now,
	}

	insert := initializers.DB.Insert("prayer").Rows(prayer).Returning("prayer_id")
	if _, err := insert.Executor().ScanValContext(ctx, &prayer.Prayer_ID); err != nil {
		respondError(c, &services.StorageError{Op: "create prayer", Err: err})
		return
	}

	directory.ScheduleStatsRefresh(wall.Wall_ID)
	if actorID != nil {
		recordHistory(prayer.Prayer_ID, *actorID, models.HistoryActionCreated)
	}

	c.JSON(http.StatusCreated, prayer)
}

func UpdatePrayer(c *gin.Context) {
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

	var req models.PrayerUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	if !req.HasContent() && req.Fellowship == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var content models.PrayerContent
	if req.HasContent() {
		content = req.Resolve()
		if err := content.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := moderate("prayer update", content.Parts()...); err != nil {
			respondError(c, err)
			return
		}
	}

	var fellowship string
	if req.Fellowship != nil {
		f, ok := models.NormalizeFellowship(*req.Fellowship)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fellowship", "field": "fellowship"})
			return
		}
		fellowship = f
	}

	ctx := c.Request.Context()
	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := requireEditable(prayer, *actorID); err != nil {
		respondError(c, err)
		return
	}

	now := services.GetWeekClock().Now()
	record := goqu.Record{"datetime_update": now}
	if content != nil {
		prayer.Content = content.Display()
		prayer.Thanksgiving, prayer.Intercession = models.Sections(content)
		record["content"] = prayer.Content
		record["thanksgiving"] = prayer.Thanksgiving
		record["intercession"] = prayer.Intercession
	}
	if req.Fellowship != nil {
		prayer.Fellowship = fellowship
		record["fellowship"] = fellowship
	}
	prayer.Datetime_Update = now

	result, err := initializers.DB.Update("prayer").
		Set(record).
		Where(goqu.C("prayer_id").Eq(prayerID), goqu.C("deleted").IsFalse()).
		Executor().ExecContext(ctx)
	if err != nil {
		respondError(c, &services.StorageError{Op: "update prayer", Err: err})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		respondError(c, services.ErrPrayerNotFound)
		return
	}

	recordHistory(prayerID, *actorID, models.HistoryActionEdited)

	c.JSON(http.StatusOK, prayer)
}

func DeletePrayer(c *gin.Context) {
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

	ctx := c.Request.Context()
	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := requireEditable(prayer, *actorID); err != nil {
		respondError(c, err)
		return
	}

	result, err := initializers.DB.Update("prayer").
		Set(goqu.Record{"deleted": true}).
		Where(goqu.C("prayer_id").Eq(prayerID), goqu.C("deleted").IsFalse()).
		Executor().ExecContext(ctx)
	if err != nil {
		respondError(c, &services.StorageError{Op: "delete prayer", Err: err})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		respondError(c, services.ErrPrayerNotFound)
		return
	}

	if prayer.Wall_ID != nil {
		services.GetWallDirectory().ScheduleStatsRefresh(*prayer.Wall_ID)
	}
	recordHistory(prayerID, *actorID, models.HistoryActionDeleted)

	c.JSON(http.StatusOK, gin.H{"message": "Prayer deleted successfully"})
}

// GetPrayerHistory returns the edit history of a prayer to its author.
func GetPrayerHistory(c *gin.Context) {
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

	ctx := c.Request.Context()
	prayer, err := loadPrayer(ctx, prayerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !prayer.IsAuthoredBy(*actorID) {
		respondError(c, services.ErrForbidden)
		return
	}

	history := []models.HistoryEntry{}
	err = initializers.DB.From("prayer_edit_history").
		Select(
			goqu.I("prayer_edit_history.prayer_edit_history_id"),
			goqu.I("prayer_edit_history.action_type"),
			goqu.I("prayer_edit_history.user_profile_id"),
			goqu.L("COALESCE(user_profile.first_name, user_profile.username, 'Unknown')").As("actor_name"),
			goqu.I("prayer_edit_history.datetime_create"),
		).
		Join(
			goqu.T("user_profile"),
			goqu.On(goqu.I("prayer_edit_history.user_profile_id").Eq(goqu.I("user_profile.user_profile_id"))),
		).
		Where(goqu.I("prayer_edit_history.prayer_id").Eq(prayerID)).
		Order(goqu.I("prayer_edit_history.datetime_create").Asc()).
		ScanStructsContext(ctx, &history)
	if err != nil {
		respondError(c, &services.StorageError{Op: "load prayer history", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
