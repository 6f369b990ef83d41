package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/PrayerLoop/models"
)

// WallDirectory resolves the weekly wall for an organization, creating it
// on first touch, and keeps its cached stats fresh.
type WallDirectory struct {
	store     WallStore
	clock     *WeekClock
	refresher *StatsRefresher
}

func NewWallDirectory(store WallStore, clock *WeekClock) *WallDirectory {
	return &WallDirectory{store: store, clock: clock}
}

// UseRefresher attaches the queue used by ScheduleStatsRefresh.
func (d *WallDirectory) UseRefresher(r *StatsRefresher) {
	d.refresher = r
}

// GetOrCreateWall returns the wall for (orgID, week). Concurrent callers
// racing to create the same wall all succeed: the loser of the insert
// re-reads the winner's row and reports created=false.
func (d *WallDirectory) GetOrCreateWall(ctx context.Context, week models.WeekKey, orgID int, actorID *int) (models.Wall, bool, error) {
	if _, err := models.ParseWeekKey(string(week)); err != nil {
		return models.Wall{}, false, err
	}

	exists, err := d.store.OrganizationExists(ctx, orgID)
	if err != nil {
		return models.Wall{}, false, storageErr("get or create wall", err)
	}
	if !exists {
		return models.Wall{}, false, ErrOrgNotFound
	}

	wall, found, err := d.store.FindWall(ctx, orgID, week)
	if err != nil {
		return models.Wall{}, false, storageErr("get or create wall", err)
	}
	if found {
		return wall, false, nil
	}

	wall = models.Wall{
		Organization_ID: orgID,
		Week_Key:        week,
		Is_Active:       true,
		Theme:           models.DefaultWallTheme,
		Created_By:      actorID,
	}
	err = d.store.InsertWall(ctx, &wall)
	if err == nil {
		log.Printf("[WallDirectory] Created wall %d for organization %d week %s", wall.Wall_ID, orgID, week)
		return wall, true, nil
	}
	if !errors.Is(err, ErrUniqueViolation) {
		return models.Wall{}, false, storageErr("create wall", err)
	}

	// lost the race; the winner's row is committed
	wall, found, err = d.store.FindWall(ctx, orgID, week)
	if err != nil {
		return models.Wall{}, false, storageErr("reread wall", err)
	}
	if !found {
		return models.Wall{}, false, storageErr("reread wall", fmt.Errorf("wall %d/%s missing after conflict", orgID, week))
	}
	return wall, false, nil
}

// ResolveWall returns the wall a reader should see for week. Walls for the
// current week and any earlier week are created on first touch. A future
// week is only looked up, and yields an inactive placeholder with Wall_ID 0
// when no wall exists, so a crafted ?week= cannot create rows ahead of time.
func (d *WallDirectory) ResolveWall(ctx context.Context, week models.WeekKey, orgID int, actorID *int) (models.Wall, error) {
	if _, err := models.ParseWeekKey(string(week)); err != nil {
		return models.Wall{}, err
	}
	// keys are zero-padded dates, so string order is calendar order
	if week <= d.clock.CurrentWeekKey() {
		wall, _, err := d.GetOrCreateWall(ctx, week, orgID, actorID)
		return wall, err
	}

	exists, err := d.store.OrganizationExists(ctx, orgID)
	if err != nil {
		return models.Wall{}, storageErr("resolve wall", err)
	}
	if !exists {
		return models.Wall{}, ErrOrgNotFound
	}

	wall, found, err := d.store.FindWall(ctx, orgID, week)
	if err != nil {
		return models.Wall{}, storageErr("resolve wall", err)
	}
	if !found {
		return models.Wall{Organization_ID: orgID, Week_Key: week, Theme: models.DefaultWallTheme}, nil
	}
	return wall, nil
}

// RefreshWallStats recomputes the wall's counts from prayer, like and
// comment rows. It is idempotent; concurrent runs converge on the same
// values.
func (d *WallDirectory) RefreshWallStats(ctx context.Context, wallID int) error {
	wall, found, err := d.store.FindWallByID(ctx, wallID)
	if err != nil {
		return storageErr("refresh wall stats", err)
	}
	if !found {
		return fmt.Errorf("refresh wall stats: wall %d not found", wallID)
	}

	rng, err := d.clock.WeekUTCRange(wall.Week_Key)
	if err != nil {
		return fmt.Errorf("refresh wall stats: %w", err)
	}

	stats, err := d.store.CountWallStats(ctx, wall, rng)
	if err != nil {
		return storageErr("refresh wall stats", err)
	}
	if err := d.store.UpdateWallStats(ctx, wallID, stats); err != nil {
		return storageErr("refresh wall stats", err)
	}
	return nil
}

// ScheduleStatsRefresh queues a refresh and returns immediately. Failures
// are logged by the refresher, never returned here.
func (d *WallDirectory) ScheduleStatsRefresh(wallID int) {
	if d.refresher == nil {
		log.Printf("[WallDirectory] No stats refresher configured, skipping wall %d", wallID)
		return
	}
	d.refresher.Submit(wallID)
}

func (d *WallDirectory) Clock() *WeekClock {
	return d.clock
}
