package services

import (
	"context"

	"github.com/PrayerLoop/initializers"
)

var (
	weekClock        *WeekClock
	wallDirectory    *WallDirectory
	visibilityFilter *VisibilityFilter
	statsRefresher   *StatsRefresher
)

// InitWallServices builds the week clock, wall directory, visibility filter
// and moderation filter from configuration and starts the stats refresher.
func InitWallServices(ctx context.Context, cfg initializers.AppConfig) error {
	if err := InitModerationFilter(cfg.ModerationTermsPath); err != nil {
		return err
	}

	clock := NewWeekClock(cfg.Location, nil, cfg.WeekHorizonWeeks)
	directory := NewWallDirectory(DBWallStore{}, clock)
	refresher := NewStatsRefresher(directory.RefreshWallStats, cfg.StatsRefreshWorkers, cfg.StatsQueueSize)
	directory.UseRefresher(refresher)
	refresher.Start(ctx)

	SetWallServices(clock, directory, NewVisibilityFilter(clock, cfg.DefaultVisibilityWeeks), refresher)
	return nil
}

// SetWallServices installs the shared instances used by the controllers.
func SetWallServices(clock *WeekClock, directory *WallDirectory, visibility *VisibilityFilter, refresher *StatsRefresher) {
	weekClock = clock
	wallDirectory = directory
	visibilityFilter = visibility
	statsRefresher = refresher
}

func StopWallServices() {
	if statsRefresher != nil {
		statsRefresher.Stop()
	}
}

func GetWeekClock() *WeekClock {
	return weekClock
}

func GetWallDirectory() *WallDirectory {
	return wallDirectory
}

func GetVisibilityFilter() *VisibilityFilter {
	return visibilityFilter
}
