package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/PrayerLoop/initializers"
	"github.com/PrayerLoop/models"
)

// WallStore is the persistence the wall directory needs. InsertWall must
// return an error matching ErrUniqueViolation when (organization, week)
// already exists.
type WallStore interface {
	OrganizationExists(ctx context.Context, orgID int) (bool, error)
	FindWall(ctx context.Context, orgID int, week models.WeekKey) (models.Wall, bool, error)
	FindWallByID(ctx context.Context, wallID int) (models.Wall, bool, error)
	InsertWall(ctx context.Context, wall *models.Wall) error
	CountWallStats(ctx context.Context, wall models.Wall, rng WeekRange) (models.WallStats, error)
	UpdateWallStats(ctx context.Context, wallID int, stats models.WallStats) error
}

// DBWallStore implements WallStore on initializers.DB.
type DBWallStore struct{}

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

// PrayerScope selects the live prayers belonging to wall. Legacy rows that
// predate wall references are matched by organization and creation time.
func PrayerScope(wall models.Wall, rng WeekRange) exp.Expression {
	return goqu.And(
		goqu.I("prayer.deleted").IsFalse(),
		goqu.Or(
			goqu.I("prayer.wall_id").Eq(wall.Wall_ID),
			goqu.And(
				goqu.I("prayer.wall_id").IsNull(),
				goqu.I("prayer.organization_id").Eq(wall.Organization_ID),
				goqu.I("prayer.datetime_create").Gte(rng.StartUTC),
				goqu.I("prayer.datetime_create").Lt(rng.EndUTC),
			),
		),
	)
}

func (DBWallStore) OrganizationExists(ctx context.Context, orgID int) (bool, error) {
	var id int
	found, err := initializers.DB.From("organization").
		Select("organization_id").
		Where(goqu.C("organization_id").Eq(orgID)).
		ScanValContext(ctx, &id)
	if err != nil {
		return false, fmt.Errorf("lookup organization %d: %w", orgID, err)
	}
	return found, nil
}

func (DBWallStore) FindWall(ctx context.Context, orgID int, week models.WeekKey) (models.Wall, bool, error) {
	var wall models.Wall
	found, err := initializers.DB.From("wall").
		Where(
			goqu.C("organization_id").Eq(orgID),
			goqu.C("week_key").Eq(string(week)),
		).
		ScanStructContext(ctx, &wall)
	if err != nil {
		return models.Wall{}, false, fmt.Errorf("lookup wall %d/%s: %w", orgID, week, err)
	}
	return wall, found, nil
}

func (DBWallStore) FindWallByID(ctx context.Context, wallID int) (models.Wall, bool, error) {
	var wall models.Wall
	found, err := initializers.DB.From("wall").
		Where(goqu.C("wall_id").Eq(wallID)).
		ScanStructContext(ctx, &wall)
	if err != nil {
		return models.Wall{}, false, fmt.Errorf("lookup wall %d: %w", wallID, err)
	}
	return wall, found, nil
}

func (DBWallStore) InsertWall(ctx context.Context, wall *models.Wall) error {
	insert := initializers.DB.Insert("wall").
		Rows(goqu.Record{
			"organization_id": wall.Organization_ID,
			"week_key":        string(wall.Week_Key),
			"is_active":       wall.Is_Active,
			"theme":           wall.Theme,
			"created_by":      wall.Created_By,
		}).
		Returning("wall_id", "datetime_create")

	var inserted struct {
		Wall_ID         int       `db:"wall_id"`
		Datetime_Create time.Time `db:"datetime_create"`
	}
	_, err := insert.Executor().ScanStructContext(ctx, &inserted)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert wall %d/%s: %w", wall.Organization_ID, wall.Week_Key, ErrUniqueViolation)
		}
		return fmt.Errorf("insert wall %d/%s: %w", wall.Organization_ID, wall.Week_Key, err)
	}

	wall.Wall_ID = inserted.Wall_ID
	wall.Datetime_Create = inserted.Datetime_Create
	return nil
}

func (DBWallStore) CountWallStats(ctx context.Context, wall models.Wall, rng WeekRange) (models.WallStats, error) {
	var stats models.WallStats
	scope := PrayerScope(wall, rng)

	_, err := initializers.DB.From("prayer").
		Select(goqu.COUNT("*")).
		Where(scope).
		ScanValContext(ctx, &stats.PrayerCount)
	if err != nil {
		return stats, fmt.Errorf("count prayers: %w", err)
	}

	_, err = initializers.DB.From("prayer").
		Select(goqu.L("COUNT(DISTINCT COALESCE(CAST(prayer.user_profile_id AS TEXT), 'guest:' || prayer.author_name))")).
		Where(scope).
		ScanValContext(ctx, &stats.ParticipantCount)
	if err != nil {
		return stats, fmt.Errorf("count participants: %w", err)
	}

	_, err = initializers.DB.From("prayer_like").
		Select(goqu.COUNT("*")).
		Join(goqu.T("prayer"), goqu.On(goqu.I("prayer.prayer_id").Eq(goqu.I("prayer_like.prayer_id")))).
		Where(scope).
		ScanValContext(ctx, &stats.TotalLikes)
	if err != nil {
		return stats, fmt.Errorf("count likes: %w", err)
	}

	_, err = initializers.DB.From("prayer_comment").
		Select(goqu.COUNT("*")).
		Join(goqu.T("prayer"), goqu.On(goqu.I("prayer.prayer_id").Eq(goqu.I("prayer_comment.prayer_id")))).
		Where(scope).
		ScanValContext(ctx, &stats.TotalComments)
	if err != nil {
		return stats, fmt.Errorf("count comments: %w", err)
	}

	return stats, nil
}

func (DBWallStore) UpdateWallStats(ctx context.Context, wallID int, stats models.WallStats) error {
	_, err := initializers.DB.Update("wall").
		Set(goqu.Record{
			"prayer_count":      stats.PrayerCount,
			"participant_count": stats.ParticipantCount,
			"total_likes":       stats.TotalLikes,
			"total_comments":    stats.TotalComments,
			"stats_updated_at":  goqu.L("NOW()"),
		}).
		Where(goqu.C("wall_id").Eq(wallID)).
		Executor().ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update wall %d stats: %w", wallID, err)
	}
	return nil
}
