package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/spawnkit/internal/model"
)

// ErrSpawnerNotFound is returned when a spawner id has no row.
var ErrSpawnerNotFound = errors.New("spawner not found")

// SpawnerStore persists spawner definitions in PostgreSQL.
// Implements spawn.SpawnerRepository.
type SpawnerStore struct {
	pool *pgxpool.Pool
}

// NewSpawnerStore creates a new spawner store.
func NewSpawnerStore(pool *pgxpool.Pool) *SpawnerStore {
	return &SpawnerStore{pool: pool}
}

const spawnerColumns = `id, active,
	anchor_x, anchor_y, anchor_z, anchor_pitch, anchor_yaw, anchor_roll,
	random_x, random_y, random_z, random_pitch, random_yaw, random_roll,
	spawn_all_at_once, spawn_in_order, grid_fill,
	capacity, interval_sec, random_interval, min_interval_sec, max_interval_sec,
	extent_x, extent_y, extent_z, grid_spacing,
	visual_effect, sound`

func scanSpawner(row pgx.Row) (model.SpawnerConfig, error) {
	var c model.SpawnerConfig
	a := &c.Anchor
	err := row.Scan(
		&c.ID, &c.Active,
		&a.Position[0], &a.Position[1], &a.Position[2],
		&a.Rotation.Pitch, &a.Rotation.Yaw, &a.Rotation.Roll,
		&c.RandomLocation.X, &c.RandomLocation.Y, &c.RandomLocation.Z,
		&c.RandomRotation.Pitch, &c.RandomRotation.Yaw, &c.RandomRotation.Roll,
		&c.SpawnAllAtOnce, &c.SpawnInOrder, &c.GridFill,
		&c.Capacity, &c.Interval, &c.RandomInterval, &c.MinInterval, &c.MaxInterval,
		&c.Extent[0], &c.Extent[1], &c.Extent[2], &c.GridSpacing,
		&c.VisualEffect, &c.Sound,
	)
	return c, err
}

// LoadAll loads every spawner with its prototype list, ordered by id.
func (s *SpawnerStore) LoadAll(ctx context.Context) ([]model.SpawnerConfig, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+spawnerColumns+` FROM spawners ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying spawners: %w", err)
	}
	defer rows.Close()

	var out []model.SpawnerConfig
	index := make(map[string]int)
	for rows.Next() {
		c, err := scanSpawner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning spawner row: %w", err)
		}
		index[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spawner rows: %w", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	protoRows, err := s.pool.Query(ctx,
		`SELECT spawner_id, prototype FROM spawner_prototypes ORDER BY spawner_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying spawner prototypes: %w", err)
	}
	defer protoRows.Close()

	for protoRows.Next() {
		var id, proto string
		if err := protoRows.Scan(&id, &proto); err != nil {
			return nil, fmt.Errorf("scanning prototype row: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		out[i].Prototypes = append(out[i].Prototypes, model.PrototypeID(proto))
	}
	if err := protoRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prototype rows: %w", err)
	}

	return out, nil
}

// LoadByID loads a single spawner.
func (s *SpawnerStore) LoadByID(ctx context.Context, id string) (model.SpawnerConfig, error) {
	c, err := scanSpawner(s.pool.QueryRow(ctx,
		`SELECT `+spawnerColumns+` FROM spawners WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SpawnerConfig{}, fmt.Errorf("spawner %q: %w", id, ErrSpawnerNotFound)
		}
		return model.SpawnerConfig{}, fmt.Errorf("loading spawner %q: %w", id, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT prototype FROM spawner_prototypes WHERE spawner_id = $1 ORDER BY position`, id)
	if err != nil {
		return model.SpawnerConfig{}, fmt.Errorf("querying prototypes for %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var proto string
		if err := rows.Scan(&proto); err != nil {
			return model.SpawnerConfig{}, fmt.Errorf("scanning prototype for %q: %w", id, err)
		}
		c.Prototypes = append(c.Prototypes, model.PrototypeID(proto))
	}
	if err := rows.Err(); err != nil {
		return model.SpawnerConfig{}, fmt.Errorf("iterating prototypes for %q: %w", id, err)
	}

	return c, nil
}

// Save validates and upserts the spawner, replacing its prototype list
// in the same transaction.
func (s *SpawnerStore) Save(ctx context.Context, c *model.SpawnerConfig) error {
	if c.ID == "" {
		return errors.New("saving spawner: empty id")
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("saving spawner: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "spawner", c.ID, "error", err)
		}
	}()

	a := c.Anchor
	_, err = tx.Exec(ctx, `
		INSERT INTO spawners (`+spawnerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		ON CONFLICT (id) DO UPDATE SET
			active = EXCLUDED.active,
			anchor_x = EXCLUDED.anchor_x, anchor_y = EXCLUDED.anchor_y, anchor_z = EXCLUDED.anchor_z,
			anchor_pitch = EXCLUDED.anchor_pitch, anchor_yaw = EXCLUDED.anchor_yaw, anchor_roll = EXCLUDED.anchor_roll,
			random_x = EXCLUDED.random_x, random_y = EXCLUDED.random_y, random_z = EXCLUDED.random_z,
			random_pitch = EXCLUDED.random_pitch, random_yaw = EXCLUDED.random_yaw, random_roll = EXCLUDED.random_roll,
			spawn_all_at_once = EXCLUDED.spawn_all_at_once,
			spawn_in_order = EXCLUDED.spawn_in_order,
			grid_fill = EXCLUDED.grid_fill,
			capacity = EXCLUDED.capacity,
			interval_sec = EXCLUDED.interval_sec,
			random_interval = EXCLUDED.random_interval,
			min_interval_sec = EXCLUDED.min_interval_sec,
			max_interval_sec = EXCLUDED.max_interval_sec,
			extent_x = EXCLUDED.extent_x, extent_y = EXCLUDED.extent_y, extent_z = EXCLUDED.extent_z,
			grid_spacing = EXCLUDED.grid_spacing,
			visual_effect = EXCLUDED.visual_effect,
			sound = EXCLUDED.sound,
			updated_at = now()`,
		c.ID, c.Active,
		a.Position[0], a.Position[1], a.Position[2],
		a.Rotation.Pitch, a.Rotation.Yaw, a.Rotation.Roll,
		c.RandomLocation.X, c.RandomLocation.Y, c.RandomLocation.Z,
		c.RandomRotation.Pitch, c.RandomRotation.Yaw, c.RandomRotation.Roll,
		c.SpawnAllAtOnce, c.SpawnInOrder, c.GridFill,
		c.Capacity, c.Interval, c.RandomInterval, c.MinInterval, c.MaxInterval,
		c.Extent[0], c.Extent[1], c.Extent[2], c.GridSpacing,
		c.VisualEffect, c.Sound,
	)
	if err != nil {
		return fmt.Errorf("upserting spawner %q: %w", c.ID, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM spawner_prototypes WHERE spawner_id = $1`, c.ID); err != nil {
		return fmt.Errorf("clearing prototypes for %q: %w", c.ID, err)
	}

	if len(c.Prototypes) > 0 {
		rows := make([][]any, 0, len(c.Prototypes))
		for i, p := range c.Prototypes {
			rows = append(rows, []any{c.ID, int32(i), string(p)})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"spawner_prototypes"},
			[]string{"spawner_id", "position", "prototype"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copying prototypes for %q: %w", c.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing spawner %q: %w", c.ID, err)
	}
	return nil
}

// Delete removes the spawner and its prototypes. Missing id is not an error.
func (s *SpawnerStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM spawners WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting spawner %q: %w", id, err)
	}
	return nil
}
