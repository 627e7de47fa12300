package postgres

import (
	"context"

	"github.com/evmap-service/internal/domain"
	"github.com/evmap-service/internal/domain/repository"
	"github.com/evmap-service/internal/pkg/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type favoritesRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewFavoritesRepository(db *DB) repository.FavoritesRepository {
	return &favoritesRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *favoritesRepository) AssignmentsFor(ctx context.Context, userID int64) (map[uuid.UUID]int64, error) {
	query := `
		SELECT entity_id, folder_id
		FROM favorite_assignments
		WHERE user_id = $1
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to load favorite assignments",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}
	defer rows.Close()

	assignments := make(map[uuid.UUID]int64)
	for rows.Next() {
		var entityID uuid.UUID
		var folderID int64
		if err := rows.Scan(&entityID, &folderID); err != nil {
			r.logger.Error("Failed to scan favorite assignment", zap.Error(err))
			return nil, errors.ErrDatabaseError
		}
		assignments[entityID] = folderID
	}
	if err := rows.Err(); err != nil {
		return nil, errors.ErrDatabaseError
	}

	return assignments, nil
}

func (r *favoritesRepository) FoldersFor(ctx context.Context, userID int64) ([]*domain.FavoriteFolder, error) {
	query := `
		SELECT id, name, icon, type, item_limit
		FROM favorite_folders
		WHERE user_id = $1
		ORDER BY id
	`

	var folders []*domain.FavoriteFolder
	if err := r.db.SelectContext(ctx, &folders, query, userID); err != nil {
		r.logger.Error("Failed to load favorite folders",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, errors.ErrDatabaseError
	}

	return folders, nil
}
