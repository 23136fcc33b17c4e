package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"ExploreTg-App/internal/domain/model"
	"ExploreTg-App/internal/domain/repository"
	"ExploreTg-App/internal/infrastructure/database"
)

type PostgresPlacesRepository struct {
	client *database.PostgreSQLClient
}

func NewPostgresPlacesRepository(client *database.PostgreSQLClient) repository.PlacesRepository {
	return &PostgresPlacesRepository{
		client: client,
	}
}

// 列名が外部APIのJSONキーと同じなので、行をそのままJSONにして model.Place にデコードする
const (
	selectAllPlacesQuery = `SELECT row_to_json(l)::text FROM lieux l ORDER BY l.id`
	selectPlaceByIDQuery = `SELECT row_to_json(l)::text FROM lieux l WHERE l.id::text = $1`
)

func (r *PostgresPlacesRepository) FindAll(ctx context.Context) ([]model.Place, error) {
	rows, err := r.client.DB.QueryContext(ctx, selectAllPlacesQuery)
	if err != nil {
		return nil, fmt.Errorf("lieuxデータ取得失敗: %w", err)
	}
	defer rows.Close()

	places := []model.Place{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("lieuxデータスキャンエラー: %w", err)
		}
		place, err := decodePlaceRow(raw)
		if err != nil {
			return nil, err
		}
		places = append(places, *place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lieuxデータ読み込みエラー: %w", err)
	}
	return places, nil
}

func (r *PostgresPlacesRepository) FindByID(ctx context.Context, id model.PlaceID) (*model.Place, error) {
	var raw string
	err := r.client.DB.QueryRowContext(ctx, selectPlaceByIDQuery, id.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlaceNotFound
		}
		return nil, fmt.Errorf("lieu %s の取得失敗: %w", id, err)
	}
	return decodePlaceRow(raw)
}

func decodePlaceRow(raw string) (*model.Place, error) {
	var place model.Place
	if err := json.Unmarshal([]byte(raw), &place); err != nil {
		return nil, fmt.Errorf("lieu行のJSONパースエラー: %w", err)
	}
	return &place, nil
}
