package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"pension-backend/models"
)

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

type RoomFilter struct {
	Available *bool
	Floor     *int
	RoomType  string
}

type FloorDetails struct {
	Floor   int                 `json:"floor"`
	Rooms   []models.Room       `json:"rooms"`
	Media   []models.RoomMedia  `json:"media"`
	Reviews []models.RoomReview `json:"reviews"`
}

func primaryMediaFirst(db *gorm.DB) *gorm.DB {
	return db.Order("is_primary DESC, created_at ASC")
}

// ListRooms sorts by floor, then room number.
func (s *CatalogService) ListRooms(ctx context.Context, f RoomFilter) ([]models.Room, error) {
	q := s.DB.WithContext(ctx).Model(&models.Room{})
	if f.Available != nil {
		q = q.Where("is_available = ?", *f.Available)
	}
	if f.Floor != nil {
		q = q.Where("floor = ?", *f.Floor)
	}
	if f.RoomType != "" {
		q = q.Where("room_type = ?", f.RoomType)
	}

	rooms := []models.Room{}
	if err := q.Order("floor ASC, room_number ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve rooms: %w", err)
	}
	return rooms, nil
}

func (s *CatalogService) ListFloorRooms(ctx context.Context, floor int) ([]models.Room, error) {
	rooms := []models.Room{}
	err := s.DB.WithContext(ctx).
		Where("floor = ?", floor).
		Order("room_number ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve floor %d rooms: %w", floor, err)
	}
	return rooms, nil
}

func (s *CatalogService) GetRoom(ctx context.Context, id string) (*models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).
		Preload("Media", primaryMediaFirst).
		Where("id = ?", id).
		First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve room: %w", err)
	}
	return &room, nil
}

// FloorDetails is the floor page: its rooms plus their media and featured reviews.
func (s *CatalogService) FloorDetails(ctx context.Context, floor int) (*FloorDetails, error) {
	rooms, err := s.ListFloorRooms(ctx, floor)
	if err != nil {
		return nil, err
	}
	details := &FloorDetails{
		Floor:   floor,
		Rooms:   rooms,
		Media:   []models.RoomMedia{},
		Reviews: []models.RoomReview{},
	}
	if len(rooms) == 0 {
		return details, nil
	}

	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}

	db := s.DB.WithContext(ctx)
	if err := primaryMediaFirst(db.Where("room_id IN ?", ids)).Find(&details.Media).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve room media: %w", err)
	}
	err = db.Where("room_id IN ? AND is_featured = ?", ids, true).
		Order("created_at DESC").
		Find(&details.Reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}
	return details, nil
}

// PickAvailableRooms returns the first n available rooms, or
// ErrNotEnoughRooms when fewer are open.
func (s *CatalogService) PickAvailableRooms(ctx context.Context, n int) ([]models.Room, error) {
	if n < 1 {
		return nil, ValidationError{Message: "Number of rooms must be at least 1"}
	}
	rooms := []models.Room{}
	err := s.DB.WithContext(ctx).
		Where("is_available = ?", true).
		Order("floor ASC, room_number ASC").
		Limit(n).
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve available rooms: %w", err)
	}
	if len(rooms) < n {
		return nil, fmt.Errorf("%w: requested %d, %d open", ErrNotEnoughRooms, n, len(rooms))
	}
	return rooms, nil
}
