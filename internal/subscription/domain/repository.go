package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, subscription *Subscription) error
	FindByID(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (*Subscription, error)
	List(ctx context.Context, db *gorm.DB, userID string) ([]Subscription, error)
	Update(ctx context.Context, db *gorm.DB, subscription *Subscription) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, userID string, id snowflake.ID) (bool, error)
}
