package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/celenganapp/celengan/internal/clock"
	transactiondomain "github.com/celenganapp/celengan/internal/transaction/domain"
	"github.com/celenganapp/celengan/internal/usercontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID *snowflake.Node
	clock clock.Clock
	repo  transactiondomain.Repository
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  transactiondomain.Repository
}

func NewService(p ServiceParam) transactiondomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("transaction.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

// List implements domain.Service.
func (s *Service) List(ctx context.Context, req transactiondomain.ListTransactionRequest) ([]transactiondomain.Transaction, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return nil, transactiondomain.ErrInvalidOwner
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, s.db, userID, limit, offset)
}

// Create implements domain.Service.
func (s *Service) Create(ctx context.Context, req transactiondomain.CreateTransactionRequest) (transactiondomain.Transaction, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidOwner
	}

	if err := validate(req.Amount.IsPositive(), req.Category, req.Date.IsZero()); err != nil {
		return transactiondomain.Transaction{}, err
	}

	now := s.clock.Now()
	transaction := transactiondomain.Transaction{
		ID:        s.genID.Generate(),
		UserID:    userID,
		Amount:    req.Amount,
		Category:  strings.TrimSpace(req.Category),
		Note:      strings.TrimSpace(req.Note),
		Date:      req.Date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &transaction); err != nil {
		return transactiondomain.Transaction{}, err
	}
	return transaction, nil
}

// Update implements domain.Service.
func (s *Service) Update(ctx context.Context, req transactiondomain.UpdateTransactionRequest) (transactiondomain.Transaction, error) {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidOwner
	}

	id, err := snowflake.ParseString(strings.TrimSpace(req.ID))
	if err != nil {
		return transactiondomain.Transaction{}, transactiondomain.ErrInvalidTransaction
	}

	if err := validate(req.Amount.IsPositive(), req.Category, req.Date.IsZero()); err != nil {
		return transactiondomain.Transaction{}, err
	}

	transaction := transactiondomain.Transaction{
		ID:        id,
		UserID:    userID,
		Amount:    req.Amount,
		Category:  strings.TrimSpace(req.Category),
		Note:      strings.TrimSpace(req.Note),
		Date:      req.Date,
		UpdatedAt: s.clock.Now(),
	}

	updated, err := s.repo.Update(ctx, s.db, &transaction)
	if err != nil {
		return transactiondomain.Transaction{}, err
	}
	if !updated {
		return transactiondomain.Transaction{}, transactiondomain.ErrTransactionNotFound
	}

	stored, err := s.repo.FindByID(ctx, s.db, userID, id)
	if err != nil {
		return transactiondomain.Transaction{}, err
	}
	if stored == nil {
		return transactiondomain.Transaction{}, transactiondomain.ErrTransactionNotFound
	}
	return *stored, nil
}

// Delete implements domain.Service.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	userID, ok := usercontext.UserIDFromContext(ctx)
	if !ok {
		return transactiondomain.ErrInvalidOwner
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil {
		return transactiondomain.ErrInvalidTransaction
	}

	deleted, err := s.repo.Delete(ctx, s.db, userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return transactiondomain.ErrTransactionNotFound
	}
	return nil
}

func validate(amountPositive bool, category string, dateZero bool) error {
	if !amountPositive {
		return transactiondomain.ErrInvalidAmount
	}
	if strings.TrimSpace(category) == "" {
		return transactiondomain.ErrInvalidCategory
	}
	if dateZero {
		return transactiondomain.ErrInvalidDate
	}
	return nil
}
