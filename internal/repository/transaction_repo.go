package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.PaymentTransaction) error
	FindByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error)
	// FindByReferenceForUpdate takes a row-level lock so concurrent finalize
	// calls for the same reference serialize on the transaction row.
	FindByReferenceForUpdate(ctx context.Context, reference string) (*model.PaymentTransaction, error)
	Update(ctx context.Context, tx *model.PaymentTransaction) error
	ListVerified(ctx context.Context, userID uuid.UUID, category model.PaymentCategory, page, limit int) ([]model.PaymentTransaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.PaymentTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *transactionRepository) FindByReference(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	if err := GetDB(ctx, r.db).First(&tx, "reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindByReferenceForUpdate(ctx context.Context, reference string) (*model.PaymentTransaction, error) {
	var tx model.PaymentTransaction
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tx, "reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) Update(ctx context.Context, tx *model.PaymentTransaction) error {
	return GetDB(ctx, r.db).Save(tx).Error
}

func (r *transactionRepository) ListVerified(ctx context.Context, userID uuid.UUID, category model.PaymentCategory, page, limit int) ([]model.PaymentTransaction, int64, error) {
	var txs []model.PaymentTransaction
	var total int64

	db := GetDB(ctx, r.db).Model(&model.PaymentTransaction{}).
		Where("user_id = ? AND is_verified = ?", userID, true)
	if category != "" {
		db = db.Where("category = ?", category)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("payment_completed_at desc").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}
