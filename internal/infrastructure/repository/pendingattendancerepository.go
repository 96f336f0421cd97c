package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/rollcall/internal/domain/proof"
	"github.com/orris-inc/rollcall/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/rollcall/internal/infrastructure/persistence/models"
	"github.com/orris-inc/rollcall/internal/shared/db"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// PendingAttendanceRepository implements proof.Store on sqlite through gorm.
type PendingAttendanceRepository struct {
	db        *gorm.DB
	txManager *db.TransactionManager
	mapper    mappers.PendingAttendanceMapper
	logger    logger.Interface
}

func NewPendingAttendanceRepository(gdb *gorm.DB, log logger.Interface) *PendingAttendanceRepository {
	return &PendingAttendanceRepository{
		db:        gdb,
		txManager: db.NewTransactionManager(gdb),
		mapper:    mappers.NewPendingAttendanceMapper(),
		logger:    log,
	}
}

// Put checks for an existing attempt and inserts inside one transaction.
// The unique index backs the check if two writers race past it.
func (r *PendingAttendanceRepository) Put(ctx context.Context, record *proof.Record) error {
	model, err := r.mapper.ToModel(record)
	if err != nil {
		return err
	}

	err = r.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		tx := db.GetTxFromContext(txCtx, r.db)

		var count int64
		if err := tx.Model(&models.PendingAttendanceModel{}).
			Where("id = ? OR (student_id = ? AND session_id = ?)", model.ID, model.StudentID, model.SessionID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check existing attempt: %w", err)
		}
		if count > 0 {
			return proof.ErrDuplicateAttempt
		}

		if err := tx.Create(model).Error; err != nil {
			if errors.IsDuplicateError(err) {
				return proof.ErrDuplicateAttempt
			}
			return fmt.Errorf("failed to save pending attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		if !stderrors.Is(err, proof.ErrDuplicateAttempt) {
			r.logger.Errorw("failed to save pending attendance", "id", record.ID, "error", err)
		}
		return err
	}

	r.logger.Infow("pending attendance saved", "id", record.ID, "session_id", record.SessionID)
	return nil
}

func (r *PendingAttendanceRepository) List(ctx context.Context) ([]*proof.Record, error) {
	var list []*models.PendingAttendanceModel
	if err := db.GetTxFromContext(ctx, r.db).Find(&list).Error; err != nil {
		r.logger.Errorw("failed to list pending attendance", "error", err)
		return nil, fmt.Errorf("failed to list pending attendance: %w", err)
	}
	return r.mapper.ToEntities(list), nil
}

func (r *PendingAttendanceRepository) Get(ctx context.Context, id string) (*proof.Record, error) {
	var model models.PendingAttendanceModel
	err := db.GetTxFromContext(ctx, r.db).Where("id = ?", id).First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pending attendance: %w", err)
	}
	return r.mapper.ToEntity(&model), nil
}

func (r *PendingAttendanceRepository) Remove(ctx context.Context, id string) error {
	err := r.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return db.GetTxFromContext(txCtx, r.db).
			Where("id = ?", id).
			Delete(&models.PendingAttendanceModel{}).Error
	})
	if err != nil {
		r.logger.Errorw("failed to remove pending attendance", "id", id, "error", err)
		return fmt.Errorf("failed to remove pending attendance %s: %w", id, err)
	}
	return nil
}

func (r *PendingAttendanceRepository) Clear(ctx context.Context) error {
	err := r.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return db.GetTxFromContext(txCtx, r.db).
			Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.PendingAttendanceModel{}).Error
	})
	if err != nil {
		r.logger.Errorw("failed to clear pending attendance", "error", err)
		return fmt.Errorf("failed to clear pending attendance: %w", err)
	}
	r.logger.Infow("pending attendance cleared")
	return nil
}

func (r *PendingAttendanceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.PendingAttendanceModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending attendance: %w", err)
	}
	return count, nil
}
