package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/orris-inc/rollcall/internal/infrastructure/persistence/models"
	"github.com/orris-inc/rollcall/internal/shared/db"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

const settingDeviceID = "device_id"

// DeviceIdentityRepository implements device.IdentityStore on the local_settings table.
type DeviceIdentityRepository struct {
	db        *gorm.DB
	txManager *db.TransactionManager
	logger    logger.Interface
	newID     func() string
}

func NewDeviceIdentityRepository(gdb *gorm.DB, log logger.Interface) *DeviceIdentityRepository {
	return &DeviceIdentityRepository{
		db:        gdb,
		txManager: db.NewTransactionManager(gdb),
		logger:    log,
		newID:     uuid.NewString,
	}
}

// GetOrCreateDeviceID returns the persisted id, creating it on first call.
func (r *DeviceIdentityRepository) GetOrCreateDeviceID(ctx context.Context) (string, error) {
	var setting models.LocalSettingModel

	err := r.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		return db.GetTxFromContext(txCtx, r.db).
			Where(models.LocalSettingModel{Key: settingDeviceID}).
			Attrs(models.LocalSettingModel{Value: r.newID()}).
			FirstOrCreate(&setting).Error
	})
	if err != nil {
		r.logger.Errorw("failed to load device id", "error", err)
		return "", fmt.Errorf("failed to load device id: %w", err)
	}

	return setting.Value, nil
}

// MemoryDeviceIdentity keeps a device id for the life of the process.
type MemoryDeviceIdentity struct {
	id string
}

func NewMemoryDeviceIdentity() *MemoryDeviceIdentity {
	return &MemoryDeviceIdentity{id: uuid.NewString()}
}

func (m *MemoryDeviceIdentity) GetOrCreateDeviceID(context.Context) (string, error) {
	return m.id, nil
}
