package usecases

import (
	"context"

	"github.com/orris-inc/rollcall/internal/domain/device"
	"github.com/orris-inc/rollcall/internal/shared/errors"
	"github.com/orris-inc/rollcall/internal/shared/logger"
)

// DeviceProfile is the static part of the fingerprint, taken from configuration.
type DeviceProfile struct {
	UserAgent        string
	ScreenResolution string
}

type GetDeviceUseCase struct {
	identity device.IdentityStore
	profile  DeviceProfile
	logger   logger.Interface
}

func NewGetDeviceUseCase(identity device.IdentityStore, profile DeviceProfile, logger logger.Interface) *GetDeviceUseCase {
	return &GetDeviceUseCase{identity: identity, profile: profile, logger: logger}
}

// Execute returns this device's fingerprint, creating the device id on first use.
func (uc *GetDeviceUseCase) Execute(ctx context.Context) (*device.Fingerprint, error) {
	id, err := uc.identity.GetOrCreateDeviceID(ctx)
	if err != nil {
		uc.logger.Errorw("failed to resolve device id", "error", err)
		return nil, errors.NewInternalError("device identity unavailable")
	}
	return &device.Fingerprint{
		DeviceID:         id,
		UserAgent:        uc.profile.UserAgent,
		ScreenResolution: uc.profile.ScreenResolution,
	}, nil
}
