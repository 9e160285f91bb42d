package signature

import (
	"errors"

	"github.com/Kargones/apk-files/internal/fileio"
	"github.com/Kargones/apk-files/internal/pkg/apperrors"
)

// ToAppError преобразует ошибку подписи в apperrors.AppError с кодом SIGNATURE.*.
// Остальные ошибки преобразуются через fileio.ToAppError.
func ToAppError(message string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrHashMismatch), errors.Is(err, ErrNotSigned):
		return apperrors.NewAppError(apperrors.ErrSignatureMismatch, message, err)
	case errors.Is(err, ErrInvalidManifest), errors.Is(err, ErrInvalidHash):
		return apperrors.NewAppError(apperrors.ErrSignatureManifest, message, err)
	}
	return fileio.ToAppError(message, err)
}
