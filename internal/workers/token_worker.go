package workers

import (
	"context"
	"time"

	"tranzit_backend/internal/logger"
	"tranzit_backend/internal/repositories"
)

type TokenWorker struct {
	refreshTokenRepo repositories.RefreshTokenRepository
}

func NewTokenWorker(refreshTokenRepo repositories.RefreshTokenRepository) *TokenWorker {
	return &TokenWorker{refreshTokenRepo: refreshTokenRepo}
}

// Start запускает фоновую чистку токенов
func (w *TokenWorker) Start(ctx context.Context) {
	go w.cleanExpiredTokens(ctx)
}

// cleanExpiredTokens раз в час удаляет истекшие refresh-токены
func (w *TokenWorker) cleanExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Token worker stopped")
			return
		case <-ticker.C:
			removed, err := w.refreshTokenRepo.CleanExpired()
			if err != nil {
				logger.WorkerLog("token_worker", "clean_expired", err)
			} else if removed > 0 {
				logger.Info("Удалены истекшие refresh-токены", "count", removed)
			}
		}
	}
}
