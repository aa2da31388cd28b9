// Package worker - фоновые обработчики событий и управление их жизненным циклом
package worker

import (
	"context"
)

// Worker - фоновый обработчик с явной остановкой
type Worker interface {
	// Start блокируется до остановки воркера или отмены ctx
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру завершиться; повторный вызов безопасен
	Stop() error

	Name() string
}
