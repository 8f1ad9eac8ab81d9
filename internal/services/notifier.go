package services

import (
	"context"

	"despesas/internal/log"
)

// Level distinguishes success toasts from destructive ones.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a transient user-facing message.
type Notification struct {
	Level       Level  `json:"level"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Notifier receives the outcome of every view model operation.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier writes notifications to the structured log. It is the fallback
// when no surface is attached, e.g. in the export command.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default(log.ComponentRecords)
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Notification) {
	if msg.Level == LevelError {
		n.logger.WarnContext(ctx, "Notification", "title", msg.Title, "description", msg.Description)
		return
	}
	n.logger.InfoContext(ctx, "Notification", "title", msg.Title, "description", msg.Description)
}

// Messages shown to the user. Kept together so surfaces and tests agree.
var (
	msgLoadFailed   = Notification{LevelError, "Erro", "Não foi possível carregar as despesas."}
	msgAdded        = Notification{LevelSuccess, "Sucesso", "Despesa salva com sucesso!"}
	msgAddFailed    = Notification{LevelError, "Erro", "Não foi possível salvar a despesa."}
	msgUpdated      = Notification{LevelSuccess, "Sucesso", "Despesa atualizada com sucesso!"}
	msgUpdateFailed = Notification{LevelError, "Erro", "Não foi possível atualizar a despesa."}
	msgRemoved      = Notification{LevelSuccess, "Sucesso", "Despesa removida com sucesso!"}
	msgRemoveFailed = Notification{LevelError, "Erro", "Não foi possível remover a despesa."}
)
