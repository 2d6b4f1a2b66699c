package config

import (
	"log/slog"
	"os"
)

// InitLogger cria o logger JSON estruturado e o define como padrão do
// processo.
func InitLogger(level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
