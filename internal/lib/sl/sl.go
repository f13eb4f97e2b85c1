// Package sl содержит вспомогательные функции для структурированного
// логирования через slog.
package sl

import "log/slog"

// Err оборачивает ошибку в slog.Attr с ключом "error", чтобы все
// записи об ошибках в логе имели одинаковую форму.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}
