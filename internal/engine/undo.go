package engine

import (
	"context"
	"errors"

	"github.com/valeriaulyamaeva/finance-tracker/models"
)

// Буфер отмены живёт только в памяти процесса и не переживает перезапуск.
const undoLimit = 5

var ErrUndoEmpty = errors.New("буфер отмены пуст")

func (e *Engine) pushUndo(t models.Transaction) {
	e.undo = append(e.undo, t)
	if len(e.undo) > undoLimit {
		e.undo = e.undo[len(e.undo)-undoLimit:]
	}
}

func (e *Engine) removeUndo(id int) {
	for i := range e.undo {
		if e.undo[i].ID == id {
			e.undo = append(e.undo[:i], e.undo[i+1:]...)
			return
		}
	}
}

// UndoBuffer возвращает копию буфера отмены, от старых удалений к новым.
func (e *Engine) UndoBuffer() []models.Transaction {
	buf := make([]models.Transaction, len(e.undo))
	copy(buf, e.undo)
	return buf
}

// Undo восстанавливает последнюю удалённую транзакцию.
func (e *Engine) Undo(ctx context.Context) (*models.Transaction, error) {
	if len(e.undo) == 0 {
		return nil, ErrUndoEmpty
	}
	last := e.undo[len(e.undo)-1]
	return e.Restore(ctx, last)
}
