package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/echomind/internal/client/remote"
	"github.com/iudanet/echomind/internal/models"
	"github.com/iudanet/echomind/pkg/api"
)

// Apply применяет одну операцию на удаленной базе.
// add на существующий id превращается в update, update на отсутствующий в insert:
// удаленная база работает по принципу last-writer-wins.
func Apply(ctx context.Context, db RemoteDatabase, op *models.PendingOperation) error {
	if op.Kind == models.OperationDelete {
		return db.Delete(ctx, op.Collection, remote.Eq(api.ColumnID, op.RecordID))
	}

	if op.Record == nil {
		return fmt.Errorf("operation %s has no record snapshot", op.ID)
	}
	row := remote.RowFromRecord(op.Record)

	switch op.Kind {
	case models.OperationAdd:
		err := db.Insert(ctx, op.Collection, row)
		if errors.Is(err, remote.ErrConflict) {
			return db.Update(ctx, op.Collection, row, remote.Eq(api.ColumnID, op.RecordID))
		}
		return err
	case models.OperationUpdate:
		err := db.Update(ctx, op.Collection, row, remote.Eq(api.ColumnID, op.RecordID))
		if errors.Is(err, remote.ErrNotFound) {
			return db.Insert(ctx, op.Collection, row)
		}
		return err
	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}
