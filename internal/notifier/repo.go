package notifier

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Record(ctx context.Context, n Notification) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO notifications(id, order_id, user_id, kind, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		n.ID, n.OrderID, n.UserID, n.Kind, n.CreatedAt)
	return err
}
