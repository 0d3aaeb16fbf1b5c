package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/pagination"
)

type Repo struct{ DB *pgxpool.Pool }

// PlaceFromCart writes the order with its items and drains the source cart
// in one transaction. Either the order exists and the cart is empty, or
// neither happened.
func (r *Repo) PlaceFromCart(ctx context.Context, o Order, cartID string) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, status, total, order_date)
		VALUES ($1,$2,$3,$4,$5)`,
		o.ID, o.UserID, string(o.Status), o.Total, o.OrderDate)
	if err != nil {
		return err
	}
	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, book_id, quantity, price)
			VALUES ($1,$2,$3,$4,$5)`,
			it.ID, it.OrderID, it.BookID, it.Quantity, it.Price)
		if err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx,
		`SELECT id, user_id, status, total, order_date FROM orders WHERE id=$1`, orderID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.OrderDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFound("can't find order with id: %s", orderID)
	}
	if err != nil {
		return Order{}, err
	}
	orders := []Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string, p pagination.Page) ([]Order, int, error) {
	var total int
	err := r.DB.QueryRow(ctx,
		`SELECT count(*) FROM orders WHERE user_id=$1`, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, status, total, order_date
		FROM orders WHERE user_id=$1
		ORDER BY order_date DESC, id
		LIMIT $2 OFFSET $3`, userID, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.OrderDate); err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListItems filters on (order_id, owner) in one predicate. An order that
// exists but belongs to someone else yields an empty page, same as a
// missing order.
func (r *Repo) ListItems(ctx context.Context, orderID, userID string, p pagination.Page) ([]Item, int, error) {
	var total int
	err := r.DB.QueryRow(ctx, `
		SELECT count(*)
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE oi.order_id=$1 AND o.user_id=$2`, orderID, userID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.book_id, oi.quantity, oi.price
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE oi.order_id=$1 AND o.user_id=$2
		ORDER BY oi.id
		LIMIT $3 OFFSET $4`, orderID, userID, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *Repo) GetItem(ctx context.Context, orderID, itemID, userID string) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx, `
		SELECT oi.id, oi.order_id, oi.book_id, oi.quantity, oi.price
		FROM order_items oi JOIN orders o ON o.id = oi.order_id
		WHERE oi.id=$1 AND oi.order_id=$2 AND o.user_id=$3`,
		itemID, orderID, userID).
		Scan(&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, apperr.NotFound("can't find order item with id: %s", itemID)
	}
	return it, err
}

func (r *Repo) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE orders SET status=$2 WHERE id=$1`, orderID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("can't find order with id: %s", orderID)
	}
	return nil
}

func (r *Repo) attachItems(ctx context.Context, orders []Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	idx := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		idx[o.ID] = i
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, book_id, quantity, price
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return err
	}
	items, err := collectItems(rows)
	if err != nil {
		return err
	}
	for _, it := range items {
		i := idx[it.OrderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	return nil
}

func collectItems(rows pgx.Rows) ([]Item, error) {
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
