package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore-api/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetByUser(ctx context.Context, userID string) (Cart, error) {
	var c Cart
	err := r.DB.QueryRow(ctx,
		`SELECT id, user_id FROM shopping_carts WHERE user_id=$1`, userID).
		Scan(&c.ID, &c.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Cart{}, apperr.NotFound("can't find shopping cart for user: %s", userID)
	}
	if err != nil {
		return Cart{}, err
	}
	c.Items, err = r.loadItems(ctx, c.ID)
	return c, err
}

// CreateForUser is idempotent: the unique constraint on user_id guarantees
// at most one cart per user no matter how often this runs.
func (r *Repo) CreateForUser(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO shopping_carts(id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
		uuid.NewString(), userID)
	return err
}

// AddItem merges additively on the (cart_id, book_id) unique constraint, so
// two racing adds of the same book end up as one line with the summed
// quantity instead of a duplicate row.
func (r *Repo) AddItem(ctx context.Context, cartID, bookID string, quantity int) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cart_items(id, cart_id, book_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		uuid.NewString(), cartID, bookID, quantity)
	return err
}

// UpdateItemQuantity overwrites the quantity of an item scoped to the given
// cart. The cart_id predicate is the ownership boundary: items in other
// users' carts are indistinguishable from missing ones.
func (r *Repo) UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE cart_items SET quantity=$3 WHERE id=$1 AND cart_id=$2`,
		itemID, cartID, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("can't find cart item with id: %s", itemID)
	}
	return nil
}

func (r *Repo) DeleteItem(ctx context.Context, cartID, itemID string) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM cart_items WHERE id=$1 AND cart_id=$2`, itemID, cartID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("can't find cart item with id: %s", itemID)
	}
	return nil
}

func (r *Repo) loadItems(ctx context.Context, cartID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.book_id, b.title, b.price, ci.quantity
		FROM cart_items ci
		JOIN books b ON b.id = ci.book_id
		WHERE ci.cart_id=$1
		ORDER BY b.title, ci.id`, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.BookID, &it.BookTitle, &it.BookPrice, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
