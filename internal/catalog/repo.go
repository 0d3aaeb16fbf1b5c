package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/pagination"
)

type Repo struct{ DB *pgxpool.Pool }

const bookColumns = `id, title, author, isbn, price, description, cover_image, created_at, updated_at`

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Price,
		&b.Description, &b.CoverImage, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *Repo) ListBooks(ctx context.Context, p pagination.Page) ([]Book, int, error) {
	var total int
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title, id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachCategoryIDs(ctx, books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *Repo) GetBook(ctx context.Context, id string) (Book, error) {
	b, err := scanBook(r.DB.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Book{}, apperr.NotFound("can't find book with id: %s", id)
	}
	if err != nil {
		return Book{}, err
	}
	books := []Book{b}
	if err := r.attachCategoryIDs(ctx, books); err != nil {
		return Book{}, err
	}
	return books[0], nil
}

func (r *Repo) CreateBook(ctx context.Context, b Book) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO books(id, title, author, isbn, price, description, cover_image, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		b.ID, b.Title, b.Author, b.ISBN, b.Price, b.Description, b.CoverImage, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return translateBookErr(err)
	}
	if err := insertBookCategories(ctx, tx, b.ID, b.CategoryIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) UpdateBook(ctx context.Context, b Book) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE books SET title=$2, author=$3, isbn=$4, price=$5, description=$6, cover_image=$7, updated_at=$8
		WHERE id=$1`,
		b.ID, b.Title, b.Author, b.ISBN, b.Price, b.Description, b.CoverImage, b.UpdatedAt)
	if err != nil {
		return translateBookErr(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("can't find book with id: %s", b.ID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM book_categories WHERE book_id=$1`, b.ID); err != nil {
		return err
	}
	if err := insertBookCategories(ctx, tx, b.ID, b.CategoryIDs); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) DeleteBook(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("can't find book with id: %s", id)
	}
	return nil
}

func (r *Repo) SearchBooksByISBN(ctx context.Context, isbns []string) ([]Book, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+bookColumns+` FROM books WHERE isbn = ANY($1) ORDER BY isbn`, isbns)
	if err != nil {
		return nil, err
	}
	books, err := collectBooks(rows)
	if err != nil {
		return nil, err
	}
	if err := r.attachCategoryIDs(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *Repo) ListBooksByCategory(ctx context.Context, categoryID string, p pagination.Page) ([]Book, int, error) {
	if _, err := r.GetCategory(ctx, categoryID); err != nil {
		return nil, 0, err
	}
	var total int
	err := r.DB.QueryRow(ctx,
		`SELECT count(*) FROM book_categories WHERE category_id=$1`, categoryID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx, `
		SELECT b.id, b.title, b.author, b.isbn, b.price, b.description, b.cover_image, b.created_at, b.updated_at
		FROM books b
		JOIN book_categories bc ON bc.book_id = b.id
		WHERE bc.category_id=$1
		ORDER BY b.title, b.id
		LIMIT $2 OFFSET $3`, categoryID, p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// ResolveCategoryIDs returns the subset of ids that exist.
func (r *Repo) ResolveCategoryIDs(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT id FROM categories WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repo) ListCategories(ctx context.Context, p pagination.Page) ([]Category, int, error) {
	var total int
	if err := r.DB.QueryRow(ctx, `SELECT count(*) FROM categories`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, description FROM categories ORDER BY name, id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, description FROM categories WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, apperr.NotFound("can't find category with id: %s", id)
	}
	return c, err
}

func (r *Repo) CreateCategory(ctx context.Context, c Category) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO categories(id, name, description) VALUES ($1,$2,$3)`,
		c.ID, c.Name, c.Description)
	return err
}

func (r *Repo) UpdateCategory(ctx context.Context, c Category) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE categories SET name=$2, description=$3 WHERE id=$1`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("can't find category with id: %s", c.ID)
	}
	return nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("can't find category with id: %s", id)
	}
	return nil
}

func collectBooks(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()
	var out []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Price,
			&b.Description, &b.CoverImage, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// attachCategoryIDs eager-loads the category ids for every book in one query.
func (r *Repo) attachCategoryIDs(ctx context.Context, books []Book) error {
	if len(books) == 0 {
		return nil
	}
	ids := make([]string, len(books))
	idx := make(map[string]int, len(books))
	for i, b := range books {
		ids[i] = b.ID
		idx[b.ID] = i
	}
	rows, err := r.DB.Query(ctx,
		`SELECT book_id, category_id FROM book_categories WHERE book_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var bookID, catID string
		if err := rows.Scan(&bookID, &catID); err != nil {
			return err
		}
		i := idx[bookID]
		books[i].CategoryIDs = append(books[i].CategoryIDs, catID)
	}
	return rows.Err()
}

func insertBookCategories(ctx context.Context, tx pgx.Tx, bookID string, categoryIDs []string) error {
	for _, catID := range categoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO book_categories(book_id, category_id) VALUES ($1,$2)`,
			bookID, catID); err != nil {
			return err
		}
	}
	return nil
}

func translateBookErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Validation("book with this isbn already exists",
			apperr.FieldError{Field: "isbn", Message: "already exists"})
	}
	return err
}
