package cart

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	AddOrIncrement(ctx context.Context, params AddToCartParams) (*AddToCartResult, error)
	GetCartItems(ctx context.Context, userID int64) ([]*CartLine, error)
	UpdateQuantity(ctx context.Context, params UpdateCartItemParams) (bool, error)
	RemoveItem(ctx context.Context, userID, cartID int64) (bool, error)
	ClearCart(ctx context.Context, userID int64) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// AddOrIncrement inserts a cart line or, when the (user, product) line already
// exists, adds to its quantity and overwrites its price. One statement, so
// concurrent adds for the same product never lose an increment.
func (r *repository) AddOrIncrement(ctx context.Context, params AddToCartParams) (*AddToCartResult, error) {
	start := time.Now()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "AddOrIncrement"),
		zap.Int64("user_id", params.UserID),
		zap.Int64("product_id", params.ProductID),
	)

	query := `
	INSERT INTO cart (
		user_id,
		product_id,
		quantity,
		price_at_added
	)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (user_id, product_id) DO UPDATE
	SET quantity = cart.quantity + EXCLUDED.quantity,
	    price_at_added = EXCLUDED.price_at_added,
	    updated_at = NOW()
	WHERE cart.quantity + EXCLUDED.quantity <= $5
	RETURNING
		cart_id,
		user_id,
		product_id,
		quantity,
		price_at_added,
		created_at,
		updated_at,
		(xmax = 0) AS inserted
	`

	item := &CartItem{}
	var inserted bool
	err := r.db.QueryRowContext(ctx, query,
		params.UserID,
		params.ProductID,
		params.Quantity,
		params.Price,
		MaxQuantity,
	).Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.PriceAtAdded,
		&item.CreatedAt,
		&item.UpdatedAt,
		&inserted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("cart line would exceed quantity limit")
		return nil, ErrQuantityLimit
	}
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			log.Warn("product does not exist")
			return nil, ErrProductNotFound
		}
		log.Error("failed to upsert cart item", zap.Error(err))
		return nil, err
	}

	log.Debug("cart item saved",
		zap.Int64("cart_id", item.ID),
		zap.Bool("created", inserted),
		zap.Duration("duration", time.Since(start)),
	)

	return &AddToCartResult{Item: item, Created: inserted}, nil
}

func (r *repository) GetCartItems(ctx context.Context, userID int64) ([]*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCartItems"),
		zap.Int64("user_id", userID),
	)

	query := `
	SELECT
		c.cart_id,
		c.user_id,
		c.product_id,
		c.quantity,
		c.price_at_added,
		c.created_at,
		c.updated_at,
		p.name,
		p.slug,
		p.is_active
	FROM cart c
	JOIN products p ON p.product_id = c.product_id
	WHERE c.user_id = $1
	ORDER BY c.created_at ASC, c.cart_id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query cart", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lines := make([]*CartLine, 0)
	for rows.Next() {
		line := &CartLine{}
		if err := rows.Scan(
			&line.ID,
			&line.UserID,
			&line.ProductID,
			&line.Quantity,
			&line.PriceAtAdded,
			&line.CreatedAt,
			&line.UpdatedAt,
			&line.ProductName,
			&line.ProductSlug,
			&line.IsActive,
		); err != nil {
			log.Error("failed to scan cart row", zap.Error(err))
			return nil, err
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

func (r *repository) UpdateQuantity(ctx context.Context, params UpdateCartItemParams) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart
		SET quantity = $1, updated_at = NOW()
		WHERE cart_id = $2 AND user_id = $3
	`, params.Quantity, params.CartID, params.UserID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update cart quantity",
			zap.String("layer", "repository"),
			zap.Int64("cart_id", params.CartID),
			zap.Error(err),
		)
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) RemoveItem(ctx context.Context, userID, cartID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart
		WHERE cart_id = $1 AND user_id = $2
	`, cartID, userID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) ClearCart(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
