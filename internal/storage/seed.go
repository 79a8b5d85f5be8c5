package storage

import (
	"context"
	"fmt"

	"github.com/linemk/storefront/internal/domain/models"
)

// seedProducts is the fixed catalog inserted on first run, ids 1-9.
var seedProducts = []models.Product{
	{ID: 1, Name: "高階機械鍵盤", Category: "3C周邊", Price: 3500, Image: "https://dlcdnwebimgs.asus.com/gain/848074E4-FB9F-414D-BFCA-70DB410AD363/fwebp"},
	{ID: 2, Name: "電競無線滑鼠", Category: "3C周邊", Price: 1800, Image: "https://blog.shopping.gamania.com/_next/image?url=https%3A%2F%2Fcdn.sanity.io%2Fimages%2F3wl0vtkq%2Fproduction%2Fc27c7cb593c30cb7e67a49a8df41cb3e3d3804ab-1200x720.png&w=3840&q=75"},
	{ID: 3, Name: "降噪耳機", Category: "影音設備", Price: 5200, Image: "https://helios-i.mashable.com/imagery/comparisons/27.fill.size_1200x675.v1751067039.jpg"},
	{ID: 4, Name: "人體工學椅", Category: "辦公家具", Price: 8000, Image: "https://piinterior-net.sfo3.digitaloceanspaces.com/wp-content/uploads/2024/12/scimgFhtCHm.webp"},
	{ID: 5, Name: "Type-C集線器", Category: "3C周邊", Price: 900, Image: "https://i0.wp.com/lpcomment.com/wp-content/uploads/2017/04/%E6%83%85%E5%A2%83%E5%9C%967.jpg?fit=760%2C438&ssl=1"},
	{ID: 6, Name: "4K螢幕", Category: "影音設備", Price: 12000, Image: "https://attach.mobile01.com/attach/202411/mobile01-457221a9759255cc1832ddffa7d8e2f9.jpg"},
	{ID: 7, Name: "音響", Category: "影音設備", Price: 6000, Image: "https://attach.mobile01.com/attach/202411/mobile01-457221a9759255cc1832ddffa7d8e2f9.jpg"},
	{ID: 8, Name: "麥克風", Category: "影音設備", Price: 3000, Image: "https://attach.mobile01.com/attach/202411/mobile01-457221a9759255cc1832ddffa7d8e2f9.jpg"},
	{ID: 9, Name: "派大星", Category: "玩具", Price: 300, Image: "https://images.seeklogo.com/logo-png/32/1/patrick-star-logo-png_seeklogo-320105.png"},
}

// Seeder bootstraps the catalog on first run.
type Seeder interface {
	// EnsureSeedProducts inserts the fixed sample catalog when the products
	// table is empty. Idempotent: skipped entirely if any row exists.
	// Returns the number of rows inserted.
	EnsureSeedProducts(ctx context.Context) (int, error)
}

func (r *productRepository) EnsureSeedProducts(ctx context.Context) (int, error) {
	var count int
	row := r.db.QueryRowContext(ctx, "SELECT count(*) FROM products")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for _, p := range seedProducts {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO products (id, name, category, price, image) VALUES ($1, $2, $3, $4, $5)",
			p.ID, p.Name, p.Category, p.Price, p.Image,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert seed product %d: %w", p.ID, err)
		}
	}
	// seed rows carry explicit ids, move the sequence past them
	if _, err := r.db.ExecContext(ctx,
		"SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT max(id) FROM products))",
	); err != nil {
		return 0, fmt.Errorf("failed to advance products id sequence: %w", err)
	}
	return len(seedProducts), nil
}
