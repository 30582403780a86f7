package migrate

import (
	"context"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto for gen_random_uuid
	CreateChecks           bool // CHECK constraints on enums and money
	CreateIndexes          bool // functional and composite indexes
	CreateUpdatedAtTrigger bool
	WithOutbox             bool // outbox_messages for async notifications
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateUpdatedAtTrigger: true,
		WithOutbox:             true,
	}
}

type step struct {
	name string
	sql  string
}

func run(db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.Exec(s.sql).Error; err != nil {
			log.Error("migration step failed", zap.String("step", s.name), zap.Error(err))
			return err
		}
		log.Debug("migration step applied", zap.String("step", s.name))
	}
	return nil
}

func MigrateStoreDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	db = db.WithContext(ctx)
	log.Info("starting store database migration")

	if opt.CreateExtensions {
		log.Info("creating PostgreSQL extensions")
		if err := run(db, log, []step{
			{"pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
		}); err != nil {
			return err
		}
	}

	log.Info("creating tables")
	tables := []any{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ContactMessage{},
	}
	if opt.WithOutbox {
		tables = append(tables, &models.OutboxMessage{})
	}
	if err := db.AutoMigrate(tables...); err != nil {
		log.Error("failed to create tables", zap.Error(err))
		return err
	}
	log.Info("tables created", zap.Int("count", len(tables)))

	if opt.CreateUpdatedAtTrigger {
		log.Info("creating updated_at triggers")
		steps := []step{{"set_updated_at", `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;`}}
		for _, table := range []string{"users", "categories", "products", "orders", "contact_messages"} {
			steps = append(steps, step{"trg_" + table + "_updated", `
DROP TRIGGER IF EXISTS trg_` + table + `_updated ON ` + table + `;
CREATE TRIGGER trg_` + table + `_updated BEFORE UPDATE ON ` + table + `
FOR EACH ROW EXECUTE FUNCTION set_updated_at();`})
		}
		if err := run(db, log, steps); err != nil {
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("creating CHECK constraints")
		if err := run(db, log, []step{
			{"chk_users_role", `
ALTER TABLE users DROP CONSTRAINT IF EXISTS chk_users_role;
ALTER TABLE users ADD CONSTRAINT chk_users_role CHECK (role IN ('user','admin'));`},
			{"chk_orders_status", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_status;
ALTER TABLE orders ADD CONSTRAINT chk_orders_status
  CHECK (status IN ('pending','processing','shipped','delivered','cancelled'));`},
			{"chk_orders_total", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative;
ALTER TABLE orders ADD CONSTRAINT chk_orders_total_non_negative CHECK (total >= 0);`},
			{"chk_order_items_quantity", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_quantity;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity CHECK (quantity > 0 AND quantity <= 9999);`},
			{"chk_order_items_prices", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_prices_non_negative;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_prices_non_negative CHECK (price >= 0 AND total >= 0);`},
			{"chk_products_price", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_price_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_price_non_negative CHECK (price >= 0);`},
			{"chk_products_sizes_object", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_sizes_object;
ALTER TABLE products ADD CONSTRAINT chk_products_sizes_object CHECK (jsonb_typeof(sizes) = 'object');`},
			{"chk_products_images_array", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_images_array;
ALTER TABLE products ADD CONSTRAINT chk_products_images_array CHECK (jsonb_typeof(images) = 'array');`},
			{"chk_contact_status", `
ALTER TABLE contact_messages DROP CONSTRAINT IF EXISTS chk_contact_status;
ALTER TABLE contact_messages ADD CONSTRAINT chk_contact_status CHECK (status IN ('new','read'));`},
		}); err != nil {
			return err
		}
	}

	if opt.CreateIndexes {
		log.Info("creating indexes")
		if err := run(db, log, []step{
			{"ux_users_email", `CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users (lower(email))`},
			{"ix_products_display_order", `CREATE INDEX IF NOT EXISTS ix_products_display_order ON products (display_order ASC, created_at ASC, id ASC)`},
			{"ix_orders_user_created", `CREATE INDEX IF NOT EXISTS ix_orders_user_created ON orders (user_id, created_at DESC)`},
			{"ix_orders_status_created", `CREATE INDEX IF NOT EXISTS ix_orders_status_created ON orders (status, created_at DESC)`},
		}); err != nil {
			return err
		}
		if opt.WithOutbox {
			if err := run(db, log, []step{
				{"ix_outbox_pending", `CREATE INDEX IF NOT EXISTS ix_outbox_pending ON outbox_messages (next_attempt_at) WHERE sent_at IS NULL`},
			}); err != nil {
				return err
			}
		}
	}

	log.Info("store database migration completed")
	return nil
}
