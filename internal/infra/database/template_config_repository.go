package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/ligue-profile-flow/internal/entity"
)

const templateColumns = `id, config_name, template_name, template_language, phone_number_id, access_token,
	verify_token, header_media, header_media_id, header_media_type, is_default, is_active, created_at, updated_at`

type TemplateConfigRepository struct {
	DB *sql.DB
}

func NewTemplateConfigRepository(db *sql.DB) *TemplateConfigRepository {
	return &TemplateConfigRepository{DB: db}
}

// Create grava a configuração. Se ela for a padrão, as demais deixam de ser
// na mesma transação.
func (r *TemplateConfigRepository) Create(ctx context.Context, t *entity.TemplateConfig) error {
	query := `
		INSERT INTO template_configs (config_name, template_name, template_language, phone_number_id, access_token,
			verify_token, header_media, header_media_id, header_media_type, is_default, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if t.IsDefault {
			if err := clearDefault(ctx, tx, 0); err != nil {
				return err
			}
		}
		return tx.QueryRowContext(ctx, query,
			t.ConfigName,
			t.TemplateName,
			t.TemplateLanguage,
			t.PhoneNumberID,
			t.AccessToken,
			t.VerifyToken,
			t.HeaderMedia,
			t.HeaderMediaID,
			t.HeaderMediaType,
			t.IsDefault,
			t.IsActive,
		).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	})
}

func (r *TemplateConfigRepository) Update(ctx context.Context, t *entity.TemplateConfig) error {
	query := `
		UPDATE template_configs
		SET config_name = $1, template_name = $2, template_language = $3, phone_number_id = $4,
			access_token = $5, verify_token = $6, header_media = $7, header_media_id = $8,
			header_media_type = $9, is_default = $10, updated_at = $11
		WHERE id = $12 AND is_active
	`

	t.UpdatedAt = time.Now()
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if t.IsDefault {
			if err := clearDefault(ctx, tx, t.ID); err != nil {
				return err
			}
		}
		res, err := tx.ExecContext(ctx, query,
			t.ConfigName,
			t.TemplateName,
			t.TemplateLanguage,
			t.PhoneNumberID,
			t.AccessToken,
			t.VerifyToken,
			t.HeaderMedia,
			t.HeaderMediaID,
			t.HeaderMediaType,
			t.IsDefault,
			t.UpdatedAt,
			t.ID,
		)
		return affectedOr(res, err, entity.ErrTemplateConfigNotFound)
	})
}

func (r *TemplateConfigRepository) FindByID(ctx context.Context, id int64) (*entity.TemplateConfig, error) {
	query := `SELECT ` + templateColumns + ` FROM template_configs WHERE id = $1 AND is_active`
	return scanTemplate(r.DB.QueryRowContext(ctx, query, id))
}

func (r *TemplateConfigRepository) FindDefault(ctx context.Context) (*entity.TemplateConfig, error) {
	query := `SELECT ` + templateColumns + ` FROM template_configs WHERE is_default AND is_active LIMIT 1`
	return scanTemplate(r.DB.QueryRowContext(ctx, query))
}

func (r *TemplateConfigRepository) ListActive(ctx context.Context) ([]*entity.TemplateConfig, error) {
	query := `SELECT ` + templateColumns + ` FROM template_configs WHERE is_active ORDER BY is_default DESC, created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*entity.TemplateConfig
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, t)
	}
	return configs, rows.Err()
}

// clearDefault desmarca a padrão atual, exceto keepID.
func clearDefault(ctx context.Context, tx *sql.Tx, keepID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE template_configs SET is_default = FALSE WHERE is_default AND id <> $1`, keepID)
	return err
}

// withTx faz commit quando fn termina sem erro e rollback caso contrário.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("falha ao iniciar transação: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}
	return nil
}

// Deactivate é soft delete; a configuração deixa de ser padrão também.
func (r *TemplateConfigRepository) Deactivate(ctx context.Context, id int64) error {
	query := `UPDATE template_configs SET is_active = FALSE, is_default = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`
	res, err := r.DB.ExecContext(ctx, query, id)
	return affectedOr(res, err, entity.ErrTemplateConfigNotFound)
}

func scanTemplate(row rowScanner) (*entity.TemplateConfig, error) {
	var t entity.TemplateConfig
	err := row.Scan(
		&t.ID,
		&t.ConfigName,
		&t.TemplateName,
		&t.TemplateLanguage,
		&t.PhoneNumberID,
		&t.AccessToken,
		&t.VerifyToken,
		&t.HeaderMedia,
		&t.HeaderMediaID,
		&t.HeaderMediaType,
		&t.IsDefault,
		&t.IsActive,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTemplateConfigNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
