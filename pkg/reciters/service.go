package reciters

import (
	"context"
	"database/sql"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type UpdateReciterOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListReciters(ctx context.Context) ([]*models.Reciter, error) {
	reciters := []*models.Reciter{}
	err := svc.db.
		NewSelect().
		Model(&reciters).
		Order("r.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return reciters, nil
}

func (svc *Service) RetrieveReciter(ctx context.Context, id int) (*models.Reciter, error) {
	reciter := &models.Reciter{}
	err := svc.db.
		NewSelect().
		Model(reciter).
		Where("r.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reciter")
		}
		return nil, errors.WithStack(err)
	}
	return reciter, nil
}

func (svc *Service) CreateReciter(ctx context.Context, reciter *models.Reciter) error {
	reciter.Normalize()
	_, err := svc.db.
		NewInsert().
		Model(reciter).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) UpdateReciter(ctx context.Context, reciter *models.Reciter, opts UpdateReciterOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	_, err := svc.db.
		NewUpdate().
		Model(reciter).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// DeleteReciter removes the reciter and detaches any recitations that
// referenced it.
func (svc *Service) DeleteReciter(ctx context.Context, id int) error {
	return svc.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.
			NewDelete().
			Model((*models.Reciter)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if n == 0 {
			return errcodes.NotFound("Reciter")
		}

		_, err = tx.
			NewUpdate().
			Model((*models.Recitation)(nil)).
			Set("reciter_id = NULL").
			Where("reciter_id = ?", id).
			Exec(ctx)
		return errors.WithStack(err)
	})
}
