package recitations

import (
	"context"
	"database/sql"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/fafutuka/quranaudio/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListRecitationsOptions struct {
	ReciterID *int
}

type UpdateRecitationOptions struct {
	Columns []string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) ListRecitations(ctx context.Context, opts ListRecitationsOptions) ([]*models.Recitation, error) {
	recitations := []*models.Recitation{}
	q := svc.db.
		NewSelect().
		Model(&recitations).
		Order("rc.id ASC")
	if opts.ReciterID != nil {
		q = q.Where("rc.reciter_id = ?", *opts.ReciterID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return recitations, nil
}

func (svc *Service) RetrieveRecitation(ctx context.Context, id int) (*models.Recitation, error) {
	recitation := &models.Recitation{}
	err := svc.db.
		NewSelect().
		Model(recitation).
		Where("rc.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Recitation")
		}
		return nil, errors.WithStack(err)
	}
	return recitation, nil
}

// CreateRecitation stores the recitation. A recitation may name a reciter that
// isn't in the catalog, but a reciter_id has to exist.
func (svc *Service) CreateRecitation(ctx context.Context, recitation *models.Recitation) error {
	if err := svc.checkReciter(ctx, recitation.ReciterID); err != nil {
		return err
	}

	_, err := svc.db.
		NewInsert().
		Model(recitation).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	recitation.Normalize()
	return nil
}

func (svc *Service) UpdateRecitation(ctx context.Context, recitation *models.Recitation, opts UpdateRecitationOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}
	if err := svc.checkReciter(ctx, recitation.ReciterID); err != nil {
		return err
	}

	_, err := svc.db.
		NewUpdate().
		Model(recitation).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	recitation.Normalize()
	return nil
}

// DeleteRecitation removes the recitation. Its audio files are left in place.
func (svc *Service) DeleteRecitation(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Recitation)(nil)).
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
		return errcodes.NotFound("Recitation")
	}
	return nil
}

func (svc *Service) checkReciter(ctx context.Context, reciterID *int) error {
	if reciterID == nil {
		return nil
	}
	exists, err := svc.db.
		NewSelect().
		Model((*models.Reciter)(nil)).
		Where("r.id = ?", *reciterID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.ValidationError("\"reciter_id\" doesn't match a reciter")
	}
	return nil
}
