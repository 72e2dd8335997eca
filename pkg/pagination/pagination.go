package pagination

import (
	"context"
	"fmt"
	"math"

	"github.com/fafutuka/quranaudio/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Request is a validated page request. Pages are 1-indexed.
type Request struct {
	Page    int
	PerPage int
}

// NewRequest rejects page < 1, per_page < 1, per_page above maxPerPage and
// pages whose offset wouldn't fit in an int.
func NewRequest(page, perPage, maxPerPage int) (Request, error) {
	if page < 1 {
		return Request{}, errcodes.InvalidArgument("page must be a positive integer")
	}
	if perPage < 1 {
		return Request{}, errcodes.InvalidArgument("per_page must be a positive integer")
	}
	if perPage > maxPerPage {
		return Request{}, errcodes.InvalidArgument(fmt.Sprintf("per_page must be at most %d", maxPerPage))
	}
	if page > math.MaxInt/perPage {
		return Request{}, errcodes.InvalidArgument("page is out of range")
	}
	return Request{Page: page, PerPage: perPage}, nil
}

func (r Request) Offset() int {
	return (r.Page - 1) * r.PerPage
}

func (r Request) Limit() int {
	return r.PerPage
}

// Pagination is the metadata returned alongside a page of results. NextPage
// is null on the last page.
type Pagination struct {
	PerPage      int  `json:"per_page"`
	CurrentPage  int  `json:"current_page"`
	NextPage     *int `json:"next_page"`
	TotalPages   int  `json:"total_pages"`
	TotalRecords int  `json:"total_records"`
}

// Meta builds the metadata for a result set of total records.
func (r Request) Meta(total int) Pagination {
	totalPages := (total + r.PerPage - 1) / r.PerPage
	p := Pagination{
		PerPage:      r.PerPage,
		CurrentPage:  r.Page,
		TotalPages:   totalPages,
		TotalRecords: total,
	}
	if r.Page < totalPages {
		next := r.Page + 1
		p.NextPage = &next
	}
	return p
}

// Fetch runs the count query and then the bounded select for one page. apply
// adds the shared predicate, projection and ordering to both; the count
// ignores projection and ordering.
//
// The two queries aren't in a transaction, so a concurrent write can make the
// total disagree with the page contents.
func Fetch[T any](ctx context.Context, db bun.IDB, req Request, apply func(*bun.SelectQuery) *bun.SelectQuery) ([]*T, Pagination, error) {
	total, err := apply(db.NewSelect().Model((*T)(nil))).Count(ctx)
	if err != nil {
		return nil, Pagination{}, errors.WithStack(err)
	}

	items := []*T{}
	err = apply(db.NewSelect().Model(&items)).
		Limit(req.Limit()).
		Offset(req.Offset()).
		Scan(ctx)
	if err != nil {
		return nil, Pagination{}, errors.WithStack(err)
	}

	return items, req.Meta(total), nil
}
