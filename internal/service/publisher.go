package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/MxSGameJPS/minhaloja-valorfinal/internal/domain"
)

// Publisher executes listing-creation jobs against the marketplace. Jobs run
// sequentially; a failure on one job is captured in the tally and never
// prevents the remaining jobs from being attempted.
type Publisher struct {
	market     MarketplaceAPI
	logger     *slog.Logger
	jobTimeout time.Duration
}

// NewPublisher creates a publisher. jobTimeout bounds each create call so a
// hung request cannot stall the rest of the batch; zero means no per-job
// timeout beyond the request context.
func NewPublisher(market MarketplaceAPI, logger *slog.Logger, jobTimeout time.Duration) *Publisher {
	return &Publisher{market: market, logger: logger, jobTimeout: jobTimeout}
}

// Publish runs every job and returns a tally covering each job exactly once,
// in job order.
func (p *Publisher) Publish(ctx context.Context, jobs []domain.ListingJob) domain.Tally {
	tally := domain.Tally{
		Created: []domain.CreatedListing{},
		Errors:  []domain.FailedListing{},
	}

	for _, job := range jobs {
		created, err := p.createOne(ctx, job)
		if err != nil {
			p.logger.WarnContext(ctx, "listing creation failed",
				slog.String("label", job.Label),
				slog.String("category_id", job.CategoryID),
				slog.String("error", err.Error()),
			)
			tally.Errors = append(tally.Errors, domain.FailedListing{
				Label:   job.Label,
				Message: err.Error(),
			})
			continue
		}

		p.logger.InfoContext(ctx, "listing created",
			slog.String("label", job.Label),
			slog.String("listing_id", created.ListingID),
		)
		tally.Created = append(tally.Created, *created)
	}

	return tally
}

func (p *Publisher) createOne(ctx context.Context, job domain.ListingJob) (*domain.CreatedListing, error) {
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.jobTimeout)
		defer cancel()
	}
	return p.market.CreateListing(ctx, job)
}
