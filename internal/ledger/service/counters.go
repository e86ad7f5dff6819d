package service

import (
	"context"
	"time"

	"healthledger/internal/ledger/models"
	"healthledger/internal/platform/tracer"
)

const opViewAllStatus = "view_all_status"

// ViewAllStatus returns the aggregate counters, all zero before the first create.
func (s *Service) ViewAllStatus(ctx context.Context) (counters models.Counters, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanViewAllStatus)
	defer func() { span.End(err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		c, err := store.LoadCounters(ctx)
		if err != nil {
			return err
		}
		counters = c
		return nil
	})
	s.observe(ctx, opViewAllStatus, start, err)
	if err != nil {
		return models.Counters{}, err
	}
	return counters, nil
}
