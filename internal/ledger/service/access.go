package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthledger/internal/audit"
	"healthledger/internal/ledger/models"
	"healthledger/internal/platform/tracer"
	dErrors "healthledger/pkg/domain-errors"
	"healthledger/pkg/platform/sentinel"
)

const (
	opRequestAccess = "request_access"
	opViewGrant     = "view_grant"
)

// RequestAccess grants access to recordID.
//
// The record itself is not consulted: a grant can be issued for an id that
// was never created or has been revoked. Pending is decremented with no floor.
func (s *Service) RequestAccess(ctx context.Context, recordID uint64) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanRequestAccess,
		tracer.Int64(tracer.AttrRecordID, int64(recordID)),
	)
	defer func() { span.End(err) }()

	var committed models.Counters
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		grant, err := findGrant(ctx, store, recordID)
		if err != nil {
			return err
		}
		if grant.AccessGranted {
			return dErrors.Wrap(ErrAlreadyGranted, dErrors.CodeAlreadyGranted,
				fmt.Sprintf("access to record %d already granted", recordID))
		}

		counters, err := store.LoadCounters(ctx)
		if err != nil {
			return err
		}
		counters.ApplyGrant()

		granted := models.Granted(recordID)
		if err := store.SaveGrant(ctx, recordID, &granted); err != nil {
			return err
		}
		if err := store.SaveCounters(ctx, counters); err != nil {
			return err
		}
		committed = counters
		return nil
	})
	s.observe(ctx, opRequestAccess, start, err)
	if err != nil {
		return err
	}

	s.afterCommit(ctx, span, committed)
	s.emitAudit(ctx, audit.Event{
		Action:   models.AuditActionAccessRequested,
		RecordID: recordID,
	})
	s.logger.InfoContext(ctx, "access granted", "record_id", recordID)
	return nil
}

// ViewGrant returns the grant for recordID, or the default not-granted value.
func (s *Service) ViewGrant(ctx context.Context, recordID uint64) (grant models.AccessGrant, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanViewGrant,
		tracer.Int64(tracer.AttrRecordID, int64(recordID)),
	)
	defer func() { span.End(err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		g, err := findGrant(ctx, store, recordID)
		if err != nil {
			return err
		}
		grant = g
		return nil
	})
	s.observe(ctx, opViewGrant, start, err)
	if err != nil {
		return models.AccessGrant{}, err
	}
	return grant, nil
}

func findGrant(ctx context.Context, store Store, id uint64) (models.AccessGrant, error) {
	grant, err := store.FindGrant(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.DefaultGrant(), nil
		}
		return models.AccessGrant{}, err
	}
	return *grant, nil
}
