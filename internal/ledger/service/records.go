package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"healthledger/internal/audit"
	"healthledger/internal/ledger/models"
	"healthledger/internal/platform/privacy"
	"healthledger/internal/platform/tracer"
	dErrors "healthledger/pkg/domain-errors"
	"healthledger/pkg/platform/middleware/requesttime"
	"healthledger/pkg/platform/sentinel"
)

const (
	opCreateRecord = "create_record"
	opRevokeRecord = "revoke_record"
	opViewRecord   = "view_record"
)

// CreateRecord registers a new record for patientID and returns its id.
//
// The slot at the next sequence value must be empty or revoked; an active
// record there fails with ErrInvalidState. The id handed out is the new
// Counters.Total, which is tracked apart from the sequence.
func (s *Service) CreateRecord(ctx context.Context, patientID, dataHash string) (recordID uint64, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanCreateRecord,
		tracer.String(tracer.AttrPatientHash, privacy.PatientRef(patientID)),
	)
	defer func() { span.End(err) }()

	timestamp := requesttime.Seconds(ctx)
	var committed models.Counters
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		seq, err := store.LoadSequence(ctx)
		if err != nil {
			return err
		}
		seq++

		slot, err := findRecord(ctx, store, seq)
		if err != nil {
			return err
		}
		if !slot.IsRevoked {
			return dErrors.Wrap(ErrInvalidState, dErrors.CodeInvalidState,
				fmt.Sprintf("record slot %d is still active", seq))
		}

		counters, err := store.LoadCounters(ctx)
		if err != nil {
			return err
		}
		id := counters.ApplyCreate()
		record := models.NewHealthRecord(id, patientID, dataHash, timestamp)

		if err := store.SaveRecord(ctx, id, &record); err != nil {
			return err
		}
		if err := store.SaveCounters(ctx, counters); err != nil {
			return err
		}
		if err := store.SaveSequence(ctx, seq); err != nil {
			return err
		}
		recordID, committed = id, counters
		return nil
	})
	s.observe(ctx, opCreateRecord, start, err)
	if err != nil {
		return 0, err
	}

	span.SetAttributes(tracer.Int64(tracer.AttrRecordID, int64(recordID)))
	s.afterCommit(ctx, span, committed)
	s.emitAudit(ctx, audit.Event{
		Action:     models.AuditActionRecordCreated,
		RecordID:   recordID,
		PatientRef: privacy.PatientRef(patientID),
	})
	s.logger.InfoContext(ctx, "health record created",
		"record_id", recordID,
		"patient_ref", privacy.PatientRef(patientID),
		"timestamp", timestamp,
	)
	return recordID, nil
}

// RevokeRecord marks a record revoked. Pending is not decremented.
func (s *Service) RevokeRecord(ctx context.Context, recordID uint64) (err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanRevokeRecord,
		tracer.Int64(tracer.AttrRecordID, int64(recordID)),
	)
	defer func() { span.End(err) }()

	var (
		committed models.Counters
		patientID string
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		record, err := findRecord(ctx, store, recordID)
		if err != nil {
			return err
		}
		if !record.CanRevoke() {
			return dErrors.Wrap(ErrAlreadyRevokedOrNotFound, dErrors.CodeAlreadyRevoked,
				fmt.Sprintf("record %d already revoked or not found", recordID))
		}

		counters, err := store.LoadCounters(ctx)
		if err != nil {
			return err
		}
		counters.ApplyRevoke()

		revoked := record.Revoked()
		if err := store.SaveRecord(ctx, recordID, &revoked); err != nil {
			return err
		}
		if err := store.SaveCounters(ctx, counters); err != nil {
			return err
		}
		committed, patientID = counters, record.PatientID
		return nil
	})
	s.observe(ctx, opRevokeRecord, start, err)
	if err != nil {
		return err
	}

	s.afterCommit(ctx, span, committed)
	s.emitAudit(ctx, audit.Event{
		Action:     models.AuditActionRecordRevoked,
		RecordID:   recordID,
		PatientRef: privacy.PatientRef(patientID),
	})
	s.logger.InfoContext(ctx, "health record revoked", "record_id", recordID)
	return nil
}

// ViewRecord returns the record for id, or models.MissingRecord when none exists.
func (s *Service) ViewRecord(ctx context.Context, recordID uint64) (record models.HealthRecord, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, tracer.SpanViewRecord,
		tracer.Int64(tracer.AttrRecordID, int64(recordID)),
	)
	defer func() { span.End(err) }()

	err = s.tx.RunInTx(ctx, func(ctx context.Context, store Store) error {
		r, err := findRecord(ctx, store, recordID)
		if err != nil {
			return err
		}
		record = r
		return nil
	})
	s.observe(ctx, opViewRecord, start, err)
	if err != nil {
		return models.HealthRecord{}, err
	}
	return record, nil
}

// findRecord maps absence to the missing-record sentinel.
func findRecord(ctx context.Context, store Store, id uint64) (models.HealthRecord, error) {
	record, err := store.FindRecord(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.MissingRecord(), nil
		}
		return models.HealthRecord{}, err
	}
	return *record, nil
}
