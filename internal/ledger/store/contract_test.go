package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"healthledger/internal/ledger/models"
	"healthledger/pkg/platform/sentinel"
	"healthledger/pkg/testutil"
)

// BackendContractSuite checks the behavior every Backend must share.
type BackendContractSuite struct {
	suite.Suite
	newBackend func(t *testing.T) Backend
	// serialized is false for backends whose isolation comes from the host.
	serialized bool
	backend    Backend
}

func (s *BackendContractSuite) SetupTest() {
	s.backend = s.newBackend(s.T())
}

func (s *BackendContractSuite) TearDownTest() {
	s.NoError(s.backend.Close())
}

func (s *BackendContractSuite) TestGetMissingKey() {
	err := s.backend.RunInTx(context.Background(), func(ctx context.Context, kv KV) error {
		_, err := kv.Get(ctx, models.DataKey(999))
		return err
	})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *BackendContractSuite) TestReadYourWrites() {
	err := s.backend.RunInTx(context.Background(), func(ctx context.Context, kv KV) error {
		s.Require().NoError(kv.Put(ctx, models.KeySequence, []byte("1")))
		got, err := kv.Get(ctx, models.KeySequence)
		s.Require().NoError(err)
		s.Equal([]byte("1"), got)

		s.Require().NoError(kv.Put(ctx, models.KeySequence, []byte("2")))
		got, err = kv.Get(ctx, models.KeySequence)
		s.Require().NoError(err)
		s.Equal([]byte("2"), got)
		return nil
	})
	s.Require().NoError(err)

	s.Equal([]byte("2"), s.read(models.KeySequence))
}

func (s *BackendContractSuite) TestFailedTransactionWritesNothing() {
	boom := errors.New("boom")
	err := s.backend.RunInTx(context.Background(), func(ctx context.Context, kv KV) error {
		s.Require().NoError(kv.Put(ctx, models.DataKey(1), []byte(`{"record_id":1}`)))
		s.Require().NoError(kv.Put(ctx, models.KeyAllData, []byte(`{"total":1}`)))
		return boom
	})
	s.ErrorIs(err, boom)

	s.Nil(s.read(models.DataKey(1)))
	s.Nil(s.read(models.KeyAllData))
}

func (s *BackendContractSuite) TestRepositoryRoundTrip() {
	ctx := context.Background()
	record := models.NewHealthRecord(1, "p1", "hash1", 1700000000)

	err := s.backend.RunInTx(ctx, func(ctx context.Context, kv KV) error {
		repo := NewRepository(kv)

		counters, err := repo.LoadCounters(ctx)
		s.Require().NoError(err)
		s.Equal(models.Counters{}, counters)

		seq, err := repo.LoadSequence(ctx)
		s.Require().NoError(err)
		s.Zero(seq)

		_, err = repo.FindRecord(ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = repo.FindGrant(ctx, 1)
		s.ErrorIs(err, sentinel.ErrNotFound)

		s.Require().NoError(repo.SaveRecord(ctx, 1, &record))
		grant := models.Granted(1)
		s.Require().NoError(repo.SaveGrant(ctx, 1, &grant))
		s.Require().NoError(repo.SaveCounters(ctx, models.Counters{Granted: 1, Pending: -1, Total: 1}))
		return repo.SaveSequence(ctx, 1)
	})
	s.Require().NoError(err)

	err = s.backend.RunInTx(ctx, func(ctx context.Context, kv KV) error {
		repo := NewRepository(kv)

		got, err := repo.FindRecord(ctx, 1)
		s.Require().NoError(err)
		s.Equal(record, *got)

		grant, err := repo.FindGrant(ctx, 1)
		s.Require().NoError(err)
		s.Equal(models.Granted(1), *grant)

		counters, err := repo.LoadCounters(ctx)
		s.Require().NoError(err)
		s.Equal(models.Counters{Granted: 1, Pending: -1, Total: 1}, counters)

		seq, err := repo.LoadSequence(ctx)
		s.Require().NoError(err)
		s.Equal(uint64(1), seq)
		return nil
	})
	s.Require().NoError(err)
}

func (s *BackendContractSuite) TestConcurrentIncrementsAreIsolated() {
	if !s.serialized {
		s.T().Skip("isolation is provided by the host")
	}
	const workers = 16

	result := testutil.RunConcurrent(workers, func(int) error {
		return s.backend.RunInTx(context.Background(), func(ctx context.Context, kv KV) error {
			repo := NewRepository(kv)
			seq, err := repo.LoadSequence(ctx)
			if err != nil {
				return err
			}
			return repo.SaveSequence(ctx, seq+1)
		})
	})
	s.Require().Equal(int32(workers), result.Successes)

	s.Equal([]byte("16"), s.read(models.KeySequence))
}

// read returns the committed value for key, or nil when absent.
func (s *BackendContractSuite) read(key models.Key) []byte {
	var out []byte
	err := s.backend.RunInTx(context.Background(), func(ctx context.Context, kv KV) error {
		v, err := kv.Get(ctx, key)
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		out = v
		return err
	})
	s.Require().NoError(err)
	return out
}
