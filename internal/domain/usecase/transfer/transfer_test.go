package transfer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
	mcache "github.com/amirhossein-jamali/wallet-service/mocks/port/cache"
	mcore "github.com/amirhossein-jamali/wallet-service/mocks/port/core"
	mpers "github.com/amirhossein-jamali/wallet-service/mocks/port/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const txKey contextKey = "tx"

var now = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

type fixture struct {
	uow          *mpers.MockUnitOfWork
	users        *mpers.MockUserRepository
	ledger       *mpers.MockTransactionRepository
	cache        *mcache.MockBalanceCache
	timeProvider *mcore.MockTimeProvider
	logger       *mcore.MockLogger
	service      usecase.TransferUseCase
	txCtx        context.Context
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		uow:          mpers.NewMockUnitOfWork(t),
		users:        mpers.NewMockUserRepository(t),
		ledger:       mpers.NewMockTransactionRepository(t),
		cache:        mcache.NewMockBalanceCache(t),
		timeProvider: mcore.NewMockTimeProvider(t),
		logger:       mcore.NewMockLogger(t),
		txCtx:        context.WithValue(context.Background(), txKey, "mockTransaction"),
	}
	f.logger.EXPECT().Info(mock.Anything, mock.Anything).Maybe()
	f.logger.EXPECT().Warn(mock.Anything, mock.Anything).Maybe()
	f.logger.EXPECT().Error(mock.Anything, mock.Anything).Maybe()
	f.logger.EXPECT().Debug(mock.Anything, mock.Anything).Maybe()
	f.service = NewTransferService(f.uow, f.cache, f.timeProvider, f.logger, Options{})
	return f
}

// begin sets up an opened unit of work with repositories bound to it
func (f *fixture) begin() {
	f.uow.EXPECT().Begin(mock.Anything).Return(f.txCtx, nil).Once()
	f.uow.EXPECT().GetUserRepository(f.txCtx).Return(f.users).Once()
	f.uow.EXPECT().GetTransactionRepository(f.txCtx).Return(f.ledger).Once()
}

func user(id uint64, username, balance string) *entity.User {
	return entity.RestoreUser(id, username, "hash", strings.ToUpper(username[:1])+username[1:],
		decimal.RequireFromString(balance), now, now)
}

func transferReq(amount string) usecase.TransferRequest {
	return usecase.TransferRequest{
		FromUserID:  1,
		ToUsername:  "Bob",
		Amount:      decimal.RequireFromString(amount),
		Description: "",
	}
}

func TestTransferSuccess(t *testing.T) {
	f := newFixture(t)
	req := transferReq("100")
	alice := user(1, "alice", "250.00")
	bob := user(2, "bob", "40.00")

	f.begin()
	f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(alice, nil).Once()
	f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(bob, nil).Once()
	f.users.EXPECT().LockForUpdate(f.txCtx, uint64(1), uint64(2)).
		Return(map[uint64]*entity.User{1: alice, 2: bob}, nil).Once()
	f.users.EXPECT().Debit(f.txCtx, uint64(1), req.Amount).Return(nil).Once()
	f.users.EXPECT().Credit(f.txCtx, uint64(2), req.Amount).Return(nil).Once()
	f.timeProvider.EXPECT().Now().Return(now).Once()
	f.ledger.EXPECT().Create(f.txCtx, mock.MatchedBy(func(tx *entity.Transaction) bool {
		return *tx.FromUserID == 1 &&
			*tx.ToUserID == 2 &&
			tx.Amount.Equal(decimal.NewFromInt(100)) &&
			tx.Type == entity.TypeTransfer &&
			tx.Description == entity.DefaultTransferDescription
	})).RunAndReturn(func(_ context.Context, tx *entity.Transaction) error {
		tx.ID = 77
		return nil
	}).Once()
	f.users.EXPECT().GetBalance(f.txCtx, uint64(1)).Return(decimal.RequireFromString("150.00"), nil).Once()
	f.uow.EXPECT().Commit(f.txCtx).Return(nil).Once()
	f.cache.EXPECT().Invalidate(mock.Anything, uint64(1), uint64(2)).Return(nil).Once()

	result, err := f.service.Transfer(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, uint64(77), result.TransactionID)
	assert.Equal(t, "150.00", entity.FormatMoney(result.NewBalance))
}

func TestTransferCacheInvalidationFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	req := transferReq("10")
	alice := user(1, "alice", "250.00")
	bob := user(2, "bob", "0.00")

	f.begin()
	f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(alice, nil).Once()
	f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(bob, nil).Once()
	f.users.EXPECT().LockForUpdate(f.txCtx, uint64(1), uint64(2)).
		Return(map[uint64]*entity.User{1: alice, 2: bob}, nil).Once()
	f.users.EXPECT().Debit(f.txCtx, uint64(1), req.Amount).Return(nil).Once()
	f.users.EXPECT().Credit(f.txCtx, uint64(2), req.Amount).Return(nil).Once()
	f.timeProvider.EXPECT().Now().Return(now).Once()
	f.ledger.EXPECT().Create(f.txCtx, mock.Anything).Return(nil).Once()
	f.users.EXPECT().GetBalance(f.txCtx, uint64(1)).Return(decimal.RequireFromString("240.00"), nil).Once()
	f.uow.EXPECT().Commit(f.txCtx).Return(nil).Once()
	f.cache.EXPECT().Invalidate(mock.Anything, uint64(1), uint64(2)).Return(errors.New("redis down")).Once()

	result, err := f.service.Transfer(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "240.00", entity.FormatMoney(result.NewBalance))
}

func TestTransferRejections(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		setupMocks   func(f *fixture, amount decimal.Decimal)
		expectedErr  error
		expectedCode int
	}{
		{
			name:   "Sender not found",
			amount: "10",
			setupMocks: func(f *fixture, _ decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(nil, errs.ErrUserNotFound).Once()
			},
			expectedErr:  errs.ErrSenderNotFound,
			expectedCode: errs.CodeSenderNotFound,
		},
		{
			name:   "Insufficient funds before lookup",
			amount: "300",
			setupMocks: func(f *fixture, _ decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(user(1, "alice", "250.00"), nil).Once()
			},
			expectedErr:  errs.ErrInsufficientFunds,
			expectedCode: errs.CodeInsufficientFunds,
		},
		{
			name:   "Recipient not found",
			amount: "10",
			setupMocks: func(f *fixture, _ decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(user(1, "alice", "250.00"), nil).Once()
				f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(nil, errs.ErrUserNotFound).Once()
			},
			expectedErr:  errs.ErrRecipientNotFound,
			expectedCode: errs.CodeRecipientNotFound,
		},
		{
			name:   "Self transfer",
			amount: "10",
			setupMocks: func(f *fixture, _ decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(user(1, "bob", "250.00"), nil).Once()
				f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(user(1, "bob", "250.00"), nil).Once()
			},
			expectedErr:  errs.ErrSelfTransfer,
			expectedCode: errs.CodeSelfTransfer,
		},
		{
			name:   "Balance dropped before lock was taken",
			amount: "100",
			setupMocks: func(f *fixture, _ decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(user(1, "alice", "250.00"), nil).Once()
				f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(user(2, "bob", "0.00"), nil).Once()
				f.users.EXPECT().LockForUpdate(f.txCtx, uint64(1), uint64(2)).Return(map[uint64]*entity.User{
					1: user(1, "alice", "50.00"),
					2: user(2, "bob", "0.00"),
				}, nil).Once()
			},
			expectedErr:  errs.ErrInsufficientFunds,
			expectedCode: errs.CodeInsufficientFunds,
		},
		{
			name:   "Lock conflict",
			amount: "100",
			setupMocks: func(f *fixture, _ decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(user(1, "alice", "250.00"), nil).Once()
				f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(user(2, "bob", "0.00"), nil).Once()
				f.users.EXPECT().LockForUpdate(f.txCtx, uint64(1), uint64(2)).Return(nil, errs.ErrConcurrentUpdate).Once()
			},
			expectedErr:  errs.ErrConcurrentUpdate,
			expectedCode: errs.CodeConcurrentUpdate,
		},
		{
			name:   "Conditional debit matched no row",
			amount: "100",
			setupMocks: func(f *fixture, amount decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(user(1, "alice", "250.00"), nil).Once()
				f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(user(2, "bob", "0.00"), nil).Once()
				f.users.EXPECT().LockForUpdate(f.txCtx, uint64(1), uint64(2)).Return(map[uint64]*entity.User{
					1: user(1, "alice", "250.00"),
					2: user(2, "bob", "0.00"),
				}, nil).Once()
				f.users.EXPECT().Debit(f.txCtx, uint64(1), amount).Return(errs.ErrInsufficientFunds).Once()
			},
			expectedErr:  errs.ErrInsufficientFunds,
			expectedCode: errs.CodeInsufficientFunds,
		},
		{
			name:   "Ledger insert fails",
			amount: "100",
			setupMocks: func(f *fixture, amount decimal.Decimal) {
				f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(user(1, "alice", "250.00"), nil).Once()
				f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(user(2, "bob", "0.00"), nil).Once()
				f.users.EXPECT().LockForUpdate(f.txCtx, uint64(1), uint64(2)).Return(map[uint64]*entity.User{
					1: user(1, "alice", "250.00"),
					2: user(2, "bob", "0.00"),
				}, nil).Once()
				f.users.EXPECT().Debit(f.txCtx, uint64(1), amount).Return(nil).Once()
				f.users.EXPECT().Credit(f.txCtx, uint64(2), amount).Return(nil).Once()
				f.timeProvider.EXPECT().Now().Return(now).Once()
				f.ledger.EXPECT().Create(f.txCtx, mock.Anything).Return(errs.ErrDatabaseConnection).Once()
			},
			expectedErr:  errs.ErrDatabaseConnection,
			expectedCode: errs.CodeInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := transferReq(tt.amount)

			f.begin()
			tt.setupMocks(f, req.Amount)
			f.uow.EXPECT().Rollback(f.txCtx).Return(nil).Once()

			result, err := f.service.Transfer(context.Background(), req)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.expectedErr)
			assert.Equal(t, tt.expectedCode, errs.ErrorCode(err))

			var transferErr *errs.TransferError
			require.ErrorAs(t, err, &transferErr)
			assert.Equal(t, uint64(1), transferErr.FromUserID)
			assert.Equal(t, "bob", transferErr.ToUsername)
		})
	}
}

func TestTransferValidation(t *testing.T) {
	testCases := []struct {
		name string
		req  usecase.TransferRequest
	}{
		{"zero sender", usecase.TransferRequest{FromUserID: 0, ToUsername: "bob", Amount: decimal.NewFromInt(1)}},
		{"short recipient", usecase.TransferRequest{FromUserID: 1, ToUsername: "bo", Amount: decimal.NewFromInt(1)}},
		{"zero amount", usecase.TransferRequest{FromUserID: 1, ToUsername: "bob", Amount: decimal.Zero}},
		{"negative amount", usecase.TransferRequest{FromUserID: 1, ToUsername: "bob", Amount: decimal.NewFromInt(-5)}},
		{"sub-cent amount", usecase.TransferRequest{FromUserID: 1, ToUsername: "bob", Amount: decimal.RequireFromString("0.001")}},
		{"long description", usecase.TransferRequest{
			FromUserID:  1,
			ToUsername:  "bob",
			Amount:      decimal.NewFromInt(1),
			Description: strings.Repeat("x", entity.DescriptionMaxLength+1),
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)

			result, err := f.service.Transfer(context.Background(), tc.req)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, errs.ErrValidation)
		})
	}
}

func TestTransferBeginFails(t *testing.T) {
	f := newFixture(t)
	f.uow.EXPECT().Begin(mock.Anything).Return(nil, errs.ErrDatabaseConnection).Once()

	_, err := f.service.Transfer(context.Background(), transferReq("10"))

	assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
}

func TestTransferCommitFails(t *testing.T) {
	f := newFixture(t)
	req := transferReq("10")
	alice := user(1, "alice", "250.00")
	bob := user(2, "bob", "0.00")

	f.begin()
	f.users.EXPECT().GetByID(f.txCtx, uint64(1)).Return(alice, nil).Once()
	f.users.EXPECT().GetByUsername(f.txCtx, "bob").Return(bob, nil).Once()
	f.users.EXPECT().LockForUpdate(f.txCtx, uint64(1), uint64(2)).
		Return(map[uint64]*entity.User{1: alice, 2: bob}, nil).Once()
	f.users.EXPECT().Debit(f.txCtx, uint64(1), req.Amount).Return(nil).Once()
	f.users.EXPECT().Credit(f.txCtx, uint64(2), req.Amount).Return(nil).Once()
	f.timeProvider.EXPECT().Now().Return(now).Once()
	f.ledger.EXPECT().Create(f.txCtx, mock.Anything).Return(nil).Once()
	f.users.EXPECT().GetBalance(f.txCtx, uint64(1)).Return(decimal.RequireFromString("240.00"), nil).Once()
	f.uow.EXPECT().Commit(f.txCtx).Return(errs.ErrConcurrentUpdate).Once()

	result, err := f.service.Transfer(context.Background(), req)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, errs.ErrConcurrentUpdate)
	f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything, mock.Anything)
}

func TestListHistory(t *testing.T) {
	fromAlice := &entity.Party{ID: 1, Username: "alice", FullName: "Alice"}
	toBob := &entity.Party{ID: 2, Username: "bob", FullName: "Bob"}
	entries := []entity.HistoryEntry{
		{ID: 2, Amount: decimal.NewFromInt(5), Type: entity.TypeTransfer, Description: "b", CreatedAt: now, From: toBob, To: fromAlice},
		{ID: 1, Amount: decimal.NewFromInt(10), Type: entity.TypeTransfer, Description: "a", CreatedAt: now.Add(-time.Minute), From: fromAlice, To: toBob},
	}

	t.Run("Returns repository entries with the default limit", func(t *testing.T) {
		f := newFixture(t)
		f.uow.EXPECT().GetTransactionRepository(mock.Anything).Return(f.ledger).Once()
		f.ledger.EXPECT().ListByUser(mock.Anything, uint64(1), entity.HistoryLimit).Return(entries, nil).Once()

		got, err := f.service.ListHistory(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, entries, got)
	})

	t.Run("Custom limit", func(t *testing.T) {
		f := newFixture(t)
		service := NewTransferService(f.uow, f.cache, f.timeProvider, f.logger, Options{HistoryLimit: 10})
		f.uow.EXPECT().GetTransactionRepository(mock.Anything).Return(f.ledger).Once()
		f.ledger.EXPECT().ListByUser(mock.Anything, uint64(1), 10).Return([]entity.HistoryEntry{}, nil).Once()

		got, err := service.ListHistory(context.Background(), 1)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Zero user id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.ListHistory(context.Background(), 0)

		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("Repository failure", func(t *testing.T) {
		f := newFixture(t)
		f.uow.EXPECT().GetTransactionRepository(mock.Anything).Return(f.ledger).Once()
		f.ledger.EXPECT().ListByUser(mock.Anything, uint64(1), entity.HistoryLimit).
			Return(nil, errs.ErrDatabaseConnection).Once()

		_, err := f.service.ListHistory(context.Background(), 1)

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}
