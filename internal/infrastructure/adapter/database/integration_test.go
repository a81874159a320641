package database_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/usecase/transfer"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/security"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (*database.TestDBManager, usecase.TransferUseCase) {
	t.Helper()

	tm := database.NewTestDBManager(t, logger.NewNoopLogger())
	tm.SetupTestDB(t)

	svc := transfer.NewTransferService(
		tm.Manager.CreateUnitOfWork(),
		cache.NewNoopBalanceCache(),
		tm.TimeProvider,
		tm.Logger,
		transfer.Options{},
	)
	return tm, svc
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIntegration_MigrateIsIdempotent(t *testing.T) {
	tm, _ := setup(t)

	require.NoError(t, tm.Manager.Migrate(context.Background()))
	require.NoError(t, tm.Manager.Ping(context.Background()))
}

func TestIntegration_TransferMovesFundsAndRecordsHistory(t *testing.T) {
	tm, svc := setup(t)
	ctx := context.Background()

	alice := tm.CreateTestUser(t, "alice", "10000.00")
	bob := tm.CreateTestUser(t, "bob", "10000.00")

	res, err := svc.Transfer(ctx, usecase.TransferRequest{
		FromUserID: alice,
		ToUsername: "BOB",
		Amount:     amount("250.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "9749.50", res.NewBalance.StringFixed(2))
	assert.NotZero(t, res.TransactionID)

	assert.Equal(t, "9749.50", tm.BalanceOf(t, alice))
	assert.Equal(t, "10250.50", tm.BalanceOf(t, bob))

	for _, id := range []uint64{alice, bob} {
		history, err := svc.ListHistory(ctx, id)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, "Transfer", history[0].Description)
		assert.Equal(t, "alice", history[0].From.Username)
		assert.Equal(t, "bob", history[0].To.Username)
	}
}

// Transfers in both directions between one pair: each side sees the newest
// entries first, capped at the history limit, with parties attributed per entry
func TestIntegration_HistoryOrderingLimitAndParties(t *testing.T) {
	tm, svc := setup(t)
	ctx := context.Background()

	alice := tm.CreateTestUser(t, "alice", "10000.00")
	bob := tm.CreateTestUser(t, "bob", "10000.00")

	const total = 55
	ids := make([]uint64, total)
	fromAlice := make(map[uint64]bool, total)
	for i := 0; i < total; i++ {
		req := usecase.TransferRequest{
			FromUserID:  alice,
			ToUsername:  "bob",
			Amount:      amount("1.00"),
			Description: fmt.Sprintf("transfer %02d", i),
		}
		if i%2 == 1 {
			req.FromUserID, req.ToUsername = bob, "alice"
		}

		res, err := svc.Transfer(ctx, req)
		require.NoError(t, err)
		ids[i] = res.TransactionID
		fromAlice[res.TransactionID] = i%2 == 0
	}

	for _, id := range []uint64{alice, bob} {
		history, err := svc.ListHistory(ctx, id)
		require.NoError(t, err)
		require.Len(t, history, 50)

		for k, entry := range history {
			assert.Equal(t, ids[total-1-k], entry.ID)
			assert.Equal(t, fmt.Sprintf("transfer %02d", total-1-k), entry.Description)

			if k > 0 {
				prev := history[k-1]
				newer := prev.CreatedAt.After(entry.CreatedAt) ||
					(prev.CreatedAt.Equal(entry.CreatedAt) && prev.ID > entry.ID)
				assert.True(t, newer, "entry %d is not older than entry %d", k, k-1)
			}

			require.NotNil(t, entry.From)
			require.NotNil(t, entry.To)
			if fromAlice[entry.ID] {
				assert.Equal(t, "alice", entry.From.Username)
				assert.Equal(t, "bob", entry.To.Username)
			} else {
				assert.Equal(t, "bob", entry.From.Username)
				assert.Equal(t, "alice", entry.To.Username)
			}
		}
	}

	// 28 sent by alice and 27 by bob
	assert.Equal(t, "9999.00", tm.BalanceOf(t, alice))
	assert.Equal(t, "10001.00", tm.BalanceOf(t, bob))
}

func TestIntegration_RejectedTransferLeavesNoTrace(t *testing.T) {
	tm, svc := setup(t)
	ctx := context.Background()

	alice := tm.CreateTestUser(t, "alice", "100.00")
	tm.CreateTestUser(t, "bob", "0.00")

	_, err := svc.Transfer(ctx, usecase.TransferRequest{FromUserID: alice, ToUsername: "bob", Amount: amount("100.01")})
	assert.ErrorIs(t, err, errs.ErrInsufficientFunds)

	_, err = svc.Transfer(ctx, usecase.TransferRequest{FromUserID: alice, ToUsername: "carol", Amount: amount("1")})
	assert.ErrorIs(t, err, errs.ErrRecipientNotFound)

	_, err = svc.Transfer(ctx, usecase.TransferRequest{FromUserID: alice, ToUsername: "alice", Amount: amount("1")})
	assert.ErrorIs(t, err, errs.ErrSelfTransfer)

	_, err = svc.Transfer(ctx, usecase.TransferRequest{FromUserID: 999, ToUsername: "bob", Amount: amount("1")})
	assert.ErrorIs(t, err, errs.ErrSenderNotFound)

	assert.Equal(t, "100.00", tm.BalanceOf(t, alice))
	history, err := svc.ListHistory(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// Concurrent debits of one sender never overdraw it, and opposing transfers
// between the same pair never deadlock
func TestIntegration_ConcurrentTransfers(t *testing.T) {
	tm, svc := setup(t)
	ctx := context.Background()

	alice := tm.CreateTestUser(t, "alice", "1000.00")
	bob := tm.CreateTestUser(t, "bob", "1000.00")
	tm.CreateTestUser(t, "carol", "0.00")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, usecase.TransferRequest{FromUserID: alice, ToUsername: "carol", Amount: amount("100")})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, errs.ErrInsufficientFunds)
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, "0.00", tm.BalanceOf(t, alice))

	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Transfer(ctx, usecase.TransferRequest{FromUserID: bob, ToUsername: "carol", Amount: amount("1")})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			carolRepo := tm.Manager.CreateUnitOfWork().GetUserRepository(ctx)
			carol, err := carolRepo.GetByUsername(ctx, "carol")
			if !assert.NoError(t, err) {
				return
			}
			_, err = svc.Transfer(ctx, usecase.TransferRequest{FromUserID: carol.ID, ToUsername: "bob", Amount: amount("1")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, "1000.00", tm.BalanceOf(t, bob))
}

func TestIntegration_RegisterAndLogin(t *testing.T) {
	tm, _ := setup(t)
	ctx := context.Background()

	users := repository.NewUserRepository(tm.Manager.DB(), tm.TimeProvider, tm.Logger)
	svc := auth.NewAuthService(users, security.NewBcryptHasher(bcrypt.MinCost, false), tm.TimeProvider, tm.Logger, 0)

	profile, err := svc.Register(ctx, usecase.RegisterRequest{Username: "Alice", Password: "secret1", FullName: " Alice A "})
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Alice A", profile.FullName)
	assert.Equal(t, "10000.00", profile.Balance.StringFixed(2))

	_, err = svc.Register(ctx, usecase.RegisterRequest{Username: "ALICE", Password: "secret1", FullName: "Other"})
	assert.ErrorIs(t, err, errs.ErrDuplicateUser)

	logged, err := svc.Login(ctx, usecase.LoginRequest{Username: "aLiCe", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, profile.ID, logged.ID)

	_, err = svc.Login(ctx, usecase.LoginRequest{Username: "alice", Password: "wrong12"})
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}
