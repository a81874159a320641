package transfer

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
)

// Transfer stages, reported in TransferError
const (
	stageBegin   = "begin"
	stageSender  = "sender"
	stageLookup  = "recipient"
	stageLock    = "lock"
	stageDebit   = "debit"
	stageCredit  = "credit"
	stageRecord  = "record"
	stageBalance = "balance"
	stageCommit  = "commit"
)

// Transfer moves funds from one user to another. Either every effect is
// committed or none is.
func (s *Service) Transfer(ctx context.Context, req usecase.TransferRequest) (*usecase.TransferResult, error) {
	input, err := s.validator.ValidateTransfer(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return nil, s.fail(input, stageBegin, err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Failed to rollback transfer", map[string]any{
				"from_user_id": input.FromUserID,
				"error":        rbErr.Error(),
			})
		}
	}()

	result, recipientID, stage, err := s.execute(txCtx, input)
	if err != nil {
		return nil, s.fail(input, stage, err)
	}

	finished = true
	if err := s.uow.Commit(txCtx); err != nil {
		return nil, s.fail(input, stageCommit, err)
	}

	s.logger.Info("Transfer completed", map[string]any{
		"transaction_id": result.TransactionID,
		"from_user_id":   input.FromUserID,
		"to_user_id":     recipientID,
		"amount":         entity.FormatMoney(input.Amount),
		"new_balance":    entity.FormatMoney(result.NewBalance),
	})

	if err := s.cache.Invalidate(ctx, input.FromUserID, recipientID); err != nil {
		s.logger.Warn("Failed to invalidate cached balances", map[string]any{
			"from_user_id": input.FromUserID,
			"to_user_id":   recipientID,
			"error":        err.Error(),
		})
	}

	return result, nil
}

// execute runs every step inside the open unit of work and reports the stage
// that failed
func (s *Service) execute(
	txCtx context.Context,
	req usecase.TransferRequest,
) (*usecase.TransferResult, uint64, string, error) {
	users := s.uow.GetUserRepository(txCtx)
	ledger := s.uow.GetTransactionRepository(txCtx)

	sender, err := users.GetByID(txCtx, req.FromUserID)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, 0, stageSender, errs.ErrSenderNotFound
		}
		return nil, 0, stageSender, err
	}
	if !sender.CanDebit(req.Amount) {
		return nil, 0, stageSender, errs.NewInsufficientFundsError(
			sender.ID, entity.FormatMoney(req.Amount), sender.GetBalance())
	}

	recipient, err := users.GetByUsername(txCtx, req.ToUsername)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, 0, stageLookup, errs.ErrRecipientNotFound
		}
		return nil, 0, stageLookup, err
	}
	if recipient.ID == sender.ID {
		return nil, 0, stageLookup, errs.ErrSelfTransfer
	}

	locked, err := users.LockForUpdate(txCtx, sender.ID, recipient.ID)
	if err != nil {
		return nil, 0, stageLock, err
	}
	lockedSender, ok := locked[sender.ID]
	if !ok {
		return nil, 0, stageLock, errs.ErrSenderNotFound
	}
	if _, ok := locked[recipient.ID]; !ok {
		return nil, 0, stageLock, errs.ErrRecipientNotFound
	}
	if !lockedSender.CanDebit(req.Amount) {
		return nil, 0, stageLock, errs.NewInsufficientFundsError(
			sender.ID, entity.FormatMoney(req.Amount), lockedSender.GetBalance())
	}

	if err := users.Debit(txCtx, sender.ID, req.Amount); err != nil {
		return nil, 0, stageDebit, err
	}

	if err := users.Credit(txCtx, recipient.ID, req.Amount); err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return nil, 0, stageCredit, errs.ErrRecipientNotFound
		}
		return nil, 0, stageCredit, err
	}

	record, err := entity.NewTransfer(sender.ID, recipient.ID, req.Amount, req.Description, s.timeProvider)
	if err != nil {
		return nil, 0, stageRecord, err
	}
	if err := ledger.Create(txCtx, record); err != nil {
		return nil, 0, stageRecord, err
	}

	newBalance, err := users.GetBalance(txCtx, sender.ID)
	if err != nil {
		return nil, 0, stageBalance, fmt.Errorf("re-read sender balance: %w", err)
	}

	return &usecase.TransferResult{
		TransactionID: record.ID,
		NewBalance:    newBalance,
	}, recipient.ID, "", nil
}

// fail logs a failed transfer and wraps the cause with the request details
func (s *Service) fail(req usecase.TransferRequest, stage string, err error) error {
	wrapped := errs.NewTransferError(req.FromUserID, req.ToUsername, entity.FormatMoney(req.Amount), stage, err)

	fields := errs.LogFieldsOf(wrapped)
	switch errs.ErrorCode(err) {
	case errs.CodeInternalServer, errs.CodeConcurrentUpdate:
		s.logger.Error("Transfer failed", fields)
	default:
		s.logger.Info("Transfer rejected", fields)
	}

	return wrapped
}
