// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/farmreg/internal/credential"
	"github.com/taibuivan/farmreg/internal/platform/apperr"
	"github.com/taibuivan/farmreg/internal/platform/sec"
	"github.com/taibuivan/farmreg/internal/users/auth"
	"github.com/taibuivan/farmreg/pkg/uuid"
)

// # Service Layer

// Service orchestrates credential changes for existing accounts.
type Service struct {
	accountRepository AccountRepository
	auditRepository   AuditRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependencies.
func NewService(accountRepo AccountRepository, auditRepo AuditRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		auditRepository:   auditRepo,
		logger:            logger,
	}
}

// # Credential Changes

/*
ChangePassword verifies the current password and stores a new one.

Parameters:
  - context: context.Context
  - accountID: string
  - current: string
  - next: string

Returns:
  - *auth.User: The account after the change
  - error: ValidationError on a wrong current password, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, accountID, current, next string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(current, user.PasswordHash) {
		return nil, apperr.ValidationError("Current password is incorrect")
	}

	hash, err := sec.HashPassword(next)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	if err := service.accountRepository.UpdatePassword(context, accountID, hash); err != nil {
		return nil, fmt.Errorf("account_service_password_update_failed: %w", err)
	}

	user.PasswordHash = hash
	user.ForcePasswordChange = false
	service.audit(context, accountID, credential.KindPassword)

	return user, nil
}

/*
ChangeUserID verifies the current user ID and replaces it.

Parameters:
  - context: context.Context
  - accountID: string
  - current: string
  - next: string

Returns:
  - *auth.User: The account after the change
  - error: ValidationError on a wrong current user ID, Conflict if taken, or storage failures
*/
func (service *Service) ChangeUserID(context context.Context, accountID, current, next string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, accountID)
	if err != nil {
		return nil, fmt.Errorf("account_service_user_id_lookup_failed: %w", err)
	}

	if user.UserID != current {
		return nil, apperr.ValidationError("Current user ID is incorrect")
	}

	if err := service.accountRepository.UpdateUserID(context, accountID, next); err != nil {
		return nil, fmt.Errorf("account_service_user_id_update_failed: %w", err)
	}

	user.UserID = next
	service.audit(context, accountID, credential.KindUserID)

	return user, nil
}

/*
RecentChanges lists the newest credential changes of an account.

Parameters:
  - context: context.Context
  - accountID: string
  - limit: int

Returns:
  - []ChangeRecord: Newest first
  - error: Retrieval errors
*/
func (service *Service) RecentChanges(context context.Context, accountID string, limit int) ([]ChangeRecord, error) {
	records, err := service.auditRepository.ListRecent(context, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_changes_failed: %w", err)
	}
	return records, nil
}

// Updater adapts the service to [credential.Updater] for one account.
//
// The returned updater reports the updated account through onUpdated so
// the caller can refresh its session record.
func (service *Service) Updater(accountID string, onUpdated func(context.Context, *auth.User)) credential.Updater {
	return credential.UpdaterFunc(func(ctx context.Context, change credential.Change) error {
		var (
			user *auth.User
			err  error
		)

		switch change.Kind {
		case credential.KindPassword:
			user, err = service.ChangePassword(ctx, accountID, change.Current, change.Next)
		case credential.KindUserID:
			user, err = service.ChangeUserID(ctx, accountID, change.Current, change.Next)
		default:
			return fmt.Errorf("account_service_unknown_change_kind: %q", change.Kind)
		}

		if err != nil {
			return err
		}
		if onUpdated != nil {
			onUpdated(ctx, user)
		}
		return nil
	})
}

// audit records a change. The credential is already updated, so failures
// are logged only.
func (service *Service) audit(ctx context.Context, accountID string, kind credential.Kind) {
	record := &ChangeRecord{
		ID:        uuid.New(),
		AccountID: accountID,
		Kind:      kind,
		ChangedAt: time.Now(),
	}

	if err := service.auditRepository.Record(ctx, record); err != nil {
		service.logger.WarnContext(ctx, "account_audit_record_failed",
			slog.String("account_id", accountID),
			slog.String("kind", string(kind)),
			slog.Any("error", err),
		)
		return
	}

	service.logger.InfoContext(ctx, "account_credential_changed",
		slog.String("account_id", accountID),
		slog.String("kind", string(kind)),
	)
}
