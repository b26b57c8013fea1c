package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizbooks/bizbooks_backend/internal/apperrors"
	"github.com/bizbooks/bizbooks_backend/internal/core/domain"
	portsrepo "github.com/bizbooks/bizbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/bizbooks/bizbooks_backend/internal/core/ports/services"
	"github.com/bizbooks/bizbooks_backend/internal/dto"
	"github.com/bizbooks/bizbooks_backend/internal/middleware"
	"github.com/bizbooks/bizbooks_backend/internal/utils/accounting"
)

var (
	ErrJournalUnbalanced  = errors.New("journal entries do not balance")
	ErrJournalMinAccounts = errors.New("journal must affect at least two different accounts")
	ErrAccountNotFound    = errors.New("account not found")
	ErrCurrencyMismatch   = errors.New("account currency does not match journal currency")
	ErrNotDraft           = errors.New("journal is not in draft status")
	ErrNotPosted          = errors.New("journal is not in posted status")
	ErrDescriptionMissing = errors.New("journal description is required")
)

// journalService provides core journal and ledger operations.
type journalService struct {
	journalRepo portsrepo.JournalRepositoryFacade
	accountSvc  portssvc.AccountSvcFacade
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo: journalRepo,
		accountSvc:  accountSvc,
	}
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// buildLines converts request lines into domain lines owned by the journal.
// Incomplete lines (no account or no amount) are dropped at this boundary the
// same way the balance check drops them.
func buildLines(journalID string, reqLines []dto.LedgerLineRequest, userID string, now time.Time) []domain.LedgerLine {
	lines := make([]domain.LedgerLine, 0, len(reqLines))
	for _, lr := range reqLines {
		line := lr.ToDomainLine()
		if !accounting.IsCompleteLine(line) {
			continue
		}
		line.LineID = uuid.NewString()
		line.JournalID = journalID
		line.AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
		lines = append(lines, line)
	}
	return lines
}

// validateAccountsForPosting fetches the accounts referenced by the lines and
// checks that each exists, is active, and matches the journal currency.
// It returns the account types keyed by account ID.
func (s *journalService) validateAccountsForPosting(ctx context.Context, lines []domain.LedgerLine, currencyCode string) (map[string]domain.AccountType, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	uniqueAccountIDs := uniqueStrings(accountIDs)
	if len(uniqueAccountIDs) < 2 {
		return nil, ErrJournalMinAccounts
	}

	accountsMap, err := s.accountSvc.GetAccountByIDs(ctx, uniqueAccountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for journal validation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	accountTypes := make(map[string]domain.AccountType, len(uniqueAccountIDs))
	for _, id := range uniqueAccountIDs {
		acc, found := accountsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: ID %s", ErrAccountNotFound, id)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
		if acc.CurrencyCode != currencyCode {
			return nil, fmt.Errorf("%w: account currency %s does not match journal currency %s for account %s", ErrCurrencyMismatch, acc.CurrencyCode, currencyCode, id)
		}
		accountTypes[id] = acc.AccountType
	}
	return accountTypes, nil
}

// calculateBalanceChanges returns the net signed balance change per account.
func calculateBalanceChanges(lines []domain.LedgerLine, accountTypes map[string]domain.AccountType) (map[string]decimal.Decimal, error) {
	balanceChanges := make(map[string]decimal.Decimal)
	for _, line := range lines {
		signedAmount, err := accounting.CalculateSignedAmount(line, accountTypes[line.AccountID])
		if err != nil {
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		balanceChanges[line.AccountID] = balanceChanges[line.AccountID].Add(signedAmount)
	}
	return balanceChanges, nil
}

// CreateDraftJournal persists a new journal in DRAFT status. At least two
// complete lines are required; balance itself is only enforced at posting
// time so unbalanced work-in-progress can be saved.
func (s *journalService) CreateDraftJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Description == "" {
		return nil, ErrDescriptionMissing
	}

	now := time.Now().UTC()
	journalID := uuid.NewString()
	lines := buildLines(journalID, req.Lines, creatorUserID, now)
	if len(lines) < 2 {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, accounting.ErrMinLines)
	}

	seq, err := s.journalRepo.NextEntryNumber(ctx)
	if err != nil {
		logger.Error("Failed to reserve entry number", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reserve entry number: %w", err)
	}

	journal := domain.Journal{
		JournalID:    journalID,
		EntryNumber:  fmt.Sprintf("JE-%06d", seq),
		JournalDate:  req.Date,
		Description:  req.Description,
		Reference:    req.Reference,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		Amount:       accounting.CalculateJournalAmount(lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.journalRepo.SaveDraft(ctx, journal, lines); err != nil {
		logger.Error("Failed to save draft journal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save draft journal: %w", err)
	}

	logger.Info("Draft journal created", slog.String("journal_id", journalID), slog.String("entry_number", journal.EntryNumber))
	journal.Lines = lines
	return &journal, nil
}

// GetJournalByID retrieves a specific journal with its ledger lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find journal by ID", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch lines for journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to retrieve lines for journal %s: %w", journalID, apperrors.ErrInternal)
	}

	for i := range lines {
		lines[i].JournalDate = journal.JournalDate
		lines[i].JournalDescription = journal.Description
	}
	journal.Lines = lines

	logger.Debug("Journal retrieved", slog.String("journal_id", journalID), slog.Int("line_count", len(lines)))
	return journal, nil
}

// ListJournals retrieves a paginated list of journals.
func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	journals, nextToken, err := s.journalRepo.ListJournals(ctx, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list journals from repository", "error", err)
		return nil, fmt.Errorf("failed to retrieve journals: %w", err)
	}

	journalResponses := make([]dto.JournalResponse, len(journals))
	for i := range journals {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				logger.Warn("Failed to fetch lines for journal list", "error", err, "journalID", journals[i].JournalID)
				// Continue without lines rather than failing the whole page
			} else {
				journals[i].Lines = lines
			}
		}
		journalResponses[i] = dto.ToJournalResponse(&journals[i])
	}

	resp := &dto.ListJournalsResponse{
		Journals:  journalResponses,
		NextToken: nextToken,
	}

	logger.Info("Journals listed", "count", len(journals), "includeLines", params.IncludeLines)
	return resp, nil
}

// UpdateDraftJournal replaces the details and lines of a DRAFT journal.
func (s *journalService) UpdateDraftJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if !journal.IsMutable() {
		return nil, fmt.Errorf("%w: status is %s", ErrNotDraft, journal.Status)
	}

	now := time.Now().UTC()
	if req.Date != nil {
		journal.JournalDate = *req.Date
	}
	if req.Description != nil {
		journal.Description = *req.Description
	}
	if req.Reference != nil {
		journal.Reference = *req.Reference
	}

	var lines []domain.LedgerLine
	if req.Lines != nil {
		lines = buildLines(journalID, req.Lines, requestingUserID, now)
	} else {
		lines, err = s.journalRepo.FindLinesByJournalID(ctx, journalID)
		if err != nil {
			logger.Error("Failed to fetch existing lines for draft update", slog.String("error", err.Error()), slog.String("journal_id", journalID))
			return nil, fmt.Errorf("failed to fetch existing lines: %w", err)
		}
	}

	journal.Amount = accounting.CalculateJournalAmount(lines)
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.UpdateDraft(ctx, *journal, lines); err != nil {
		logger.Error("Failed to update draft journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to update draft journal: %w", err)
	}

	logger.Info("Draft journal updated", slog.String("journal_id", journalID))
	journal.Lines = lines
	return journal, nil
}

// DeleteDraftJournal removes a DRAFT journal and its lines.
func (s *journalService) DeleteDraftJournal(ctx context.Context, journalID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return err
	}
	if !journal.IsMutable() {
		return fmt.Errorf("%w: status is %s", ErrNotDraft, journal.Status)
	}

	if err := s.journalRepo.DeleteDraft(ctx, journalID); err != nil {
		logger.Error("Failed to delete draft journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return fmt.Errorf("failed to delete draft journal: %w", err)
	}

	logger.Info("Draft journal deleted", slog.String("journal_id", journalID), slog.String("deleted_by", requestingUserID))
	return nil
}

// PostJournal validates a DRAFT journal's lines and, if balanced, transitions
// it to POSTED and applies balance changes to the accounts atomically.
func (s *journalService) PostJournal(ctx context.Context, journalID string, requestingUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if !journal.IsMutable() {
		return nil, fmt.Errorf("%w: status is %s", ErrNotDraft, journal.Status)
	}

	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch lines for posting", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to fetch lines: %w", err)
	}

	if err := accounting.ValidateLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if result := accounting.CheckBalance(lines); !result.IsBalanced {
		return nil, fmt.Errorf("%w: debits %s, credits %s, difference %s",
			ErrJournalUnbalanced, result.TotalDebits, result.TotalCredits, result.Difference)
	}

	accountTypes, err := s.validateAccountsForPosting(ctx, lines, journal.CurrencyCode)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := calculateBalanceChanges(lines, accountTypes)
	if err != nil {
		logger.Error("Failed to calculate balance changes", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, err
	}

	now := time.Now().UTC()
	journal.Status = domain.Posted
	journal.Amount = accounting.CalculateJournalAmount(lines)
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.PostJournal(ctx, *journal, lines, balanceChanges); err != nil {
		logger.Error("Failed to post journal", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to post journal: %w", err)
	}

	logger.Info("Journal posted", slog.String("journal_id", journalID), slog.String("entry_number", journal.EntryNumber))
	journal.Lines = lines
	return journal, nil
}

// ReverseJournal creates and posts a reversal journal for a POSTED journal.
// The reversal swaps every line's debit and credit, links both journals, and
// marks the original REVERSED.
func (s *journalService) ReverseJournal(ctx context.Context, journalID string, requestingUserID string) (*domain.Journal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch original journal for reversal", "error", err)
		return nil, fmt.Errorf("failed to retrieve original journal: %w", err)
	}

	if original.Status != domain.Posted {
		logger.Warn("Attempted to reverse non-posted journal", "status", original.Status)
		return nil, fmt.Errorf("%w: journal status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}
	if original.OriginalJournalID != nil {
		return nil, fmt.Errorf("%w: cannot reverse a journal that is already a reversal", apperrors.ErrConflict)
	}
	if original.ReversingJournalID != nil {
		return nil, fmt.Errorf("%w: journal has already been reversed", apperrors.ErrConflict)
	}

	originalLines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		logger.Error("Failed to fetch original lines for reversal", "error", err)
		return nil, fmt.Errorf("failed to retrieve original lines: %w", err)
	}

	now := time.Now().UTC()
	newJournalID := uuid.NewString()

	seq, err := s.journalRepo.NextEntryNumber(ctx)
	if err != nil {
		logger.Error("Failed to reserve entry number for reversal", "error", err)
		return nil, fmt.Errorf("failed to reserve entry number: %w", err)
	}

	reversing := domain.Journal{
		JournalID:         newJournalID,
		EntryNumber:       fmt.Sprintf("JE-%06d", seq),
		JournalDate:       original.JournalDate,
		Description:       fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, original.Description),
		Reference:         original.Reference,
		CurrencyCode:      original.CurrencyCode,
		Status:            domain.Posted,
		Amount:            original.Amount,
		OriginalJournalID: &original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requestingUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requestingUserID,
		},
	}

	// Swap debit and credit on every line.
	reversingLines := make([]domain.LedgerLine, len(originalLines))
	for i, orig := range originalLines {
		reversingLines[i] = domain.LedgerLine{
			LineID:      uuid.NewString(),
			JournalID:   newJournalID,
			AccountID:   orig.AccountID,
			Description: orig.Description,
			Debit:       orig.Credit,
			Credit:      orig.Debit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     requestingUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: requestingUserID,
			},
		}
	}

	accountTypes, err := s.validateAccountsForPosting(ctx, reversingLines, reversing.CurrencyCode)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := calculateBalanceChanges(reversingLines, accountTypes)
	if err != nil {
		logger.Error("Failed to calculate balance changes for reversal", "error", err)
		return nil, err
	}

	if err := s.journalRepo.SavePosted(ctx, reversing, reversingLines, balanceChanges); err != nil {
		logger.Error("Failed to save reversing journal", "error", err)
		return nil, fmt.Errorf("failed to save reversing journal: %w", err)
	}

	if err := s.journalRepo.UpdateJournalStatusAndLinks(ctx, original.JournalID, domain.Reversed, &newJournalID, requestingUserID, now); err != nil {
		logger.Error("Failed to update original journal status after reversal", "originalJournalID", original.JournalID, "error", err)
		return nil, fmt.Errorf("failed to update original journal status: %w", err)
	}

	logger.Info("Journal reversed", "originalJournalID", journalID, "reversingJournalID", newJournalID)
	reversing.Lines = reversingLines
	return &reversing, nil
}

// ListLinesByAccount retrieves the ledger lines posted against an account.
func (s *journalService) ListLinesByAccount(ctx context.Context, accountID string, params dto.ListLinesParams) (*dto.ListLinesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	lines, nextToken, err := s.journalRepo.ListLinesByAccountID(ctx, accountID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list ledger lines by account", "error", err)
		return nil, fmt.Errorf("failed to retrieve ledger lines: %w", err)
	}

	resp := &dto.ListLinesResponse{
		Lines:     dto.ToLedgerLineResponses(lines),
		NextToken: nextToken,
	}

	logger.Info("Ledger lines listed for account", "count", len(lines))
	return resp, nil
}

// CheckJournalBalance computes the debit/credit totals of a set of request
// lines without persisting anything. Used by clients to validate while editing.
func (s *journalService) CheckJournalBalance(ctx context.Context, reqLines []dto.LedgerLineRequest) (accounting.BalanceResult, error) {
	lines := make([]domain.LedgerLine, len(reqLines))
	for i, lr := range reqLines {
		lines[i] = lr.ToDomainLine()
	}
	return accounting.CheckBalance(lines), nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
