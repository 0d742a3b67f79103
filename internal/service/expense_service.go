package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// DefaultCategory is used when an expense names no category.
const DefaultCategory = "General"

var _ apiconnect.ExpenseServiceHandler = (*ExpenseService)(nil)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	store     storage.Store
	publisher events.Publisher
	observer  SplitObserver
	now       func() time.Time
}

// NewExpenseService creates an ExpenseService. A nil publisher drops events
// and a nil observer ignores split metrics.
func NewExpenseService(store storage.Store, publisher events.Publisher, observer SplitObserver) *ExpenseService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &ExpenseService{
		store:     store,
		publisher: publisher,
		observer:  observer,
		now:       time.Now,
	}
}

// PreviewSplit computes a split without storing anything. A form calls it
// while the user types, so it reads nothing from storage.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	mode := splitMode(req.Msg.SplitMode, req.Msg.Shares)
	shares, err := computeSplit(s.observer, req.Msg.Amount, mode, req.Msg.Participants, req.Msg.Shares)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.PreviewSplitResponse{
		Shares: toAPIShares(shares),
		Total:  calculator.Sum(shares),
	}), nil
}

// CreateExpense records an expense and its shares.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateExpense request received",
		"user_id", userID,
		"household_id", req.Msg.HouseholdID,
		"amount", req.Msg.Amount.String(),
	)

	expense, err := s.buildExpense(ctx, userID, &req.Msg.ExpenseInput)
	if err != nil {
		slog.Warn("CreateExpense rejected", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "shares", len(expense.Shares))
	s.publish(ctx, events.ExpenseCreated, expense, userID)

	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense returns an expense the caller is involved in or whose household they belong to.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if !expense.Involves(userID) {
		if expense.HouseholdID == "" {
			return nil, toConnectError(ErrNotInvolved)
		}
		if _, err := loadHouseholdFor(ctx, s.store, expense.HouseholdID, userID); err != nil {
			return nil, toConnectError(err)
		}
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses lists a household's expenses, or the caller's own when no household is given.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	var expenses []*models.Expense
	if req.Msg.HouseholdID != "" {
		if _, err := loadHouseholdFor(ctx, s.store, req.Msg.HouseholdID, userID); err != nil {
			return nil, toConnectError(err)
		}
		expenses, err = s.store.ListExpensesByHousehold(ctx, req.Msg.HouseholdID)
	} else {
		expenses, err = s.store.ListExpensesByUser(ctx, userID)
	}
	if err != nil {
		slog.Error("ListExpenses failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toAPIExpense(e)
	}

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// UpdateExpense replaces an expense and re-splits it.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !existing.Involves(userID) {
		return nil, toConnectError(ErrNotInvolved)
	}

	input := req.Msg.ExpenseInput
	if input.HouseholdID == "" {
		input.HouseholdID = existing.HouseholdID
	}
	if input.PayerID == "" {
		input.PayerID = existing.PayerID
	}
	if input.Date == 0 {
		input.Date = existing.Date
	}

	expense, err := s.buildExpense(ctx, userID, &input)
	if err != nil {
		slog.Warn("UpdateExpense rejected", "expense_id", existing.ID, "error", err)
		return nil, toConnectError(err)
	}
	expense.ID = existing.ID
	expense.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense updated", "expense_id", expense.ID)
	s.publish(ctx, events.ExpenseUpdated, expense, userID)

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense the caller paid for or shares in.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(err)
	}
	if !expense.Involves(userID) {
		return nil, toConnectError(ErrNotInvolved)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Expense deleted", "expense_id", expense.ID)
	s.publish(ctx, events.ExpenseDeleted, expense, userID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// ListCategories returns the caller's categories.
func (s *ExpenseService) ListCategories(ctx context.Context, req *connect.Request[api.ListCategoriesRequest]) (*connect.Response[api.ListCategoriesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Category, len(categories))
	for i, c := range categories {
		out[i] = &api.Category{ID: c.ID, Name: c.Name}
	}

	return connect.NewResponse(&api.ListCategoriesResponse{Categories: out}), nil
}

// buildExpense validates in and computes its shares.
//
// Shares are chosen in this order: explicit custom shares, explicit
// participants split evenly, all household members when the household
// splits automatically, and finally the payer alone.
func (s *ExpenseService) buildExpense(ctx context.Context, userID string, in *api.ExpenseInput) (*models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalidArgument("description is required")
	}
	if err := validateAmount("amount", in.Amount); err != nil {
		return nil, err
	}

	payerID := in.PayerID
	if payerID == "" {
		payerID = userID
	}

	var household *models.Household
	if in.HouseholdID != "" {
		h, err := loadHouseholdFor(ctx, s.store, in.HouseholdID, userID)
		if err != nil {
			return nil, err
		}
		if !h.HasMember(payerID) {
			return nil, invalidArgument("payer %s is not a member of the household", payerID)
		}
		household = h
	}

	mode := splitMode(in.SplitMode, in.Shares)
	participants := in.Participants
	switch {
	case mode == api.SplitModeCustom:
	case len(participants) > 0:
	case household != nil && household.AutoSplit:
		participants = household.Members
	default:
		participants = []string{payerID}
	}

	split, err := computeSplit(s.observer, in.Amount, mode, participants, in.Shares)
	if err != nil {
		return nil, err
	}

	shares := make([]models.Share, len(split))
	ids := make([]string, len(split))
	for i, share := range split {
		if share.Amount.IsNegative() {
			return nil, invalidArgument("share for %s cannot be negative", share.Participant)
		}
		shares[i] = models.Share{
			UserID: share.Participant,
			Amount: share.Amount,
			IsPaid: share.Participant == payerID,
		}
		ids[i] = share.Participant
	}

	if err := s.checkParticipants(ctx, household, append(ids, payerID)); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = DefaultCategory
	}
	if _, err := s.store.EnsureCategory(ctx, userID, category); err != nil {
		return nil, err
	}

	date := in.Date
	if date == 0 {
		date = s.now().Unix()
	}

	return &models.Expense{
		HouseholdID: in.HouseholdID,
		PayerID:     payerID,
		Description: description,
		Category:    category,
		Amount:      in.Amount,
		Date:        date,
		Notes:       strings.TrimSpace(in.Notes),
		SplitMode:   models.SplitMode(mode),
		Shares:      shares,
	}, nil
}

// checkParticipants requires every id to be a household member, or an
// existing user for expenses outside a household.
func (s *ExpenseService) checkParticipants(ctx context.Context, household *models.Household, ids []string) error {
	if household != nil {
		for _, id := range ids {
			if !household.HasMember(id) {
				return invalidArgument("user %s is not a member of the household", id)
			}
		}
		return nil
	}

	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := users[id]; !ok {
			return invalidArgument("unknown user %s", id)
		}
	}
	return nil
}

func (s *ExpenseService) publish(ctx context.Context, eventType string, expense *models.Expense, actorID string) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:        eventType,
		HouseholdID: expense.HouseholdID,
		EntityID:    expense.ID,
		ActorID:     actorID,
		Amount:      expense.Amount,
		OccurredAt:  s.now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to publish event", "type", eventType, "expense_id", expense.ID, "error", err)
	}
}

// loadHouseholdFor loads a household and checks that userID belongs to it.
func loadHouseholdFor(ctx context.Context, store storage.HouseholdStore, householdID, userID string) (*models.Household, error) {
	household, err := store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !household.HasMember(userID) {
		return nil, ErrNotMember
	}
	return household, nil
}
