package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
	"github.com/mmynk/splitledger/pkg/api/apiconnect"
)

// inviteCodeAttempts bounds retries when a generated invite code is taken.
const inviteCodeAttempts = 5

var _ apiconnect.HouseholdServiceHandler = (*HouseholdService)(nil)

// HouseholdService implements the Connect HouseholdService.
type HouseholdService struct {
	store     storage.Store
	publisher events.Publisher
	now       func() time.Time
}

// NewHouseholdService creates a HouseholdService. A nil publisher drops events.
func NewHouseholdService(store storage.Store, publisher events.Publisher) *HouseholdService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &HouseholdService{store: store, publisher: publisher, now: time.Now}
}

// CreateHousehold creates a household with the caller as its first member.
func (s *HouseholdService) CreateHousehold(ctx context.Context, req *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError(invalidArgument("household name is required"))
	}

	household := &models.Household{
		Name:      name,
		Members:   []string{userID},
		AutoSplit: req.Msg.AutoSplit,
	}

	for attempt := 1; ; attempt++ {
		code, err := auth.NewInviteCode(auth.InviteCodeLength)
		if err != nil {
			return nil, toConnectError(err)
		}
		household.InviteCode = code

		err = s.store.CreateHousehold(ctx, household)
		if err == nil {
			break
		}
		if !errors.Is(err, storage.ErrAlreadyExists) || attempt == inviteCodeAttempts {
			slog.Error("CreateHousehold failed", "error", err)
			return nil, toConnectError(err)
		}
		household.ID = ""
	}

	slog.Info("Household created", "household_id", household.ID, "user_id", userID)

	out, err := s.toAPIHousehold(ctx, household)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CreateHouseholdResponse{Household: out}), nil
}

// JoinHousehold adds the caller to the household an invite code belongs to.
// Joining a household twice is not an error.
func (s *HouseholdService) JoinHousehold(ctx context.Context, req *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Msg.InviteCode))
	if code == "" {
		return nil, toConnectError(invalidArgument("invite code is required"))
	}

	household, err := s.store.GetHouseholdByInviteCode(ctx, code)
	if err != nil {
		return nil, toConnectError(err)
	}

	if !household.HasMember(userID) {
		if err := s.store.AddHouseholdMembers(ctx, household.ID, []string{userID}); err != nil {
			slog.Error("JoinHousehold failed", "household_id", household.ID, "error", err)
			return nil, toConnectError(err)
		}
		household.Members = append(household.Members, userID)
		slog.Info("User joined household", "household_id", household.ID, "user_id", userID)
	}

	out, err := s.toAPIHousehold(ctx, household)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.JoinHouseholdResponse{Household: out}), nil
}

// GetHousehold returns a household the caller belongs to.
func (s *HouseholdService) GetHousehold(ctx context.Context, req *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	household, err := loadHouseholdFor(ctx, s.store, req.Msg.HouseholdID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out, err := s.toAPIHousehold(ctx, household)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetHouseholdResponse{Household: out}), nil
}

// ListHouseholds returns the caller's households.
func (s *HouseholdService) ListHouseholds(ctx context.Context, req *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	households, err := s.store.ListHouseholdsByMember(ctx, userID)
	if err != nil {
		slog.Error("ListHouseholds failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Household, len(households))
	for i, h := range households {
		if out[i], err = s.toAPIHousehold(ctx, h); err != nil {
			return nil, toConnectError(err)
		}
	}

	return connect.NewResponse(&api.ListHouseholdsResponse{Households: out}), nil
}

// GetPairBalance returns the signed balance between two members over the
// whole household ledger. Positive means UserA owes UserB.
func (s *HouseholdService) GetPairBalance(ctx context.Context, req *connect.Request[api.GetPairBalanceRequest]) (*connect.Response[api.GetPairBalanceResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	household, err := loadHouseholdFor(ctx, s.store, req.Msg.HouseholdID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	a, b := req.Msg.UserA, req.Msg.UserB
	for _, id := range []string{a, b} {
		if !household.HasMember(id) {
			return nil, toConnectError(invalidArgument("user %q is not a member of the household", id))
		}
	}

	expenses, settlements, err := s.ledger(ctx, household.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	totals := calculator.PairTotals(expenses, settlements, a, b)

	return connect.NewResponse(&api.GetPairBalanceResponse{
		Balance: totals.Net(),
		PaidA:   totals.PaidA,
		PaidB:   totals.PaidB,
		OwedA:   totals.OwedA,
		OwedB:   totals.OwedB,
	}), nil
}

// GetHouseholdBalances returns every member's net balance and the payments
// that would settle them.
func (s *HouseholdService) GetHouseholdBalances(ctx context.Context, req *connect.Request[api.GetHouseholdBalancesRequest]) (*connect.Response[api.GetHouseholdBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	household, err := loadHouseholdFor(ctx, s.store, req.Msg.HouseholdID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	expenses, settlements, err := s.ledger(ctx, household.ID)
	if err != nil {
		return nil, toConnectError(err)
	}

	balances, debts := calculator.CalculateGroupBalances(expenses, settlements)

	byMember := make(map[string]calculator.MemberBalance, len(balances))
	for _, b := range balances {
		byMember[b.MemberID] = b
	}

	users, err := s.store.GetUsersByIDs(ctx, household.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	// Every member is listed, including those with no activity yet.
	out := make([]*api.MemberBalance, len(household.Members))
	for i, id := range household.Members {
		b, ok := byMember[id]
		if !ok {
			b = calculator.MemberBalance{MemberID: id, NetBalance: decimal.Zero, TotalPaid: decimal.Zero, TotalOwed: decimal.Zero}
		}
		out[i] = &api.MemberBalance{
			UserID:      id,
			DisplayName: displayName(users, id),
			NetBalance:  b.NetBalance,
			TotalPaid:   b.TotalPaid,
			TotalOwed:   b.TotalOwed,
		}
	}

	outDebts := make([]*api.Debt, len(debts))
	for i, d := range debts {
		outDebts[i] = &api.Debt{FromUserID: d.From, ToUserID: d.To, Amount: d.Amount}
	}

	return connect.NewResponse(&api.GetHouseholdBalancesResponse{
		Balances: out,
		Debts:    outDebts,
	}), nil
}

// RecordSettlement records a payment from one member to another.
func (s *HouseholdService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("RecordSettlement request received",
		"household_id", req.Msg.HouseholdID,
		"from", req.Msg.FromUserID,
		"to", req.Msg.ToUserID,
		"amount", req.Msg.Amount.String(),
	)

	household, err := loadHouseholdFor(ctx, s.store, req.Msg.HouseholdID, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := validateAmount("settlement amount", req.Msg.Amount); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.FromUserID == req.Msg.ToUserID {
		return nil, toConnectError(invalidArgument("cannot settle with yourself"))
	}
	for _, id := range []string{req.Msg.FromUserID, req.Msg.ToUserID} {
		if !household.HasMember(id) {
			return nil, toConnectError(invalidArgument("user %q is not a member of the household", id))
		}
	}

	settlement := &models.Settlement{
		HouseholdID: household.ID,
		FromUserID:  req.Msg.FromUserID,
		ToUserID:    req.Msg.ToUserID,
		Amount:      req.Msg.Amount,
		CreatedBy:   userID,
		Note:        strings.TrimSpace(req.Msg.Note),
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID)

	err = s.publisher.Publish(ctx, events.Event{
		Type:        events.SettlementRecorded,
		HouseholdID: household.ID,
		EntityID:    settlement.ID,
		ActorID:     userID,
		Amount:      settlement.Amount,
		OccurredAt:  s.now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to publish event", "type", events.SettlementRecorded, "settlement_id", settlement.ID, "error", err)
	}

	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements returns a household's settlements, newest first.
func (s *HouseholdService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := loadHouseholdFor(ctx, s.store, req.Msg.HouseholdID, userID); err != nil {
		return nil, toConnectError(err)
	}

	settlements, err := s.store.ListSettlementsByHousehold(ctx, req.Msg.HouseholdID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}

	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

func (s *HouseholdService) ledger(ctx context.Context, householdID string) ([]calculator.ExpenseForBalance, []calculator.SettlementForBalance, error) {
	expenses, err := s.store.ListExpensesByHousehold(ctx, householdID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.store.ListSettlementsByHousehold(ctx, householdID)
	if err != nil {
		return nil, nil, err
	}
	calcExpenses, calcSettlements := ledgerInputs(expenses, settlements)
	return calcExpenses, calcSettlements, nil
}

func (s *HouseholdService) toAPIHousehold(ctx context.Context, household *models.Household) (*api.Household, error) {
	users, err := s.store.GetUsersByIDs(ctx, household.Members)
	if err != nil {
		return nil, err
	}

	members := make([]*api.Member, len(household.Members))
	for i, id := range household.Members {
		members[i] = &api.Member{UserID: id, DisplayName: displayName(users, id)}
	}

	return &api.Household{
		ID:         household.ID,
		Name:       household.Name,
		InviteCode: household.InviteCode,
		Members:    members,
		AutoSplit:  household.AutoSplit,
		CreatedAt:  household.CreatedAt,
	}, nil
}

func displayName(users map[string]*models.User, id string) string {
	if u, ok := users[id]; ok {
		return u.DisplayName
	}
	return ""
}
