package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

// HouseholdServiceName is the fully-qualified name of the HouseholdService.
const HouseholdServiceName = Package + ".HouseholdService"

const (
	HouseholdServiceCreateHouseholdProcedure      = "/" + HouseholdServiceName + "/CreateHousehold"
	HouseholdServiceJoinHouseholdProcedure        = "/" + HouseholdServiceName + "/JoinHousehold"
	HouseholdServiceGetHouseholdProcedure         = "/" + HouseholdServiceName + "/GetHousehold"
	HouseholdServiceListHouseholdsProcedure       = "/" + HouseholdServiceName + "/ListHouseholds"
	HouseholdServiceGetPairBalanceProcedure       = "/" + HouseholdServiceName + "/GetPairBalance"
	HouseholdServiceGetHouseholdBalancesProcedure = "/" + HouseholdServiceName + "/GetHouseholdBalances"
	HouseholdServiceRecordSettlementProcedure     = "/" + HouseholdServiceName + "/RecordSettlement"
	HouseholdServiceListSettlementsProcedure      = "/" + HouseholdServiceName + "/ListSettlements"
)

// HouseholdServiceHandler is implemented by the server side of the HouseholdService.
type HouseholdServiceHandler interface {
	CreateHousehold(context.Context, *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error)
	JoinHousehold(context.Context, *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error)
	GetHousehold(context.Context, *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error)
	ListHouseholds(context.Context, *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error)
	GetPairBalance(context.Context, *connect.Request[api.GetPairBalanceRequest]) (*connect.Response[api.GetPairBalanceResponse], error)
	GetHouseholdBalances(context.Context, *connect.Request[api.GetHouseholdBalancesRequest]) (*connect.Response[api.GetHouseholdBalancesResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
}

// NewHouseholdServiceHandler returns the path prefix to mount and its handler.
func NewHouseholdServiceHandler(svc HouseholdServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + HouseholdServiceName + "/", routes{
		HouseholdServiceCreateHouseholdProcedure:      connect.NewUnaryHandler(HouseholdServiceCreateHouseholdProcedure, svc.CreateHousehold, opts...),
		HouseholdServiceJoinHouseholdProcedure:        connect.NewUnaryHandler(HouseholdServiceJoinHouseholdProcedure, svc.JoinHousehold, opts...),
		HouseholdServiceGetHouseholdProcedure:         connect.NewUnaryHandler(HouseholdServiceGetHouseholdProcedure, svc.GetHousehold, opts...),
		HouseholdServiceListHouseholdsProcedure:       connect.NewUnaryHandler(HouseholdServiceListHouseholdsProcedure, svc.ListHouseholds, opts...),
		HouseholdServiceGetPairBalanceProcedure:       connect.NewUnaryHandler(HouseholdServiceGetPairBalanceProcedure, svc.GetPairBalance, opts...),
		HouseholdServiceGetHouseholdBalancesProcedure: connect.NewUnaryHandler(HouseholdServiceGetHouseholdBalancesProcedure, svc.GetHouseholdBalances, opts...),
		HouseholdServiceRecordSettlementProcedure:     connect.NewUnaryHandler(HouseholdServiceRecordSettlementProcedure, svc.RecordSettlement, opts...),
		HouseholdServiceListSettlementsProcedure:      connect.NewUnaryHandler(HouseholdServiceListSettlementsProcedure, svc.ListSettlements, opts...),
	}
}

// HouseholdServiceClient is a client for the HouseholdService.
type HouseholdServiceClient interface {
	HouseholdServiceHandler
}

// NewHouseholdServiceClient constructs a client for the HouseholdService at baseURL.
func NewHouseholdServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) HouseholdServiceClient {
	baseURL = trimBaseURL(baseURL)
	opts = clientOptions(opts)
	return &householdServiceClient{
		createHousehold:      connect.NewClient[api.CreateHouseholdRequest, api.CreateHouseholdResponse](httpClient, baseURL+HouseholdServiceCreateHouseholdProcedure, opts...),
		joinHousehold:        connect.NewClient[api.JoinHouseholdRequest, api.JoinHouseholdResponse](httpClient, baseURL+HouseholdServiceJoinHouseholdProcedure, opts...),
		getHousehold:         connect.NewClient[api.GetHouseholdRequest, api.GetHouseholdResponse](httpClient, baseURL+HouseholdServiceGetHouseholdProcedure, opts...),
		listHouseholds:       connect.NewClient[api.ListHouseholdsRequest, api.ListHouseholdsResponse](httpClient, baseURL+HouseholdServiceListHouseholdsProcedure, opts...),
		getPairBalance:       connect.NewClient[api.GetPairBalanceRequest, api.GetPairBalanceResponse](httpClient, baseURL+HouseholdServiceGetPairBalanceProcedure, opts...),
		getHouseholdBalances: connect.NewClient[api.GetHouseholdBalancesRequest, api.GetHouseholdBalancesResponse](httpClient, baseURL+HouseholdServiceGetHouseholdBalancesProcedure, opts...),
		recordSettlement:     connect.NewClient[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL+HouseholdServiceRecordSettlementProcedure, opts...),
		listSettlements:      connect.NewClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+HouseholdServiceListSettlementsProcedure, opts...),
	}
}

type householdServiceClient struct {
	createHousehold      *connect.Client[api.CreateHouseholdRequest, api.CreateHouseholdResponse]
	joinHousehold        *connect.Client[api.JoinHouseholdRequest, api.JoinHouseholdResponse]
	getHousehold         *connect.Client[api.GetHouseholdRequest, api.GetHouseholdResponse]
	listHouseholds       *connect.Client[api.ListHouseholdsRequest, api.ListHouseholdsResponse]
	getPairBalance       *connect.Client[api.GetPairBalanceRequest, api.GetPairBalanceResponse]
	getHouseholdBalances *connect.Client[api.GetHouseholdBalancesRequest, api.GetHouseholdBalancesResponse]
	recordSettlement     *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	listSettlements      *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
}

func (c *householdServiceClient) CreateHousehold(ctx context.Context, req *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	return c.createHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) JoinHousehold(ctx context.Context, req *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error) {
	return c.joinHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) GetHousehold(ctx context.Context, req *connect.Request[api.GetHouseholdRequest]) (*connect.Response[api.GetHouseholdResponse], error) {
	return c.getHousehold.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListHouseholds(ctx context.Context, req *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	return c.listHouseholds.CallUnary(ctx, req)
}

func (c *householdServiceClient) GetPairBalance(ctx context.Context, req *connect.Request[api.GetPairBalanceRequest]) (*connect.Response[api.GetPairBalanceResponse], error) {
	return c.getPairBalance.CallUnary(ctx, req)
}

func (c *householdServiceClient) GetHouseholdBalances(ctx context.Context, req *connect.Request[api.GetHouseholdBalancesRequest]) (*connect.Response[api.GetHouseholdBalancesResponse], error) {
	return c.getHouseholdBalances.CallUnary(ctx, req)
}

func (c *householdServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *householdServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}
