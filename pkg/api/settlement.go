package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// SettlementServiceName is the fully-qualified name of the SettlementService service.
const SettlementServiceName = "settleup.v1.SettlementService"

// Procedure names of SettlementService, usable as HTTP paths.
const (
	SettlementServiceGetSettlementPlanProcedure  = "/settleup.v1.SettlementService/GetSettlementPlan"
	SettlementServiceCreateSettlementProcedure   = "/settleup.v1.SettlementService/CreateSettlement"
	SettlementServiceGetSettlementProcedure      = "/settleup.v1.SettlementService/GetSettlement"
	SettlementServiceListSettlementsProcedure    = "/settleup.v1.SettlementService/ListSettlements"
	SettlementServiceVerifySettlementProcedure   = "/settleup.v1.SettlementService/VerifySettlement"
	SettlementServiceCompleteSettlementProcedure = "/settleup.v1.SettlementService/CompleteSettlement"
)

// SettlementServiceHandler is implemented by the server.
type SettlementServiceHandler interface {
	GetSettlementPlan(context.Context, *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error)
	CreateSettlement(context.Context, *connect.Request[CreateSettlementRequest]) (*connect.Response[CreateSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	VerifySettlement(context.Context, *connect.Request[VerifySettlementRequest]) (*connect.Response[VerifySettlementResponse], error)
	CompleteSettlement(context.Context, *connect.Request[CompleteSettlementRequest]) (*connect.Response[CompleteSettlementResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getPlan := connect.NewUnaryHandler(SettlementServiceGetSettlementPlanProcedure, svc.GetSettlementPlan, opts...)
	create := connect.NewUnaryHandler(SettlementServiceCreateSettlementProcedure, svc.CreateSettlement, opts...)
	get := connect.NewUnaryHandler(SettlementServiceGetSettlementProcedure, svc.GetSettlement, opts...)
	list := connect.NewUnaryHandler(SettlementServiceListSettlementsProcedure, svc.ListSettlements, opts...)
	verify := connect.NewUnaryHandler(SettlementServiceVerifySettlementProcedure, svc.VerifySettlement, opts...)
	complete := connect.NewUnaryHandler(SettlementServiceCompleteSettlementProcedure, svc.CompleteSettlement, opts...)

	return "/" + SettlementServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SettlementServiceGetSettlementPlanProcedure:
			getPlan.ServeHTTP(w, r)
		case SettlementServiceCreateSettlementProcedure:
			create.ServeHTTP(w, r)
		case SettlementServiceGetSettlementProcedure:
			get.ServeHTTP(w, r)
		case SettlementServiceListSettlementsProcedure:
			list.ServeHTTP(w, r)
		case SettlementServiceVerifySettlementProcedure:
			verify.ServeHTTP(w, r)
		case SettlementServiceCompleteSettlementProcedure:
			complete.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// SettlementServiceClient is a client for the settleup.v1.SettlementService service.
type SettlementServiceClient interface {
	GetSettlementPlan(context.Context, *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error)
	CreateSettlement(context.Context, *connect.Request[CreateSettlementRequest]) (*connect.Response[CreateSettlementResponse], error)
	GetSettlement(context.Context, *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	VerifySettlement(context.Context, *connect.Request[VerifySettlementRequest]) (*connect.Response[VerifySettlementResponse], error)
	CompleteSettlement(context.Context, *connect.Request[CompleteSettlementRequest]) (*connect.Response[CompleteSettlementResponse], error)
}

// NewSettlementServiceClient constructs a client for the
// settleup.v1.SettlementService service. baseURL is the server root, e.g.
// http://localhost:8080.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &settlementServiceClient{
		getPlan:  connect.NewClient[GetSettlementPlanRequest, GetSettlementPlanResponse](httpClient, baseURL+SettlementServiceGetSettlementPlanProcedure, opts...),
		create:   connect.NewClient[CreateSettlementRequest, CreateSettlementResponse](httpClient, baseURL+SettlementServiceCreateSettlementProcedure, opts...),
		get:      connect.NewClient[GetSettlementRequest, GetSettlementResponse](httpClient, baseURL+SettlementServiceGetSettlementProcedure, opts...),
		list:     connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](httpClient, baseURL+SettlementServiceListSettlementsProcedure, opts...),
		verify:   connect.NewClient[VerifySettlementRequest, VerifySettlementResponse](httpClient, baseURL+SettlementServiceVerifySettlementProcedure, opts...),
		complete: connect.NewClient[CompleteSettlementRequest, CompleteSettlementResponse](httpClient, baseURL+SettlementServiceCompleteSettlementProcedure, opts...),
	}
}

type settlementServiceClient struct {
	getPlan  *connect.Client[GetSettlementPlanRequest, GetSettlementPlanResponse]
	create   *connect.Client[CreateSettlementRequest, CreateSettlementResponse]
	get      *connect.Client[GetSettlementRequest, GetSettlementResponse]
	list     *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	verify   *connect.Client[VerifySettlementRequest, VerifySettlementResponse]
	complete *connect.Client[CompleteSettlementRequest, CompleteSettlementResponse]
}

func (c *settlementServiceClient) GetSettlementPlan(ctx context.Context, req *connect.Request[GetSettlementPlanRequest]) (*connect.Response[GetSettlementPlanResponse], error) {
	return c.getPlan.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CreateSettlement(ctx context.Context, req *connect.Request[CreateSettlementRequest]) (*connect.Response[CreateSettlementResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *settlementServiceClient) GetSettlement(ctx context.Context, req *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *settlementServiceClient) VerifySettlement(ctx context.Context, req *connect.Request[VerifySettlementRequest]) (*connect.Response[VerifySettlementResponse], error) {
	return c.verify.CallUnary(ctx, req)
}

func (c *settlementServiceClient) CompleteSettlement(ctx context.Context, req *connect.Request[CompleteSettlementRequest]) (*connect.Response[CompleteSettlementResponse], error) {
	return c.complete.CallUnary(ctx, req)
}
