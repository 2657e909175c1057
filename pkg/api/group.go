package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// GroupServiceName is the fully-qualified name of the GroupService service.
const GroupServiceName = "settleup.v1.GroupService"

const (
	GroupServiceCreateGroupProcedure          = "/settleup.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure             = "/settleup.v1.GroupService/GetGroup"
	GroupServiceAddMembersProcedure           = "/settleup.v1.GroupService/AddMembers"
	GroupServiceAddExpenseProcedure           = "/settleup.v1.GroupService/AddExpense"
	GroupServiceListExpensesProcedure         = "/settleup.v1.GroupService/ListExpenses"
	GroupServiceSetPreferredCurrencyProcedure = "/settleup.v1.GroupService/SetPreferredCurrency"
)

// GroupServiceHandler is implemented by the server.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	SetPreferredCurrency(context.Context, *connect.Request[SetPreferredCurrencyRequest]) (*connect.Response[SetPreferredCurrencyResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroup := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroup := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	addMembers := connect.NewUnaryHandler(GroupServiceAddMembersProcedure, svc.AddMembers, opts...)
	addExpense := connect.NewUnaryHandler(GroupServiceAddExpenseProcedure, svc.AddExpense, opts...)
	listExpenses := connect.NewUnaryHandler(GroupServiceListExpensesProcedure, svc.ListExpenses, opts...)
	setCurrency := connect.NewUnaryHandler(GroupServiceSetPreferredCurrencyProcedure, svc.SetPreferredCurrency, opts...)

	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroup.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroup.ServeHTTP(w, r)
		case GroupServiceAddMembersProcedure:
			addMembers.ServeHTTP(w, r)
		case GroupServiceAddExpenseProcedure:
			addExpense.ServeHTTP(w, r)
		case GroupServiceListExpensesProcedure:
			listExpenses.ServeHTTP(w, r)
		case GroupServiceSetPreferredCurrencyProcedure:
			setCurrency.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// GroupServiceClient is a client for the settleup.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	SetPreferredCurrency(context.Context, *connect.Request[SetPreferredCurrencyRequest]) (*connect.Response[SetPreferredCurrencyResponse], error)
}

// NewGroupServiceClient constructs a client for the settleup.v1.GroupService service.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup:  connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:     connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		addMembers:   connect.NewClient[AddMembersRequest, AddMembersResponse](httpClient, baseURL+GroupServiceAddMembersProcedure, opts...),
		addExpense:   connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+GroupServiceAddExpenseProcedure, opts...),
		listExpenses: connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+GroupServiceListExpensesProcedure, opts...),
		setCurrency:  connect.NewClient[SetPreferredCurrencyRequest, SetPreferredCurrencyResponse](httpClient, baseURL+GroupServiceSetPreferredCurrencyProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup  *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup     *connect.Client[GetGroupRequest, GetGroupResponse]
	addMembers   *connect.Client[AddMembersRequest, AddMembersResponse]
	addExpense   *connect.Client[AddExpenseRequest, AddExpenseResponse]
	listExpenses *connect.Client[ListExpensesRequest, ListExpensesResponse]
	setCurrency  *connect.Client[SetPreferredCurrencyRequest, SetPreferredCurrencyResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}

func (c *groupServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *groupServiceClient) SetPreferredCurrency(ctx context.Context, req *connect.Request[SetPreferredCurrencyRequest]) (*connect.Response[SetPreferredCurrencyResponse], error) {
	return c.setCurrency.CallUnary(ctx, req)
}
