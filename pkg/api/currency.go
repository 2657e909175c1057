package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// CurrencyServiceName is the fully-qualified name of the CurrencyService service.
const CurrencyServiceName = "settleup.v1.CurrencyService"

const (
	CurrencyServiceListCurrenciesProcedure = "/settleup.v1.CurrencyService/ListCurrencies"
	CurrencyServiceGetCurrencyProcedure    = "/settleup.v1.CurrencyService/GetCurrency"
	CurrencyServiceConvertProcedure        = "/settleup.v1.CurrencyService/Convert"
)

// CurrencyServiceHandler is implemented by the server.
type CurrencyServiceHandler interface {
	ListCurrencies(context.Context, *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error)
	GetCurrency(context.Context, *connect.Request[GetCurrencyRequest]) (*connect.Response[GetCurrencyResponse], error)
	Convert(context.Context, *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error)
}

// NewCurrencyServiceHandler builds an HTTP handler from the service implementation.
func NewCurrencyServiceHandler(svc CurrencyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	list := connect.NewUnaryHandler(CurrencyServiceListCurrenciesProcedure, svc.ListCurrencies, opts...)
	get := connect.NewUnaryHandler(CurrencyServiceGetCurrencyProcedure, svc.GetCurrency, opts...)
	convert := connect.NewUnaryHandler(CurrencyServiceConvertProcedure, svc.Convert, opts...)

	return "/" + CurrencyServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CurrencyServiceListCurrenciesProcedure:
			list.ServeHTTP(w, r)
		case CurrencyServiceGetCurrencyProcedure:
			get.ServeHTTP(w, r)
		case CurrencyServiceConvertProcedure:
			convert.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// CurrencyServiceClient is a client for the settleup.v1.CurrencyService service.
type CurrencyServiceClient interface {
	ListCurrencies(context.Context, *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error)
	GetCurrency(context.Context, *connect.Request[GetCurrencyRequest]) (*connect.Response[GetCurrencyResponse], error)
	Convert(context.Context, *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error)
}

// NewCurrencyServiceClient constructs a client for the settleup.v1.CurrencyService service.
func NewCurrencyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) CurrencyServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &currencyServiceClient{
		list:    connect.NewClient[ListCurrenciesRequest, ListCurrenciesResponse](httpClient, baseURL+CurrencyServiceListCurrenciesProcedure, opts...),
		get:     connect.NewClient[GetCurrencyRequest, GetCurrencyResponse](httpClient, baseURL+CurrencyServiceGetCurrencyProcedure, opts...),
		convert: connect.NewClient[ConvertRequest, ConvertResponse](httpClient, baseURL+CurrencyServiceConvertProcedure, opts...),
	}
}

type currencyServiceClient struct {
	list    *connect.Client[ListCurrenciesRequest, ListCurrenciesResponse]
	get     *connect.Client[GetCurrencyRequest, GetCurrencyResponse]
	convert *connect.Client[ConvertRequest, ConvertResponse]
}

func (c *currencyServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error) {
	return c.list.CallUnary(ctx, req)
}

func (c *currencyServiceClient) GetCurrency(ctx context.Context, req *connect.Request[GetCurrencyRequest]) (*connect.Response[GetCurrencyResponse], error) {
	return c.get.CallUnary(ctx, req)
}

func (c *currencyServiceClient) Convert(ctx context.Context, req *connect.Request[ConvertRequest]) (*connect.Response[ConvertResponse], error) {
	return c.convert.CallUnary(ctx, req)
}
