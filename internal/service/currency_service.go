package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/pkg/api"
)

// CurrencyService exposes the rate table. It does not need an authenticated
// caller.
type CurrencyService struct {
	conv *currency.Converter
}

var _ api.CurrencyServiceHandler = (*CurrencyService)(nil)

func NewCurrencyService(conv *currency.Converter) *CurrencyService {
	return &CurrencyService{conv: conv}
}

func (s *CurrencyService) ListCurrencies(ctx context.Context, req *connect.Request[api.ListCurrenciesRequest]) (*connect.Response[api.ListCurrenciesResponse], error) {
	rates := s.conv.ListSupported()
	out := make([]*api.Currency, len(rates))
	for i, r := range rates {
		out[i] = toAPICurrency(r)
	}
	return connect.NewResponse(&api.ListCurrenciesResponse{
		ReferenceCurrency: s.conv.Reference(),
		Currencies:        out,
	}), nil
}

func (s *CurrencyService) GetCurrency(ctx context.Context, req *connect.Request[api.GetCurrencyRequest]) (*connect.Response[api.GetCurrencyResponse], error) {
	if err := required("code", req.Msg.Code); err != nil {
		return nil, err
	}
	r, err := s.conv.Details(req.Msg.Code)
	if err != nil {
		return nil, fail("GetCurrency", err, "code", req.Msg.Code)
	}
	return connect.NewResponse(&api.GetCurrencyResponse{Currency: toAPICurrency(r)}), nil
}

// Convert converts an amount between two supported currencies, rounded to
// cents, and also reports it in the reference currency.
func (s *CurrencyService) Convert(ctx context.Context, req *connect.Request[api.ConvertRequest]) (*connect.Response[api.ConvertResponse], error) {
	from, to := currency.NormalizeCode(req.Msg.From), currency.NormalizeCode(req.Msg.To)
	if to == "" {
		to = s.conv.Reference()
	}
	if err := required("from", from); err != nil {
		return nil, err
	}

	amount, err := s.conv.Convert(req.Msg.Amount, from, to)
	if err != nil {
		return nil, fail("Convert", err, "from", from, "to", to)
	}
	ref, err := s.conv.ToReference(req.Msg.Amount, from)
	if err != nil {
		return nil, fail("Convert", err, "from", from)
	}

	return connect.NewResponse(&api.ConvertResponse{
		Amount:          amount,
		Currency:        to,
		AmountReference: ref,
	}), nil
}
