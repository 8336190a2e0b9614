package response

import (
	"conftix/internal/usecase/commands"
)

type SessionResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	AmountCents      int64  `json:"amount_cents"`
	DiscountCents    int64  `json:"discount_cents"`
	Currency         string `json:"currency"`
}

type ConfirmResponse struct {
	Purchases []*PurchaseResponse `json:"purchases"`
	Replayed  bool                `json:"replayed"`
}

func FromSessionResult(result *commands.CreateSessionResult) *SessionResponse {
	return &SessionResponse{
		Reference:        result.Reference,
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		AmountCents:      result.AmountCents,
		DiscountCents:    result.DiscountCents,
		Currency:         result.Currency,
	}
}

func FromConfirmResult(result *commands.ConfirmResult) *ConfirmResponse {
	return &ConfirmResponse{
		Purchases: FromPurchaseRecords(result.Purchases),
		Replayed:  result.IsReplayed,
	}
}
