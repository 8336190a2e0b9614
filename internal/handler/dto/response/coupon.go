package response

import (
	"conftix/internal/usecase/queries"
)

type CouponEvaluationResponse struct {
	AppliedCode   string `json:"applied_code"`
	DiscountCents int64  `json:"discount_cents"`
	SubtotalCents int64  `json:"subtotal_cents"`
	PayableCents  int64  `json:"payable_cents"`
}

func FromCouponEvaluation(eval *queries.CouponEvaluation) *CouponEvaluationResponse {
	return &CouponEvaluationResponse{
		AppliedCode:   eval.AppliedCode,
		DiscountCents: eval.DiscountCents,
		SubtotalCents: eval.SubtotalCents,
		PayableCents:  eval.PayableCents,
	}
}
