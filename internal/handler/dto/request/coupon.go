package request

type EvaluateCouponRequest struct {
	Code          string `json:"code" binding:"required"`
	SubtotalCents int64  `json:"subtotal_cents" binding:"min=0"`
}
