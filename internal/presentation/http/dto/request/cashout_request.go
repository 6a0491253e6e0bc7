package request

// CashoutFilterRequest selects the date and seller a cashout covers. A missing
// date means today and an empty one means every date. An empty seller means
// the whole store.
type CashoutFilterRequest struct {
	Date     *string `json:"date"`
	SellerID string  `json:"seller_id"`
}

// SetCountRequest records how many bills or coins of one denomination are in
// the drawer.
type SetCountRequest struct {
	Denomination int64 `json:"denomination" binding:"required"`
	Count        int   `json:"count"`
}
