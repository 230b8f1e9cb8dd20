package broker

// Handler receives engine events. Handlers are called inside the operation,
// after the local mutation they describe but before the session commits; a
// later failure of the same operation discards the described state change.
type Handler interface {

	// Pair handlers
	OnRegisterPair(pair Pair)

	// Placement handlers
	OnPlaceOrder(order *OrderInfo)
	OnAmmTrade(order *OrderInfo, baseAmount, quoteAmount Uint)
	OnConsumeLevel(node *PriceNode, baseAmount, quoteAmount Uint)
	OnEmptyLevel(node *PriceNode)

	// Settlement handlers
	OnCancelOrder(order *OrderInfo, baseAmount, quoteAmount Uint)
	OnClaimOrder(order *OrderInfo, baseAmount, quoteAmount Uint)
}
