package main

import (
	"go.uber.org/zap"

	"github.com/hybridex/broker/broker"
)

var _ broker.Handler = (*logHandler)(nil)

// logHandler prints engine events as structured log lines.
type logHandler struct {
	logger *zap.Logger
}

func (h *logHandler) OnRegisterPair(pair broker.Pair) {
	h.logger.Info("pair registered",
		zap.Uint32("id", pair.ID),
		zap.Stringer("base", pair.BaseToken),
		zap.Stringer("quote", pair.QuoteToken),
	)
}

func (h *logHandler) OnPlaceOrder(order *broker.OrderInfo) {
	h.logger.Info("order placed",
		zap.Uint64("id", order.ID),
		zap.Stringer("side", order.Side),
		zap.Stringer("price", order.Price),
		zap.Stringer("rested_base", order.PlacedBase),
		zap.Stringer("escrowed", order.EscrowedPlaced()),
	)
}

func (h *logHandler) OnAmmTrade(order *broker.OrderInfo, baseAmount, quoteAmount broker.Uint) {
	h.logger.Info("amm trade",
		zap.Uint64("order", order.ID),
		zap.Stringer("base", baseAmount),
		zap.Stringer("quote", quoteAmount),
	)
}

func (h *logHandler) OnConsumeLevel(node *broker.PriceNode, baseAmount, quoteAmount broker.Uint) {
	h.logger.Info("level consumed",
		zap.Stringer("price", node.Price),
		zap.Stringer("base", baseAmount),
		zap.Stringer("quote", quoteAmount),
	)
}

func (h *logHandler) OnEmptyLevel(node *broker.PriceNode) {
	h.logger.Info("level emptied",
		zap.Stringer("price", node.Price),
		zap.Uint64("generation", node.EmptiedCount),
	)
}

func (h *logHandler) OnCancelOrder(order *broker.OrderInfo, baseAmount, quoteAmount broker.Uint) {
	h.logger.Info("order cancelled",
		zap.Uint64("id", order.ID),
		zap.Stringer("base", baseAmount),
		zap.Stringer("quote", quoteAmount),
	)
}

func (h *logHandler) OnClaimOrder(order *broker.OrderInfo, baseAmount, quoteAmount broker.Uint) {
	h.logger.Info("order claimed",
		zap.Uint64("id", order.ID),
		zap.Stringer("base", baseAmount),
		zap.Stringer("quote", quoteAmount),
	)
}
