package order

import (
	"context"
	"fmt"

	"velora-be/internal/logger"
	"velora-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	GetOrders(ctx context.Context, filter *Filter, sort *Sort, limit, page int32) ([]*Order, error)
	GetOrderDetail(ctx context.Context, orderID uint) (*Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status Status) (*Order, error)
	SetTracking(ctx context.Context, orderID uint, tracking string) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrders(ctx context.Context, filter *Filter, sort *Sort, limit, page int32) ([]*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	return s.repo.GetOrders(ctx, userID, utils.IsAdmin(ctx), filter, sort, limit, page)
}

// GetOrderDetail returns one order with its items. Non-admin callers
// only see their own orders.
func (s *service) GetOrderDetail(ctx context.Context, orderID uint) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	order, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !utils.IsAdmin(ctx) && order.UserID != userID {
		return nil, ErrUnauthorized
	}

	return order, nil
}

// UpdateStatus moves an order along the workflow. Only transitions in
// the table are accepted; anything else fails with ErrInvalidTransition.
func (s *service) UpdateStatus(ctx context.Context, orderID uint, status Status) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.Uint("order_id", orderID),
		zap.String("target_status", string(status)),
	)

	if !status.Valid() {
		log.Warn("unknown order status")
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	// 1. Load current state
	order, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// 2. Enforce the transition table
	if !order.Status.CanTransitionTo(status) {
		log.Warn("rejected status transition",
			zap.String("current_status", string(order.Status)),
		)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, status)
	}

	// 3. Persist
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	order.Status = status
	log.Info("order status updated")

	return order, nil
}

func (s *service) SetTracking(ctx context.Context, orderID uint, tracking string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetTracking"),
		zap.Uint("order_id", orderID),
	)

	order, err := s.repo.GetOrderDetail(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		log.Warn("rejected tracking update on terminal order",
			zap.String("status", string(order.Status)),
		)
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	if err := s.repo.SetTrackingNumber(ctx, orderID, tracking); err != nil {
		log.Error("failed to set tracking number", zap.Error(err))
		return nil, err
	}

	order.TrackingNumber = &tracking
	log.Info("tracking number set")

	return order, nil
}
