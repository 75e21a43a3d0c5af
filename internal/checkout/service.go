package checkout

import (
	"context"
	"errors"

	"velora-be/internal/cart"
	"velora-be/internal/logger"
	"velora-be/internal/order"
	"velora-be/internal/payment"
	"velora-be/internal/pricing"
	"velora-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Quote(ctx context.Context) (*pricing.Quote, error)
	InitiatePayment(ctx context.Context, input CheckoutInput) (*InitiateResult, error)
	VerifyPayment(ctx context.Context, reference string) (*order.Order, error)
}

type service struct {
	gateway   payment.Gateway
	orderRepo order.Repository
	cartRepo  cart.Repository
	schedule  pricing.Schedule
}

func NewService(gateway payment.Gateway, orderRepo order.Repository, cartRepo cart.Repository, schedule pricing.Schedule) Service {
	return &service{
		gateway:   gateway,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		schedule:  schedule,
	}
}

// Quote prices the caller's persisted cart against the current shipping
// schedule. Purely informational; the amount actually charged is the
// one submitted at initiation.
func (s *service) Quote(ctx context.Context) (*pricing.Quote, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	state, err := s.cartRepo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	var items []cart.LineItem
	if state != nil {
		items = state.Items
	}

	q := pricing.QuoteFor(items, s.schedule)
	return &q, nil
}

// InitiatePayment asks the provider for a hosted payment page. Nothing
// is persisted here and the cart is untouched; the commit point of the
// whole flow is VerifyPayment.
func (s *service) InitiatePayment(ctx context.Context, input CheckoutInput) (*InitiateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "InitiatePayment"),
		zap.Int("item_count", len(input.Items)),
		zap.Float64("amount", input.Amount),
	)

	// 1. Identity always comes from the request context
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		log.Warn("initiate without authenticated user")
		return nil, ErrUnauthenticated
	}

	if len(input.Items) == 0 {
		log.Warn("initiate with empty cart")
		return nil, ErrEmptyCart
	}

	// 2. Build the provider request; amounts go over the wire in minor units
	req := payment.InitializeRequest{
		Email:  utils.GetUserEmailFromContext(ctx),
		Amount: pricing.ToMinor(input.Amount),
		Metadata: payment.Metadata{
			UserID:          userID,
			Items:           input.Items,
			ShippingAddress: input.ShippingAddress,
			PhoneNumber:     input.PhoneNumber,
		},
	}

	resp, err := s.gateway.Initialize(ctx, req)
	if err != nil {
		log.Error("payment initialization failed", zap.Error(err))
		return nil, err
	}

	log.Info("payment initialized", zap.String("reference", resp.Reference))

	return &InitiateResult{
		AuthorizationURL: resp.AuthorizationURL,
		Reference:        resp.Reference,
	}, nil
}

// VerifyPayment is the only place an order row is created. Amount and
// item snapshots are taken solely from the provider response, never from
// the caller. Verifying an already-materialized reference returns the
// existing order.
func (s *service) VerifyPayment(ctx context.Context, reference string) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyPayment"),
		zap.String("reference", reference),
	)

	if reference == "" {
		return nil, ErrMissingReference
	}

	// 1. Confirm with the provider
	data, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		log.Error("provider verification failed", zap.Error(err))
		return nil, err
	}

	// 2. Anything but success creates nothing
	if data.Status != payment.StatusSuccess {
		log.Warn("payment not successful", zap.String("status", data.Status))
		return nil, ErrPaymentNotSuccessful
	}

	// 3. Validate metadata round-tripped through the provider
	meta := data.Metadata
	if meta.UserID == 0 || len(meta.Items) == 0 {
		log.Error("metadata missing or malformed")
		return nil, ErrInvalidMetadata
	}

	// 4. Idempotency: a reference materializes at most once
	existing, err := s.orderRepo.GetByReference(ctx, reference)
	if err != nil {
		log.Error("failed idempotency lookup", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		log.Info("reference already materialized",
			zap.String("order_number", existing.OrderNumber),
		)
		return existing, nil
	}

	// 5. Materialize the order with denormalized item snapshots
	items := make([]order.OrderItem, 0, len(meta.Items))
	for _, line := range meta.Items {
		var image string
		if len(line.Product.Images) > 0 {
			image = line.Product.Images[0]
		}
		items = append(items, order.OrderItem{
			ProductID:    line.ProductID,
			VariantID:    line.VariantID,
			Quantity:     line.Quantity,
			Price:        line.Variant.Price,
			Size:         line.Variant.Size,
			ProductName:  line.Product.Name,
			ProductImage: image,
		})
	}

	o := &order.Order{
		OrderNumber:      utils.GenerateOrderNumber(),
		UserID:           meta.UserID,
		Status:           order.StatusPending,
		TotalAmount:      pricing.FromMinor(data.Amount),
		ShippingAddress:  meta.ShippingAddress,
		PhoneNumber:      meta.PhoneNumber,
		PaymentReference: reference,
		Items:            items,
	}

	if err := s.orderRepo.CreateOrderTx(ctx, o); err != nil {
		// Webhook and redirect verification can race past the lookup
		// above; the unique constraint decides the winner and the
		// loser returns the winner's order.
		if errors.Is(err, order.ErrDuplicateReference) {
			winner, lookupErr := s.orderRepo.GetByReference(ctx, reference)
			if lookupErr != nil {
				log.Error("failed lookup after reference race", zap.Error(lookupErr))
				return nil, lookupErr
			}
			if winner != nil {
				log.Info("reference race lost, returning existing order",
					zap.String("order_number", winner.OrderNumber),
				)
				return winner, nil
			}
			return nil, err
		}

		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log = log.With(zap.String("order_number", o.OrderNumber))
	log.Info("order created")

	// 6. Best effort: drop the persisted cart so the next session starts clean
	if err := s.cartRepo.Clear(ctx, meta.UserID); err != nil {
		log.Warn("failed to clear cart after order", zap.Error(err))
	}

	return o, nil
}
