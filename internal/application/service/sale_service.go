package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/domain/cashout"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/logger"
	"github.com/sangkips/ventapett-pos/pkg/metrics"
	"github.com/sangkips/ventapett-pos/pkg/money"
	"github.com/sangkips/ventapett-pos/pkg/utils"
)

// SaleService turns a cart into an upstream sale and keeps the resulting
// receipt until the cashier acknowledges it.
type SaleService struct {
	sales   repository.SalesGateway
	carts   *CartRegistry
	catalog *CatalogService
	taxRate decimal.Decimal
	header  entity.ReceiptHeader
	metrics *metrics.Metrics
	log     *logrus.Logger
	now     func() time.Time

	mu       sync.Mutex
	pending  map[string]*entity.Receipt
	inFlight map[string]bool
}

// NewSaleService creates a new sale service. catalog may be nil.
func NewSaleService(
	sales repository.SalesGateway,
	carts *CartRegistry,
	catalog *CatalogService,
	taxRate decimal.Decimal,
	header entity.ReceiptHeader,
	m *metrics.Metrics,
	log *logrus.Logger,
) *SaleService {
	return &SaleService{
		sales:    sales,
		carts:    carts,
		catalog:  catalog,
		taxRate:  taxRate,
		header:   header,
		metrics:  m,
		log:      log,
		now:      time.Now,
		pending:  make(map[string]*entity.Receipt),
		inFlight: make(map[string]bool),
	}
}

// CheckoutInput represents the checkout input
type CheckoutInput struct {
	PaymentMethod  enum.PaymentMethod
	AmountTendered int64
	// SellerID credits the sale to another seller; admins only.
	SellerID string
}

// Checkout submits the user's cart. Validation happens before any upstream
// call. On failure the cart is left as it was so the cashier can retry.
func (s *SaleService) Checkout(ctx context.Context, p entity.Principal, input *CheckoutInput) (*entity.Receipt, error) {
	cart := s.carts.For(p.UserID)
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, apperror.NewFieldError("items", "The cart is empty")
	}

	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}

	tendered := input.AmountTendered
	if input.PaymentMethod.IsCash() {
		if tendered < total {
			return nil, apperror.NewFieldError("amount_tendered",
				"Amount received ("+money.FormatCurrency(tendered)+") is less than the total ("+money.FormatCurrency(total)+")")
		}
	} else {
		tendered = total
	}

	sellerID := p.UserID
	if input.SellerID != "" && p.IsAdmin() {
		sellerID = input.SellerID
	}

	if err := s.begin(p.UserID); err != nil {
		return nil, err
	}

	req := entity.SaleRequest{
		Items:          make([]entity.SaleItem, 0, len(lines)),
		PaymentMethod:  input.PaymentMethod,
		AmountTendered: tendered,
		SellerID:       sellerID,
	}
	for _, l := range lines {
		req.Items = append(req.Items, entity.SaleItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	resp, err := s.sales.CreateSale(ctx, req)
	if err != nil {
		s.finish(p.UserID, nil)
		logger.LogError(s.log, "SaleService", "Checkout", "create sale", p.UserID, err)
		return nil, apperror.WithFallback(err, apperror.ErrConnection.Message)
	}

	breakdown := money.DecomposeGrossAmount(total, s.taxRate)
	receipt := &entity.Receipt{
		Header:         s.header,
		Folio:          folioOf(resp),
		IssuedAt:       s.now(),
		Cashier:        p.Name,
		PaymentMethod:  input.PaymentMethod,
		Items:          make([]entity.ReceiptItem, 0, len(lines)),
		Net:            breakdown.Net,
		Tax:            breakdown.Tax,
		Total:          total,
		AmountTendered: tendered,
	}
	if input.PaymentMethod.IsCash() && tendered > total {
		receipt.Change = tendered - total
	}
	for _, l := range lines {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
			Total:     l.Subtotal(),
		})
	}

	s.finish(p.UserID, receipt)
	s.metrics.SaleSubmitted(input.PaymentMethod.String())
	if s.catalog != nil {
		s.catalog.Invalidate()
	}
	s.log.WithFields(logrus.Fields{
		"user_id":        p.UserID,
		"folio":          receipt.Folio,
		"payment_method": input.PaymentMethod.String(),
		"total":          total,
	}).Info("sale submitted")
	return receipt, nil
}

// PendingReceipt returns the receipt waiting for acknowledgement, if any.
func (s *SaleService) PendingReceipt(userID string) (*entity.Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.pending[userID]
	return r, ok
}

// Acknowledge closes the pending receipt and only then takes the sold
// lines out of the cart.
func (s *SaleService) Acknowledge(userID string) error {
	s.mu.Lock()
	receipt, ok := s.pending[userID]
	delete(s.pending, userID)
	s.mu.Unlock()

	if !ok {
		return apperror.NewNotFoundError("Pending receipt")
	}
	sold := make(map[string]int, len(receipt.Items))
	for _, it := range receipt.Items {
		sold[it.ProductID] += it.Quantity
	}
	s.carts.For(userID).Take(sold)
	return nil
}

func (s *SaleService) begin(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[userID]; ok {
		return apperror.NewConflictError("Acknowledge the previous receipt before starting a new sale")
	}
	if s.inFlight[userID] {
		return apperror.NewConflictError("A sale is already being submitted")
	}
	s.inFlight[userID] = true
	return nil
}

func (s *SaleService) finish(userID string, receipt *entity.Receipt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, userID)
	if receipt != nil {
		s.pending[userID] = receipt
	}
}

// folioOf picks the sale reference out of the create response: an explicit
// folio, else the backend id, else the missing-id placeholder.
func folioOf(resp map[string]any) string {
	candidates := []map[string]any{resp}
	if nested, ok := utils.AsMap(resp["venta"]); ok {
		candidates = append(candidates, nested)
	}
	for _, keys := range [][]string{{"folio"}, {"id", "_id"}} {
		for _, rec := range candidates {
			if folio := utils.StringField(rec, keys...); folio != "" {
				return folio
			}
		}
	}
	return cashout.MissingID
}
