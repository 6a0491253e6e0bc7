package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sangkips/ventapett-pos/internal/domain/cashout"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	"github.com/sangkips/ventapett-pos/internal/domain/repository"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
	"github.com/sangkips/ventapett-pos/pkg/pagination"
)

// SalesHistoryService is the admin view over every seller's sales.
type SalesHistoryService struct {
	sales   repository.SalesGateway
	sellers SellerDirectory
	loc     *time.Location
	log     *logrus.Logger
}

// NewSalesHistoryService creates a new sales history service. sellers may be nil.
func NewSalesHistoryService(sales repository.SalesGateway, sellers SellerDirectory, loc *time.Location, log *logrus.Logger) *SalesHistoryService {
	if loc == nil {
		loc = time.Local
	}
	return &SalesHistoryService{sales: sales, sellers: sellers, loc: loc, log: log}
}

// HistoryFilter narrows the history. Empty fields do not filter.
type HistoryFilter struct {
	Date     string
	SellerID string
}

// List returns one page of sales, newest first.
func (s *SalesHistoryService) List(ctx context.Context, filter HistoryFilter, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.NormalizedTransaction], error) {
	txs, err := s.All(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pagination.Paginate(txs, params), nil
}

// All returns every matching sale, newest first. The upstream is asked to
// filter too, but the local filter is what the result relies on.
func (s *SalesHistoryService) All(ctx context.Context, filter HistoryFilter) ([]entity.NormalizedTransaction, error) {
	filter.Date = strings.TrimSpace(filter.Date)
	filter.SellerID = strings.TrimSpace(filter.SellerID)
	if filter.Date != "" && !cashout.ValidDate(filter.Date) {
		return nil, apperror.NewFieldError("date", "Date must be in YYYY-MM-DD format")
	}

	raws, err := s.sales.AdminHistory(ctx, entity.HistoryQuery{Date: filter.Date, SellerID: filter.SellerID})
	if err != nil {
		return nil, apperror.WithFallback(err, "Could not load the sales history")
	}

	scope := entity.CashoutFilter{Date: filter.Date, SellerID: filter.SellerID}
	if filter.SellerID != "" && s.sellers != nil {
		seller, err := s.sellers.FindStaff(ctx, filter.SellerID)
		if err != nil {
			s.log.WithError(err).WithField("seller_id", filter.SellerID).Warn("seller lookup failed, matching by id only")
		} else if seller != nil {
			scope.SellerName = seller.Name
		}
	}

	txs := cashout.Apply(cashout.NormalizeAll(raws, s.loc), scope, s.loc)
	cashout.SortNewestFirst(txs)
	return txs, nil
}

// UpdateSaleInput represents the edit sale input
type UpdateSaleInput struct {
	PaymentMethod  string
	AmountTendered int64
}

// UpdateSale changes how a sale was settled.
func (s *SalesHistoryService) UpdateSale(ctx context.Context, id string, input *UpdateSaleInput) error {
	var fields []apperror.FieldError
	method, ok := enum.ParsePaymentMethod(input.PaymentMethod)
	if !ok {
		fields = append(fields, apperror.FieldError{Field: "payment_method", Message: "Unknown payment method"})
	}
	if input.AmountTendered <= 0 {
		fields = append(fields, apperror.FieldError{Field: "amount_tendered", Message: "Amount must be greater than zero"})
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(fields)
	}

	if err := s.sales.UpdateSale(ctx, id, entity.SalePatch{PaymentMethod: method, AmountTendered: input.AmountTendered}); err != nil {
		return apperror.WithFallback(err, "Could not update the sale")
	}
	s.log.WithFields(logrus.Fields{"sale_id": id, "payment_method": method.String()}).Info("sale updated")
	return nil
}

// VoidSale cancels a sale upstream.
func (s *SalesHistoryService) VoidSale(ctx context.Context, id string) error {
	if err := s.sales.VoidSale(ctx, id); err != nil {
		return apperror.WithFallback(err, "Could not void the sale")
	}
	s.log.WithField("sale_id", id).Info("sale voided")
	return nil
}
