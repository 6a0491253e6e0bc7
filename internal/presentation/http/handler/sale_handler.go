package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/domain/enum"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/ventapett-pos/pkg/apperror"
)

// SaleHandler handles checkout and the receipt that follows it
type SaleHandler struct {
	saleService    *service.SaleService
	printerService *service.PrinterService
}

// NewSaleHandler creates a new sale handler. printerService may be nil.
func NewSaleHandler(saleService *service.SaleService, printerService *service.PrinterService) *SaleHandler {
	return &SaleHandler{saleService: saleService, printerService: printerService}
}

// Checkout submits the cart as a sale
// @Summary Checkout
// @Description Register the cart upstream. Send an Idempotency-Key to make retries safe.
// @Tags sales
// @Accept json
// @Produce json
// @Param request body request.CheckoutRequest true "Payment"
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /sales [post]
func (h *SaleHandler) Checkout(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	method, known := enum.ParsePaymentMethod(req.PaymentMethod)
	if !known {
		response.Error(c, apperror.NewFieldError("payment_method", "Unknown payment method"))
		return
	}

	receipt, err := h.saleService.Checkout(c.Request.Context(), p, &service.CheckoutInput{
		PaymentMethod:  method,
		AmountTendered: req.AmountTendered,
		SellerID:       req.SellerID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale registered successfully", receipt)
}

// PendingReceipt returns the receipt waiting to be acknowledged
func (h *SaleHandler) PendingReceipt(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	receipt, found := h.saleService.PendingReceipt(p.UserID)
	if !found {
		response.Error(c, apperror.NewNotFoundError("Pending receipt"))
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}

// AcknowledgeReceipt closes the receipt and clears the cart for the next sale
func (h *SaleHandler) AcknowledgeReceipt(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.saleService.Acknowledge(p.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// PrintReceipt sends the pending receipt to the thermal printer. A printer
// failure is reported as a warning; the sale itself is already registered.
func (h *SaleHandler) PrintReceipt(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	receipt, found := h.saleService.PendingReceipt(p.UserID)
	if !found {
		response.Error(c, apperror.NewNotFoundError("Pending receipt"))
		return
	}
	if h.printerService == nil {
		response.OK(c, "Printer is not configured", gin.H{"receipt": receipt, "printed": false})
		return
	}

	if err := h.printerService.PrintReceipt(receipt); err != nil {
		response.OK(c, "Receipt generated but printing failed", gin.H{
			"receipt": receipt,
			"printed": false,
			"warning": err.Error(),
		})
		return
	}
	response.OK(c, "Receipt printed successfully", gin.H{"receipt": receipt, "printed": true})
}
