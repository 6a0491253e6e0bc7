package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/ventapett-pos/pkg/pagination"
)

// HistoryHandler serves the admin sales history
type HistoryHandler struct {
	historyService *service.SalesHistoryService
	exportService  *service.ExportService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *service.SalesHistoryService, exportService *service.ExportService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, exportService: exportService}
}

// List returns a page of sales, newest first
// @Summary Sales history
// @Tags sales
// @Produce json
// @Param date query string false "YYYY-MM-DD"
// @Param seller_id query string false "Seller"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} response.APIResponse
// @Router /sales/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query request.SalesHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.historyService.List(c.Request.Context(),
		service.HistoryFilter{Date: query.Date, SellerID: query.SellerID},
		&pagination.PaginationParams{Page: query.Page, PerPage: query.PerPage},
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sales retrieved successfully", result)
}

// Export downloads the filtered history as a spreadsheet
func (h *HistoryHandler) Export(c *gin.Context) {
	var query request.SalesHistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	txs, err := h.historyService.All(c.Request.Context(), service.HistoryFilter{Date: query.Date, SellerID: query.SellerID})
	if err != nil {
		response.Error(c, err)
		return
	}

	f, err := h.exportService.SalesWorkbook(txs)
	if err != nil {
		response.Error(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.exportService.Write(&buf, f); err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, h.exportService.Filename("ventas", query.Date), service.XLSXContentType, buf.Bytes())
}

// Update edits how a sale was settled
func (h *HistoryHandler) Update(c *gin.Context) {
	var req request.UpdateSaleRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.historyService.UpdateSale(c.Request.Context(), c.Param("id"), &service.UpdateSaleInput{
		PaymentMethod:  req.PaymentMethod,
		AmountTendered: req.AmountTendered,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sale updated successfully", nil)
}

// Void cancels a sale upstream
func (h *HistoryHandler) Void(c *gin.Context) {
	if err := h.historyService.VoidSale(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
