package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/ventapett-pos/internal/application/service"
	"github.com/sangkips/ventapett-pos/internal/domain/entity"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/ventapett-pos/internal/presentation/http/dto/response"
)

// CashoutHandler drives the end of day cashout view
type CashoutHandler struct {
	cashoutService *service.CashoutService
	exportService  *service.ExportService
	printerService *service.PrinterService
}

// NewCashoutHandler creates a new cashout handler. printerService may be nil.
func NewCashoutHandler(
	cashoutService *service.CashoutService,
	exportService *service.ExportService,
	printerService *service.PrinterService,
) *CashoutHandler {
	return &CashoutHandler{
		cashoutService: cashoutService,
		exportService:  exportService,
		printerService: printerService,
	}
}

func (h *CashoutHandler) filter(c *gin.Context) (entity.CashoutFilter, bool) {
	var req request.CashoutFilterRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return entity.CashoutFilter{}, false
	}

	filter := entity.CashoutFilter{SellerID: req.SellerID, Date: h.cashoutService.Today()}
	if req.Date != nil {
		filter.Date = *req.Date
	}
	return filter, true
}

// Open starts the cashout and fetches the day's sales
// @Summary Open cashout
// @Tags cashout
// @Accept json
// @Produce json
// @Param request body request.CashoutFilterRequest false "Initial filter"
// @Success 200 {object} response.APIResponse
// @Router /cashout/open [post]
func (h *CashoutHandler) Open(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	report, err := h.cashoutService.Open(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cashout opened", report)
}

// SetFilter changes the date or seller of the open cashout
func (h *CashoutHandler) SetFilter(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	report, err := h.cashoutService.SetFilter(c.Request.Context(), p, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cashout filter applied", report)
}

// Refresh fetches the sales again
func (h *CashoutHandler) Refresh(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	report, err := h.cashoutService.Refresh(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cashout refreshed", report)
}

// Report returns the cashout as it stands
func (h *CashoutHandler) Report(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	report, err := h.cashoutService.Report(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cashout retrieved successfully", report)
}

// SetCount records the count for one denomination
func (h *CashoutHandler) SetCount(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req request.SetCountRequest
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.cashoutService.SetCount(c.Request.Context(), p, req.Denomination, req.Count)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Count updated", report)
}

// ResetCounts zeroes the drawer count
func (h *CashoutHandler) ResetCounts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	report, err := h.cashoutService.ResetCounts(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Counts reset", report)
}

// Save closes the daily box upstream
// @Summary Save cashout
// @Tags cashout
// @Produce json
// @Success 201 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /cashout/save [post]
func (h *CashoutHandler) Save(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.cashoutService.Save(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Cashout saved successfully", result)
}

// Close discards the open cashout. The drawer count is kept.
func (h *CashoutHandler) Close(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	h.cashoutService.Close(p)
	response.NoContent(c)
}

// Export downloads the cashout as a spreadsheet
func (h *CashoutHandler) Export(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	report, err := h.cashoutService.Report(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	f, err := h.exportService.CashoutWorkbook(report)
	if err != nil {
		response.Error(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.exportService.Write(&buf, f); err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, h.exportService.Filename("cuadratura", report.Filter.Date), service.XLSXContentType, buf.Bytes())
}

// Print sends the cashout slip to the thermal printer
func (h *CashoutHandler) Print(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	report, err := h.cashoutService.Report(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.printerService == nil {
		response.OK(c, "Printer is not configured", gin.H{"printed": false})
		return
	}

	if err := h.printerService.PrintCashout(report); err != nil {
		response.OK(c, "Printing failed", gin.H{"printed": false, "warning": err.Error()})
		return
	}
	response.OK(c, "Cashout printed successfully", gin.H{"printed": true})
}
