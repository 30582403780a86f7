package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/wajeehjabribrahim/manajel-store/internal/models"
	"github.com/wajeehjabribrahim/manajel-store/internal/report"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"go.uber.org/zap"
)

type OrderExporter interface {
	Export(ctx context.Context) ([]models.Order, error)
}

type ExportHandler struct {
	orders   OrderExporter
	products ProductService
	log      *zap.Logger
	now      func() time.Time
}

func NewExportHandler(orders OrderExporter, products ProductService, log *zap.Logger) *ExportHandler {
	return &ExportHandler{orders: orders, products: products, log: log, now: time.Now}
}

func (h *ExportHandler) send(c *gin.Context, name string, file *xlsx.File) {
	filename := fmt.Sprintf("%s-%s.xlsx", name, h.now().UTC().Format("20060102"))
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", report.ContentType)
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Expires", "0")
	if err := file.Write(c.Writer); err != nil {
		h.log.Error("write xlsx", zap.String("file", filename), zap.Error(err))
	}
}

// Orders godoc
// @Summary Download all orders as xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/admin/orders/export [get]
func (h *ExportHandler) Orders(c *gin.Context) {
	orders, err := h.orders.Export(c.Request.Context())
	if err != nil {
		writeError(c, h.log, "export orders", err)
		return
	}
	file, err := report.Orders(orders)
	if err != nil {
		writeError(c, h.log, "export orders", err)
		return
	}
	h.send(c, "orders", file)
}

// Products godoc
// @Summary Download the catalog as xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/admin/products/export [get]
func (h *ExportHandler) Products(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), service.ProductQuery{})
	if err != nil {
		writeError(c, h.log, "export products", err)
		return
	}
	file, err := report.Products(products)
	if err != nil {
		writeError(c, h.log, "export products", err)
		return
	}
	h.send(c, "products", file)
}
