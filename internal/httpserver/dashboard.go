package httpserver

import (
	"net/http"

	"scraper-dashboard/internal/catalog"
	"scraper-dashboard/internal/columns"
	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/report"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	recentLimit  = 10
	emptyWarning = "No products found in database."
)

type overviewResponse struct {
	Metrics       report.Metrics            `json:"metrics"`
	ByMarketplace []report.MarketplaceCount `json:"byMarketplace"`
	Stock         []report.StatusCount      `json:"stock"`
	Recent        []map[string]any          `json:"recent"`
	RecentColumns []columns.Column          `json:"recentColumns"`
	Warning       string                    `json:"warning,omitempty"`
	Info          string                    `json:"info,omitempty"`
}

type productsResponse struct {
	Total        int              `json:"total"`
	Showing      int              `json:"showing"`
	Marketplaces []string         `json:"marketplaces"`
	Columns      []columns.Column `json:"columns"`
	Products     []map[string]any `json:"products"`
	Warning      string           `json:"warning,omitempty"`
}

type analyticsResponse struct {
	report.Analytics
	Warning string `json:"warning,omitempty"`
}

// load fetches the whole table for this request; nothing is cached between requests.
func (h *handlers) load(c *gin.Context) (domain.Collection, bool) {
	col, err := h.deps.Products.FetchAll(c.Request.Context(), h.deps.ProductsTable)
	if err != nil {
		h.logger.Error("http: load products", zap.String("table", h.deps.ProductsTable), zap.Error(err))
		writeError(c, http.StatusBadGateway, "Error loading data: "+err.Error(),
			"Please check your store connection and ensure the products table exists.")
		return domain.Collection{}, false
	}
	return col, true
}

func (h *handlers) overview(c *gin.Context) {
	col, ok := h.load(c)
	if !ok {
		return
	}
	if col.Len() == 0 {
		c.JSON(http.StatusOK, overviewResponse{
			ByMarketplace: []report.MarketplaceCount{},
			Stock:         []report.StatusCount{},
			Recent:        []map[string]any{},
			RecentColumns: []columns.Column{},
			Warning:       emptyWarning,
		})
		return
	}

	ov := report.BuildOverview(col, recentLimit)
	recentCols := columns.Present(h.deps.Columns.Recent, col.Columns())
	resp := overviewResponse{
		Metrics:       ov.Metrics,
		ByMarketplace: ov.ByMarketplace,
		Stock:         ov.Stock,
		Recent:        columns.ProjectAll(domain.NewCollection(ov.Recent), recentCols),
		RecentColumns: recentCols,
	}
	if resp.Stock == nil {
		resp.Stock = []report.StatusCount{}
	}
	if !col.HasColumn(domain.ColumnScrapedAt) {
		resp.Info = "No timestamp information available."
	}
	c.JSON(http.StatusOK, resp)
}

func criteriaFromQuery(c *gin.Context) catalog.Criteria {
	return catalog.Criteria{
		Marketplace: c.DefaultQuery("marketplace", catalog.AllMarketplaces),
		Stock:       catalog.ParseStockFilter(c.Query("stock")),
		Search:      c.Query("q"),
	}
}

func (h *handlers) products(c *gin.Context) {
	col, ok := h.load(c)
	if !ok {
		return
	}
	if col.Len() == 0 {
		c.JSON(http.StatusOK, productsResponse{
			Marketplaces: []string{catalog.AllMarketplaces},
			Columns:      []columns.Column{},
			Products:     []map[string]any{},
			Warning:      emptyWarning,
		})
		return
	}

	filtered := catalog.Apply(col, criteriaFromQuery(c))
	cols := columns.Present(h.deps.Columns.Products, col.Columns())
	c.JSON(http.StatusOK, productsResponse{
		Total:        col.Len(),
		Showing:      filtered.Len(),
		Marketplaces: append([]string{catalog.AllMarketplaces}, catalog.Marketplaces(col)...),
		Columns:      cols,
		Products:     columns.ProjectAll(filtered, cols),
	})
}

// exportProducts streams the filtered rows with every column, not just the displayed ones.
func (h *handlers) exportProducts(c *gin.Context) {
	col, ok := h.load(c)
	if !ok {
		return
	}
	filtered := catalog.Apply(col, criteriaFromQuery(c))

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Status(http.StatusOK)
	if err := catalog.WriteCSV(c.Writer, filtered); err != nil {
		h.logger.Error("http: write csv", zap.Error(err))
	}
}

func (h *handlers) analytics(c *gin.Context) {
	col, ok := h.load(c)
	if !ok {
		return
	}
	resp := analyticsResponse{Analytics: report.BuildAnalytics(col, report.DefaultHistogramBins)}
	if col.Len() == 0 {
		resp.Warning = emptyWarning
	}
	c.JSON(http.StatusOK, resp)
}
