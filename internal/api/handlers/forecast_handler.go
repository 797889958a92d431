package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockcast/internal/domain"
	"github.com/andresuchdata/stockcast/internal/forecast"
	"github.com/andresuchdata/stockcast/internal/service"
)

type ForecastHandler struct {
	forecasts *service.ForecastService
	reorders  *service.ReorderService
}

func NewForecastHandler(forecasts *service.ForecastService, reorders *service.ReorderService) *ForecastHandler {
	return &ForecastHandler{forecasts: forecasts, reorders: reorders}
}

// GetTrendForecast handles GET /products/:sku/forecast/trend/:horizon.
// When the model cannot be fitted the response carries an empty forecast
// list: callers must read that as "forecast unavailable", not zero demand.
func (h *ForecastHandler) GetTrendForecast(c *gin.Context) {
	sku := c.Param("sku")
	horizon, ok := parseHorizon(c)
	if !ok {
		return
	}

	product, points, err := h.forecasts.Forecast(c.Request.Context(), sku, horizon, forecast.DefaultParams(forecast.StrategyTrend))
	if errors.Is(err, domain.ErrForecastUnavailable) && product != nil {
		log.Warn().Err(err).Str("sku", sku).Int("horizon", horizon).Msg("trend forecast unavailable")
		c.JSON(http.StatusOK, gin.H{
			"product_details": details(product),
			"forecast":        []domain.ForecastPoint{},
		})
		return
	}
	if err != nil {
		respondError(c, sku, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_details": details(product),
		"forecast":        points,
	})
}

// GetARIMAForecast handles GET /products/:sku/forecast/arima/:horizon with
// an optional arima_order=p,d,q query parameter.
func (h *ForecastHandler) GetARIMAForecast(c *gin.Context) {
	sku := c.Param("sku")
	horizon, ok := parseHorizon(c)
	if !ok {
		return
	}
	order, ok := parseOrder(c)
	if !ok {
		return
	}

	product, points, err := h.forecasts.Forecast(c.Request.Context(), sku, horizon,
		forecast.Params{Strategy: forecast.StrategyARIMA, Order: order})
	if err != nil {
		respondError(c, sku, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_details":  details(product),
		"forecast":         points,
		"arima_order_used": order.Tuple(),
	})
}

// GetTrendBacktest handles GET /products/:sku/backtest/trend/:horizon.
func (h *ForecastHandler) GetTrendBacktest(c *gin.Context) {
	sku := c.Param("sku")
	horizon, ok := parseHorizon(c)
	if !ok {
		return
	}

	product, result, err := h.forecasts.Backtest(c.Request.Context(), sku, horizon, forecast.DefaultParams(forecast.StrategyTrend))
	if err != nil {
		respondError(c, sku, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_details": details(product),
		"metrics":         result.Metrics,
		"forecast":        result.Forecast,
	})
}

// GetARIMABacktest handles GET /products/:sku/backtest/arima/:horizon.
func (h *ForecastHandler) GetARIMABacktest(c *gin.Context) {
	sku := c.Param("sku")
	horizon, ok := parseHorizon(c)
	if !ok {
		return
	}
	order, ok := parseOrder(c)
	if !ok {
		return
	}

	product, result, err := h.forecasts.Backtest(c.Request.Context(), sku, horizon,
		forecast.Params{Strategy: forecast.StrategyARIMA, Order: order})
	if err != nil {
		respondError(c, sku, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_details":  details(product),
		"metrics":          result.Metrics,
		"forecast":         result.Forecast,
		"arima_order_used": order.Tuple(),
	})
}

// UpdateReorderPoint handles POST /products/:sku/reorder_point with an
// optional service_level query parameter.
func (h *ForecastHandler) UpdateReorderPoint(c *gin.Context) {
	sku := c.Param("sku")

	serviceLevel := 0.0
	if raw := c.Query("service_level"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed >= 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "service_level must be a number in (0,1)."})
			return
		}
		serviceLevel = parsed
	}

	product, err := h.reorders.UpdateReorderPoint(c.Request.Context(), sku, serviceLevel)
	if err != nil {
		respondError(c, sku, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sku":           product.SKU,
		"reorder_point": product.ReorderPoint,
	})
}

func details(p *domain.Product) domain.ProductDetails {
	return domain.ProductDetails{Name: p.Name, Description: p.Description}
}

func parseHorizon(c *gin.Context) (int, bool) {
	horizon, err := strconv.Atoi(c.Param("horizon"))
	if err != nil || horizon <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Horizon must be a positive integer."})
		return 0, false
	}
	return horizon, true
}

func parseOrder(c *gin.Context) (forecast.ARIMAOrder, bool) {
	raw := c.Query("arima_order")
	if raw == "" {
		return forecast.DefaultARIMAOrder, true
	}
	order, err := forecast.ParseARIMAOrder(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid arima_order format. Use 'p,d,q' (e.g., '2,1,2')."})
		return forecast.ARIMAOrder{}, false
	}
	return order, true
}

func respondError(c *gin.Context, sku string, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found."})
	case errors.Is(err, domain.ErrEmptyInput):
		c.JSON(http.StatusNotFound, gin.H{"error": "No historical transaction data found for this product."})
	case errors.Is(err, domain.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInsufficientData):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient data for backtesting. Need data for both training and validation periods."})
	case errors.Is(err, domain.ErrForecastUnavailable):
		log.Error().Err(err).Str("sku", sku).Msg("forecasting failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Forecasting failed: " + err.Error()})
	default:
		log.Error().Err(err).Str("sku", sku).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error."})
	}
}
