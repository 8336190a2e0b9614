package api

import (
	"errors"
	"net/http"

	reqdto "conftix/internal/handler/dto/request"
	resdto "conftix/internal/handler/dto/response"
	"conftix/internal/pkg/errs"
	"conftix/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartTokenHeader = "X-Cart-Token"

type CartHandler struct {
	cartService usecase.CartService
}

func NewCartHandler(cartService usecase.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// @Summary Get cart
// @Description Get the cart for the session token; empty cart when absent
// @Tags cart
// @Produce json
// @Param X-Cart-Token header string false "Cart session token"
// @Success 200 {object} resdto.CartResponse
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	token := h.sessionToken(c)

	cart, err := h.cartService.Get(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Header(cartTokenHeader, token)
	c.JSON(http.StatusOK, resdto.FromCart(cart))
}

// @Summary Add cart item
// @Description Add a product to the cart, replacing any existing line for it
// @Tags cart
// @Accept json
// @Produce json
// @Param X-Cart-Token header string false "Cart session token"
// @Param request body reqdto.AddCartItemRequest true "Item to add"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req reqdto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	token := h.sessionToken(c)

	cart, err := h.cartService.AddItem(c.Request.Context(), token, req.ProductID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
		case errors.Is(err, errs.ErrProductUnavailable):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Product not available",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Header(cartTokenHeader, token)
	c.JSON(http.StatusOK, resdto.FromCart(cart))
}

// @Summary Remove cart item
// @Description Remove a product line from the cart; no-op when absent
// @Tags cart
// @Produce json
// @Param X-Cart-Token header string false "Cart session token"
// @Param product_id path string true "Product ID"
// @Success 200 {object} resdto.CartResponse
// @Failure 400 {object} map[string]string
// @Router /cart/items/{product_id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid product ID format",
		})
		return
	}

	token := h.sessionToken(c)

	cart, err := h.cartService.RemoveItem(c.Request.Context(), token, productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Header(cartTokenHeader, token)
	c.JSON(http.StatusOK, resdto.FromCart(cart))
}

// @Summary Clear cart
// @Description Drop the whole cart for the session token
// @Tags cart
// @Param X-Cart-Token header string false "Cart session token"
// @Success 204 "No Content"
// @Router /cart [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	token := h.sessionToken(c)

	if err := h.cartService.Clear(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CartHandler) sessionToken(c *gin.Context) string {
	if token := c.GetHeader(cartTokenHeader); token != "" {
		return token
	}
	return h.cartService.NewToken()
}
