package handlers

import (
	"net/http"

	"discts/services/inventory"
	"discts/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InventoryHandler serves the product endpoints.
type InventoryHandler struct {
	Service inventory.InventoryService
}

func NewInventoryHandler(svc inventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{Service: svc}
}

// AddItemHandler handles POST /discts/inventory/add.
func (h *InventoryHandler) AddItemHandler(c *gin.Context) {
	body, err := bindLoose(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	in, err := productInputFrom(body)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	id, err := h.Service.AddProduct(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Item added", zap.String("productId", id))
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Item added successfully", "productId": id})
}

// GetItemsHandler handles GET /discts/inventory/items.
func (h *InventoryHandler) GetItemsHandler(c *gin.Context) {
	items, err := h.Service.ListAllProducts(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// GetItemHandler handles GET /discts/inventory/items/:id.
func (h *InventoryHandler) GetItemHandler(c *gin.Context) {
	item, err := h.Service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
}

// ExpiringSoonHandler handles GET /discts/inventory/expiring-soon.
func (h *InventoryHandler) ExpiringSoonHandler(c *gin.Context) {
	items, err := h.Service.ListExpiringSoon(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "items": items})
}

// UpdateStockHandler handles PUT /discts/inventory/update-stock/:id.
// It expects {"stock": n}.
func (h *InventoryHandler) UpdateStockHandler(c *gin.Context) {
	body, err := bindLoose(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	stock, err := looseInt(body, "stock")
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if stock == nil {
		utils.RespondError(c, utils.ValidationError("Stock value is required"))
		return
	}
	if err := h.Service.UpdateStock(c.Request.Context(), c.Param("id"), *stock); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Stock updated successfully"})
}

// UpdateItemHandler handles PUT /discts/inventory/update/:id.
func (h *InventoryHandler) UpdateItemHandler(c *gin.Context) {
	body, err := bindLoose(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	upd, err := productUpdateFrom(body)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if err := h.Service.UpdateProduct(c.Request.Context(), c.Param("id"), upd); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item updated successfully"})
}

// DeleteItemHandler handles DELETE /discts/inventory/delete-item/:id.
func (h *InventoryHandler) DeleteItemHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.DeleteProduct(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("Item deleted", zap.String("productId", id))
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Item deleted successfully"})
}
