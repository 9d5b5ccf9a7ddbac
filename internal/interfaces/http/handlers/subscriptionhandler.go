package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vendo-inc/vendo/internal/application/subscription/usecases"
	"github.com/vendo-inc/vendo/internal/shared/id"
	"github.com/vendo-inc/vendo/internal/shared/logger"
	"github.com/vendo-inc/vendo/internal/shared/utils"
)

// SubscriptionHandler handles subscription checkout and lifecycle operations
type SubscriptionHandler struct {
	initiateUseCase checkoutInitiator
	confirmUseCase  subscriptionConfirmer
	getUseCase      subscriptionGetter
	listUseCase     subscriptionLister
	suspendUseCase  subscriptionSuspender
	cancelUseCase   subscriptionCanceller
	logger          logger.Interface
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(
	initiateUC checkoutInitiator,
	confirmUC subscriptionConfirmer,
	getUC subscriptionGetter,
	listUC subscriptionLister,
	suspendUC subscriptionSuspender,
	cancelUC subscriptionCanceller,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		initiateUseCase: initiateUC,
		confirmUseCase:  confirmUC,
		getUseCase:      getUC,
		listUseCase:     listUC,
		suspendUseCase:  suspendUC,
		cancelUseCase:   cancelUC,
		logger:          logger,
	}
}

// InitiateCheckoutRequest represents the request to start a subscription checkout
type InitiateCheckoutRequest struct {
	CustomerID  uint            `json:"customer_id" binding:"required"`
	ProductID   string          `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Currency    string          `json:"currency" binding:"required" validate:"currency_code"`
	AutoRenew   *bool           `json:"auto_renew"`
	SuccessURL  string          `json:"success_url" binding:"required,url"`
	CancelURL   string          `json:"cancel_url" binding:"required,url"`
}

// Validate applies the validation rules gin's binding does not cover.
func (req *InitiateCheckoutRequest) Validate() error {
	return utils.ValidateStruct(req)
}

// ConfirmSubscriptionRequest carries the optional checkout session reference
type ConfirmSubscriptionRequest struct {
	SessionID string `json:"session_id"`
}

// ConfirmBySessionRequest confirms a subscription by checkout session alone
type ConfirmBySessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// CancelSubscriptionRequest carries the cancellation reason
type CancelSubscriptionRequest struct {
	Reason string `json:"reason"`
}

func (h *SubscriptionHandler) InitiateCheckout(c *gin.Context) {
	var req InitiateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for initiate checkout", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	cmd := usecases.InitiateCheckoutCommand{
		CustomerID:  req.CustomerID,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Price:       req.Price,
		Currency:    req.Currency,
		AutoRenew:   autoRenew,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	}

	result, err := h.initiateUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to initiate checkout", "error", err, "customer_id", req.CustomerID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"subscription": result.Subscription,
		"checkout_url": result.CheckoutURL,
	}, "Checkout initiated successfully")
}

func (h *SubscriptionHandler) ConfirmSubscription(c *gin.Context) {
	sid := c.Param("id")
	if err := id.ValidatePrefix(sid, id.PrefixSubscription); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription ID format, expected sub_xxxxx")
		return
	}

	var req ConfirmSubscriptionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid request body for confirm subscription", "error", err)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	result, err := h.confirmUseCase.ExecuteBySID(c.Request.Context(), sid, req.SessionID)
	if err != nil {
		h.logger.Errorw("failed to confirm subscription", "error", err, "subscription_id", sid)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription confirmed", result)
}

func (h *SubscriptionHandler) ConfirmBySession(c *gin.Context) {
	var req ConfirmBySessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for confirm by session", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.confirmUseCase.ExecuteBySessionID(c.Request.Context(), req.SessionID)
	if err != nil {
		h.logger.Errorw("failed to confirm subscription by session", "error", err, "session_id", req.SessionID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription confirmed", result)
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sid := c.Param("id")
	if err := id.ValidatePrefix(sid, id.PrefixSubscription); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription ID format, expected sub_xxxxx")
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), sid)
	if err != nil {
		h.logger.Errorw("failed to get subscription", "error", err, "subscription_id", sid)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	customerIDStr := c.Query("customer_id")
	customerID, err := strconv.ParseUint(customerIDStr, 10, 32)
	if err != nil || customerID == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "customer_id query parameter is required")
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), uint(customerID))
	if err != nil {
		h.logger.Errorw("failed to list subscriptions", "error", err, "customer_id", customerID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result, int64(len(result)))
}

func (h *SubscriptionHandler) SuspendSubscription(c *gin.Context) {
	sid := c.Param("id")
	if err := id.ValidatePrefix(sid, id.PrefixSubscription); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription ID format, expected sub_xxxxx")
		return
	}

	result, err := h.suspendUseCase.Execute(c.Request.Context(), sid)
	if err != nil {
		h.logger.Errorw("failed to suspend subscription", "error", err, "subscription_id", sid)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription suspended", result)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	sid := c.Param("id")
	if err := id.ValidatePrefix(sid, id.PrefixSubscription); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription ID format, expected sub_xxxxx")
		return
	}

	var req CancelSubscriptionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid request body for cancel subscription", "error", err)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		h.logger.Errorw("failed to cancel subscription", "error", err, "subscription_id", sid)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", result)
}
