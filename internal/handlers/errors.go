package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wajeehjabribrahim/manajel-store/internal/dto"
	"github.com/wajeehjabribrahim/manajel-store/internal/service"
	"github.com/wajeehjabribrahim/manajel-store/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var badRequest = []error{
	service.ErrValidation,
	service.ErrEmptyItems,
	service.ErrQuantityInvalid,
	service.ErrPriceInvalid,
	service.ErrOutOfStock,
	service.ErrPriceMismatch,
	service.ErrProfileIncomplete,
	service.ErrInvalidOrderStatus,
	service.ErrOrderNotCancellable,
	service.ErrInvalidPrice,
	service.ErrInvalidDirection,
	service.ErrEmptyReorder,
	service.ErrCategoryInUse,
	storage.ErrEmptyFile,
	storage.ErrNotImage,
	storage.ErrTooLarge,
}

var notFound = []error{
	service.ErrUserNotFound,
	service.ErrProductNotFound,
	service.ErrCategoryNotFound,
	service.ErrOrderNotFound,
	service.ErrMessageNotFound,
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps a service error onto its HTTP status and body.
func writeError(c *gin.Context, log *zap.Logger, op string, err error) {
	var verr *service.ValidationError
	var itemErr *service.ItemError

	switch {
	case errors.As(err, &itemErr):
		log.Warn(op+": invalid order item", zap.Int("index", itemErr.Index), zap.String("product_id", itemErr.ProductID), zap.Error(itemErr.Err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError(itemErr.Err.Error(), []dto.FieldError{
			{Field: fmt.Sprintf("items[%d]", itemErr.Index), Message: itemErr.Err.Error()},
		}))
	case errors.As(err, &verr):
		log.Warn(op+": validation failed", zap.Error(err))
		fields := make([]dto.FieldError, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, dto.FieldError{Field: f.Field, Message: f.Message})
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationError(verr.Message, fields))
	case isAny(err, badRequest):
		log.Warn(op+": rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewValidationError(err.Error(), nil))
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, service.ErrTokenRevoked):
		log.Warn(op+": unauthorized", zap.Error(err))
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError(dto.MsgLoginRequired))
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Warn(op+": bad credentials")
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("البريد الإلكتروني أو كلمة المرور غير صحيحة"))
	case errors.Is(err, service.ErrForbidden):
		log.Warn(op+": forbidden", zap.Error(err))
		c.JSON(http.StatusForbidden, dto.NewForbiddenError("حق الوصول مرفوض"))
	case isAny(err, notFound):
		log.Warn(op+": not found", zap.Error(err))
		c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
	case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrCategoryExists):
		log.Warn(op+": conflict", zap.Error(err))
		c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))
	case errors.Is(err, service.ErrTooManyRequests):
		log.Warn(op+": rate limited", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusTooManyRequests, dto.NewRateLimitedError("الرجاء المحاولة لاحقاً"))
	default:
		log.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
	}
}

// writeBindError reports a malformed or invalid request body.
func writeBindError(c *gin.Context, log *zap.Logger, op string, err error) {
	log.Warn(op+": invalid request body", zap.Error(err))
	var fields []dto.FieldError
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields = append(fields, dto.FieldError{Field: fe.Field(), Message: fe.Error(), Tag: fe.Tag()})
		}
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request body", fields))
}
