package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"talentlink/logger"
	midsec "talentlink/middleware/security"
	errs "talentlink/tools/errs"
)

// 配置选项
type RouteOpt struct {
	IsAuth bool
}

// HandlerE is a gin handler that reports failure as an error; Wrap maps the
// error taxonomy onto HTTP statuses in one place.
type HandlerE func(c *gin.Context) error

func httpStatus(code int) int {
	switch code {
	case errs.ArgsError:
		return http.StatusBadRequest
	case errs.RecordNotFoundError:
		return http.StatusNotFound
	case errs.NoPermissionError:
		return http.StatusForbidden
	case errs.ConflictError:
		return http.StatusConflict
	case errs.StoreTransientError:
		return http.StatusServiceUnavailable
	case errs.TokenInvalidError, errs.TokenExpiredError:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func Wrap(h HandlerE) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h(c)
		if err == nil {
			return
		}
		code := errs.CodeOf(err)
		var body errs.CodeError
		var codeErr *errs.CodeError
		if ce, ok := errs.Unwrap(err).(*errs.CodeError); ok {
			codeErr = ce
		}
		if codeErr != nil {
			body = *codeErr
		} else {
			body = errs.ErrInternalServer
			logger.Error("handler failed", zap.String("path", c.FullPath()), zap.Error(err))
		}
		c.JSON(httpStatus(code), body)
	}
}

// 封装 POST
func POST(r gin.IRoutes, path string, handler HandlerE, auth *midsec.Options, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(auth), Wrap(handler))
	} else {
		r.POST(path, Wrap(handler))
	}
}

// 封装 GET
func GET(r gin.IRoutes, path string, handler HandlerE, auth *midsec.Options, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(auth), Wrap(handler))
	} else {
		r.GET(path, Wrap(handler))
	}
}
