package handlers

import (
	"errors"
	"net/http"

	"mycluster/domain"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/labstack/echo/v4"
)

// RegisterErrorHandler installs the cluster error handler on e.
func RegisterErrorHandler(e *echo.Echo, logger log.Logger) {
	e.HTTPErrorHandler = NewHTTPErrorHandler(NewErrorCodeToStatusCodeMap(), logger).Handler
}

// NewErrorCodeToStatusCodeMap maps ClusterError codes to HTTP statuses. Codes missing from the map
// become 500.
func NewErrorCodeToStatusCodeMap() map[string]int {
	return map[string]int{
		domain.CodeBadParameter:        http.StatusBadRequest,
		domain.CodeNotRoutable:         http.StatusNotFound,
		domain.CodeInstanceUnreachable: http.StatusNotFound,
		domain.CodeTimeout:             http.StatusGatewayTimeout,
	}
}

// HTTPErrorHandler turns errors returned by admin handlers into an ErrResponse body.
type HTTPErrorHandler struct {
	errorCodeToHTTPStatusCodeMap map[string]int
	logger                       log.Logger
}

// NewHTTPErrorHandler creates a new instance of the HTTPErrorHandler.
func NewHTTPErrorHandler(errorCodeToStatusCodeMap map[string]int, logger log.Logger) *HTTPErrorHandler {
	return &HTTPErrorHandler{
		errorCodeToHTTPStatusCodeMap: errorCodeToStatusCodeMap,
		logger:                       log.With(logger, "component", "http_error_handler"),
	}
}

func (h *HTTPErrorHandler) getStatusCode(errorCode string) int {
	if status, ok := h.errorCodeToHTTPStatusCodeMap[errorCode]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Handler handles errors returned by echo handlers. An *echo.HTTPError keeps its own status; a
// request validation failure wrapped in it is reported as bad_parameter.
func (h *HTTPErrorHandler) Handler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	clusterErr := domain.ToClusterError(err)
	if clusterErr == nil {
		clusterErr = domain.NewUnknownError("an internal server error has occurred", err)
	}

	var statusCode int
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := domain.CodeUnknown
		if he.Internal != nil {
			if inner, ok := he.Internal.(*echo.HTTPError); ok {
				he = inner
			}
			var requestError *openapi3filter.RequestError
			if errors.As(he.Internal, &requestError) {
				code = domain.CodeBadParameter
			}
		}
		if he.Code == http.StatusBadRequest {
			code = domain.CodeBadParameter
		}
		m, _ := he.Message.(string)
		clusterErr = &domain.ClusterError{Code: code, Message: m, Inner: err}
		statusCode = he.Code
	} else {
		statusCode = h.getStatusCode(clusterErr.Code)
	}

	if statusCode >= http.StatusInternalServerError {
		level.Error(h.logger).Log("msg", "HTTP request error", "path", c.Path(), "err", err)
	} else {
		level.Debug(h.logger).Log("msg", "HTTP request rejected", "path", c.Path(), "err", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(statusCode)
		return
	}
	_ = c.JSON(statusCode, ErrResponse{Error: clusterErr})
}

// ErrResponse is the body of every failed admin request.
type ErrResponse struct {
	Error *domain.ClusterError `json:"error,omitempty"`
}
