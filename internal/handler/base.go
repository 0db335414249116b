package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"

	"github.com/deppfellow/users-service/internal/middleware"
	"github.com/deppfellow/users-service/internal/server"
	"github.com/deppfellow/users-service/internal/validation"
)

// Handler is the base embedded by every concrete handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// --- Generic typed handler plumbing -----------------------------------------

// HandlerFunc is a typed endpoint receiving a bound, validated request.
// Req is a pointer type so echo can bind into it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint that writes no body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// RequestFactory returns a fresh request value for every call. Defaults
// such as the page size are set here so they survive binding.
type RequestFactory[Req validation.Validatable] func() Req

// ResponseHandler writes a successful result and tags the transaction.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error

	// GetOperation names the response kind in logs.
	GetOperation() string

	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON with a fixed status.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by EnhanceTracing.
}

// NoContentResponseHandler writes an empty body, typically 204.
type NoContentResponseHandler struct {
	status int
}

func (h NoContentResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.NoContent(h.status)
}

func (h NoContentResponseHandler) GetOperation() string {
	return "handler_no_content"
}

func (h NoContentResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by EnhanceTracing.
}

// FileResponseHandler writes raw bytes with a content type. The handler
// result must be a []byte.
type FileResponseHandler struct {
	status      int
	filename    string
	contentType string
	inline      bool
}

func (h FileResponseHandler) Handle(c echo.Context, result interface{}) error {
	data := result.([]byte)

	disposition := "attachment"
	if h.inline {
		disposition = "inline"
	}
	c.Response().Header().Set("Content-Disposition", disposition+"; filename="+h.filename)

	return c.Blob(h.status, h.contentType, data)
}

func (h FileResponseHandler) GetOperation() string {
	return "handler_file"
}

func (h FileResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn != nil {
		txn.AddAttribute("file.name", h.filename)
		txn.AddAttribute("file.content_type", h.contentType)
		if data, ok := result.([]byte); ok {
			txn.AddAttribute("file.size_bytes", len(data))
		}
	}
}

// phaseTrace records the duration and outcome of each pipeline phase on
// the request logger and, when tracing is on, the transaction.
type phaseTrace struct {
	txn    *newrelic.Transaction
	logger zerolog.Logger
	start  time.Time
}

func newPhaseTrace(c echo.Context, responseHandler ResponseHandler) *phaseTrace {
	route := c.Path()

	logCtx := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", route)

	if fileHandler, ok := responseHandler.(FileResponseHandler); ok {
		logCtx = logCtx.Str("filename", fileHandler.filename).Str("content_type", fileHandler.contentType)
	}

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	return &phaseTrace{txn: txn, logger: logCtx.Logger(), start: time.Now()}
}

// done tags phase as finished with err (nil on success) after elapsed.
func (p *phaseTrace) done(phase string, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}

	if p.txn != nil {
		if err != nil {
			p.txn.NoticeError(nrpkgerrors.Wrap(err))
		}
		p.txn.AddAttribute(phase+".status", status)
		p.txn.AddAttribute(phase+".duration_ms", elapsed.Milliseconds())
	}
}

// handleRequest binds and validates req, runs handler and writes the
// result through responseHandler.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	trace := newPhaseTrace(c, responseHandler)
	trace.logger.Debug().Msg("handling request")

	bindStart := time.Now()
	err := validation.BindAndValidate(c, req)
	bindDuration := time.Since(bindStart)
	trace.done("validation", bindDuration, err)

	if err != nil {
		trace.logger.Warn().
			Err(err).
			Dur("validation_duration", bindDuration).
			Msg("request validation failed")
		return err
	}

	runStart := time.Now()
	result, err := handler(c, req)
	runDuration := time.Since(runStart)
	trace.done("handler", runDuration, err)

	total := time.Since(trace.start)
	if trace.txn != nil {
		trace.txn.AddAttribute("total.duration_ms", total.Milliseconds())
	}

	if err != nil {
		trace.logger.Error().
			Err(err).
			Dur("handler_duration", runDuration).
			Dur("total_duration", total).
			Msg("handler execution failed")
		return err
	}

	if trace.txn != nil {
		responseHandler.AddAttributes(trace.txn, result)
	}

	trace.logger.Info().
		Dur("validation_duration", bindDuration).
		Dur("handler_duration", runDuration).
		Dur("total_duration", total).
		Msg("request completed")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler into an echo.HandlerFunc writing JSON with
// status. newReq is called once per request.
//
//	r.POST("/users", handler.Handle(h.Handler, h.CreateUser, http.StatusCreated, handler.NewRequest[model.CreateUserRequest]))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq RequestFactory[Req],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleFile wraps a handler returning raw bytes. inline selects
// Content-Disposition inline instead of attachment.
func HandleFile[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, []byte],
	status int,
	newReq RequestFactory[Req],
	filename string,
	contentType string,
	inline bool,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, FileResponseHandler{
			status:      status,
			filename:    filename,
			contentType: contentType,
			inline:      inline,
		})
	}
}

// HandleNoContent wraps a handler for endpoints that answer without a body.
func HandleNoContent[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	status int,
	newReq RequestFactory[Req],
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return nil, handler(c, req)
		}, NoContentResponseHandler{status: status})
	}
}

// NewRequest is the RequestFactory for request types without defaults.
func NewRequest[T any, PT interface {
	*T
	validation.Validatable
}]() PT {
	return PT(new(T))
}
