package httpgin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	redisrepo "github.com/kirinyoku/courtgo/internal/repository/redis"
	"github.com/kirinyoku/courtgo/internal/service"
	"github.com/kirinyoku/courtgo/internal/service/auth"
	"github.com/kirinyoku/courtgo/internal/service/catalog"
	"github.com/kirinyoku/courtgo/internal/service/payments"
	"github.com/kirinyoku/courtgo/internal/service/sessions"
	"github.com/kirinyoku/courtgo/internal/stream"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// ReadyFunc reports whether backing services are reachable.
type ReadyFunc func(ctx context.Context) error

func NewRouter(
	svcs *service.Services,
	hub *stream.Hub,
	idem *redisrepo.IdempotencyStore,
	ready ReadyFunc,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", handleReady(ready))

	if hub != nil {
		r.GET("/ws/open-sessions", func(c *gin.Context) {
			hub.Serve(c.Writer, c.Request)
		})
	}

	api := r.Group("/", IdentityMiddleware(svcs.Auth))

	api.GET("/courts", handleListCourts(svcs))
	api.GET("/courts/:id", handleGetCourt(svcs))
	api.GET("/courts/:id/quote", handleQuote(svcs))

	// /open-games is the legacy name of the same resource.
	for _, prefix := range []string{"/open-sessions", "/open-games"} {
		g := api.Group(prefix)
		g.GET("", handleListSessions(svcs))
		g.GET("/:id", handleGetSession(svcs))
		g.POST("", handleCreateSession(svcs, idem))
		g.POST("/join", handleJoinSession(svcs))
	}

	api.POST("/payments/:resource", handleCreatePaymentIntent(svcs))
	api.PUT("/payments/:resource", handleConfirmPayment(svcs))

	api.GET("/auth/session", handleAuthSession(svcs))
	api.GET("/auth/game", handleAuthSession(svcs))

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  List courts
// @Success  200  {array}  domain.Court
// @Router   /courts [get]
func handleListCourts(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		courts, err := svcs.Catalog.ListCourts(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, courts, "public, max-age=60", true)
	}
}

// @Summary  Get court
// @Param    id  path  string  true  "Court ID"
// @Success  200  {object}  domain.Court
// @Failure  404  {object}  ErrorResponse
// @Router   /courts/{id} [get]
func handleGetCourt(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		court, err := svcs.Catalog.GetCourt(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, court, "public, max-age=60", true)
	}
}

// @Summary  Price a booking
// @Param    id         path   string  true  "Court ID"
// @Param    startTime  query  string  true  "RFC3339"
// @Param    endTime    query  string  true  "RFC3339"
// @Success  200  {object}  domain.Quote
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /courts/{id}/quote [get]
func handleQuote(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		start, err := parseRFC3339(c.Query("startTime"))
		if err != nil {
			badRequest(c, "invalid startTime (RFC3339)")
			return
		}
		end, err := parseRFC3339(c.Query("endTime"))
		if err != nil {
			badRequest(c, "invalid endTime (RFC3339)")
			return
		}
		q, err := svcs.Catalog.Quote(c.Request.Context(), c.Param("id"), start, end)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	}
}

// @Summary  List open sessions
// @Success  200  {array}  SessionResponse
// @Router   /open-sessions [get]
func handleListSessions(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Sessions.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, newSessionResponses(list), "no-cache", true)
	}
}

// @Summary  Get open session
// @Param    id  path  string  true  "Session ID"
// @Success  200  {object}  SessionResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /open-sessions/{id} [get]
func handleGetSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := svcs.Sessions.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, newSessionResponse(*sess), "no-cache", true)
	}
}

// @Summary  Create open session (idempotent)
// @Param    req body  CreateSessionRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} SessionResponse
// @Failure  400 {object} ErrorResponse
// @Failure  401 {object} ErrorResponse "unknown caller"
// @Failure  409 {object} ErrorResponse "idem in progress"
// @Router   /open-sessions [post]
func handleCreateSession(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		caller := callerID(c)

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = idem.CreateSessionKey(caller, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				replay(c, idemKey, payload)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					replay(c, idemKey, payload)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		sess, err := svcs.Sessions.Create(c.Request.Context(), caller, sessions.CreateInput{
			CourtID:     req.CourtID,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			MaxPlayers:  req.MaxPlayers,
			Description: req.Description,
			TotalCost:   req.TotalCost,
		})
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := newSessionResponse(*sess)

		if idemStorageKey != "" {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  Join open session
// @Param    req body  JoinSessionRequest true "payload"
// @Success  200 {object} JoinSessionResponse
// @Failure  400 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /open-sessions/join [post]
func handleJoinSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req JoinSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if strings.TrimSpace(req.SessionID) == "" {
			badRequest(c, "Session ID is required")
			return
		}

		rlKey := "ip:" + c.ClientIP()

		pid, _, err := svcs.Sessions.Join(
			c.Request.Context(),
			callerID(c),
			req.SessionID,
			rlKey,
		)
		if err != nil {
			respondLifecycleErr(c, err)
			return
		}

		c.JSON(http.StatusOK, JoinSessionResponse{ParticipantID: pid})
	}
}

// @Summary  Create payment intent (mock)
// @Param    resource  path  string          true  "Paid resource, e.g. open-game"
// @Param    req       body  PaymentRequest  true  "payload"
// @Success  200 {object} domain.PaymentIntent
// @Failure  400 {object} ErrorResponse
// @Router   /payments/{resource} [post]
func handleCreatePaymentIntent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		intent, err := svcs.Payments.CreateIntent(c.Request.Context(), req.ParticipantID)
		if err != nil {
			respondLifecycleErr(c, err)
			return
		}

		c.JSON(http.StatusOK, intent)
	}
}

// @Summary  Confirm payment (mock)
// @Param    resource  path  string          true  "Paid resource, e.g. open-game"
// @Param    req       body  PaymentRequest  true  "payload"
// @Success  200 {object} ConfirmPaymentResponse
// @Failure  400 {object} ErrorResponse
// @Router   /payments/{resource} [put]
func handleConfirmPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		p, sess, err := svcs.Payments.Confirm(c.Request.Context(), req.ParticipantID)
		if err != nil {
			respondLifecycleErr(c, err)
			return
		}

		c.JSON(http.StatusOK, ConfirmPaymentResponse{
			Success:     true,
			Participant: *p,
			Session:     newSessionResponse(*sess),
		})
	}
}

// @Summary  Current sign-in session (mock)
// @Success  200 {object} AuthSessionResponse
// @Failure  401 {object} ErrorResponse
// @Router   /auth/session [get]
func handleAuthSession(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svcs.Auth.Session(c.Request.Context(), callerID(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthSessionResponse{Session: *s})
	}
}

func handleReady(ready ReadyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}

// --- Helpers ---

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func replay(c *gin.Context, idemKey, payload string) {
	c.Header("Idempotency-Key", idemKey)
	c.Data(
		http.StatusCreated,
		"application/json; charset=utf-8",
		[]byte(payload),
	)
}

// lifecycleMessages are the client-facing texts for rejected joins and payments.
var lifecycleMessages = []struct {
	err error
	msg string
}{
	{sessions.ErrSessionNotFound, "Session not found"},
	{sessions.ErrSessionFull, "Session is full"},
	{sessions.ErrSessionNotOpen, "Session is not open for joining"},
	{sessions.ErrAlreadyJoined, "You have already joined this session"},
	{sessions.ErrParticipantNotFound, "Participant not found"},
	{payments.ErrParticipantIDRequired, "Participant ID is required"},
}

// respondLifecycleErr answers 400 for business-rule rejections and defers
// everything else to respondErr.
func respondLifecycleErr(c *gin.Context, err error) {
	for _, m := range lifecycleMessages {
		if errors.Is(err, m.err) {
			badRequest(c, m.msg)
			return
		}
	}
	respondErr(c, err)
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var rl sessions.RateLimitedError

	switch {
	// sessions service
	case errors.As(err, &rl):
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(rl.RetryAfter.Seconds()))))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
		return
	case errors.Is(err, sessions.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Session not found"})
		return
	case errors.Is(err, sessions.ErrUserNotFound), errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown user"})
		return
	// auth service
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid token"})
		return
	// catalog service
	case errors.Is(err, catalog.ErrCourtNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Court not found"})
		return
	case errors.Is(err, catalog.ErrInvalidTimeRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "end time must be after start time"})
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
