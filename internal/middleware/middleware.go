package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/RAGChat/internal/handlers"
	"github.com/akolanti/RAGChat/internal/metrics"
	"github.com/akolanti/RAGChat/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var authToken string

// Init stores the bearer token the auth step compares against. An empty
// token disables authentication, which is only acceptable in development.
func Init(token string) {
	authToken = token
	if token == "" {
		logger_i.NewLogger("middleware").Warn("AUTH_TOKEN is empty, authentication disabled")
	}
}

var HealthHandler = Wrap(handlers.HealthHandler)

var QueryHandler = Wrap(handlers.QueryHandler)
var ConversationHandler = Wrap(handlers.ConversationHandler)
var LogoutHandler = Wrap(handlers.LogoutHandler)

func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if re.badRequest.isBadRequest {
			return
		}
		next(rec, re.req)

		metrics.HttpRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re.logger.Debug("New request received")

	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}
	re = identifyUser(re)
	re = authenticate(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop if auth fails
	}
	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}

	return re
}
