package http

import (
	"net/http"

	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/constants"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/httpmetrics"
	"github.com/maydaicavt2016/build-a-interactive-web-app-tracker/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	csp := ContentSecurityPolicyMiddleware("")

	return SecurityHeadersMiddleware(csp(TraceIDMiddleware(recovery(maxRequestSize(collector.Wrap(handler))))))
}
