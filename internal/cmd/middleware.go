package cmd

import (
	"mime"
	"net/http"

	"github.com/conlawai/conlaw/core/errors"
	"github.com/gogf/gf/v2/errors/gcode"
	"github.com/gogf/gf/v2/errors/gerror"
	"github.com/gogf/gf/v2/net/ghttp"
)

const contentTypeEventStream = "text/event-stream"

// MiddlewareHandlerResponse is the default middleware handling handler
// response object and its error. Application errors carry their own HTTP
// status; everything else is an internal error.
func MiddlewareHandlerResponse(r *ghttp.Request) {
	r.Middleware.Next()

	// There's custom buffer content, it then exits current handler.
	if r.Response.BufferLength() > 0 || r.Response.Writer.BytesWritten() > 0 {
		return
	}

	// It does not output common response content if it is stream response.
	mediaType, _, _ := mime.ParseMediaType(r.Response.Header().Get("Content-Type"))
	if mediaType == contentTypeEventStream {
		return
	}

	err := r.GetError()
	if err == nil {
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    gcode.CodeOK.Code(),
			Message: gcode.CodeOK.Message(),
			Data:    r.GetHandlerResponse(),
		})
		return
	}

	if appErr := errors.GetAppError(err); appErr != nil {
		r.Response.WriteHeader(appErr.Code.HTTPStatusCode())
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    int(appErr.Code),
			Message: appErr.Message,
			Data:    nil,
		})
		return
	}

	// Request binding and validation failures from the framework.
	code := gerror.Code(err)
	if code == gcode.CodeValidationFailed || code == gcode.CodeMissingParameter || code == gcode.CodeInvalidParameter {
		r.Response.WriteHeader(http.StatusBadRequest)
		r.Response.WriteJson(ghttp.DefaultHandlerResponse{
			Code:    int(errors.ErrInvalidParameter),
			Message: err.Error(),
			Data:    nil,
		})
		return
	}

	r.Response.WriteHeader(http.StatusInternalServerError)
	r.Response.WriteJson(ghttp.DefaultHandlerResponse{
		Code:    gcode.CodeInternalError.Code(),
		Message: err.Error(),
		Data:    nil,
	})
}
