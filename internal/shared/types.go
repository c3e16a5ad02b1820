package shared

// Keys set on the gin context by the middleware chain.
const (
	ContextRequestID = "request_id"
	ContextUserID    = "userID"
	ContextUser      = "user"
)

// HeaderRequestID is echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// HeaderAuthorization carries the raw user token, on requests and on the
// responses that issue one.
const HeaderAuthorization = "Authorization"
