package lookup

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/John-Robertt/gpcheck/internal/domain"
)

// Classify 把一次 GetProject 的结果映射为 LookupKind。
//
// - nil：found
// - gRPC NotFound / HTTP 404：not_found
// - gRPC PermissionDenied / HTTP 403：permission_denied（看不到等同于不能用）
// - 其他：unexpected
func Classify(err error) domain.LookupKind {
	if err == nil {
		return domain.LookupFound
	}

	var hs *HTTPStatusError
	if errors.As(err, &hs) {
		switch hs.StatusCode {
		case http.StatusNotFound:
			return domain.LookupNotFound
		case http.StatusForbidden:
			return domain.LookupPermissionDenied
		default:
			return domain.LookupUnexpected
		}
	}

	// status.FromError 会沿 Unwrap 链查找 GRPCStatus()（apierror.APIError 也实现了它）。
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.NotFound:
			return domain.LookupNotFound
		case codes.PermissionDenied:
			return domain.LookupPermissionDenied
		}
	}
	return domain.LookupUnexpected
}
