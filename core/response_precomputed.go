package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkRegistered     = "ok_registered"
	CodeOkOtpVerified    = "ok_otp_verified"
	CodeOkAuthentication = "ok_authentication"
	CodeOkProfile        = "ok_profile"
	CodeOkOrder          = "ok_order"
	CodeOkMetrics        = "ok_metrics"

	// errors
	CodeErrorInvalidRequest       = "err_invalid_input"
	CodeErrorAlreadyVerified      = "err_already_verified"
	CodeErrorMissingFields        = "err_missing_fields"
	CodeErrorInvalidEmail         = "err_invalid_email"
	CodeErrorPasswordComplexity   = "err_password_complexity"
	CodeErrorEmailConflict        = "err_email_conflict"
	CodeErrorInvalidCredentials   = "err_invalid_credentials"
	CodeErrorNotVerified          = "err_not_verified"
	CodeErrorUserNotFound         = "err_user_not_found"
	CodeErrorOtpInvalid           = "err_otp_invalid"
	CodeErrorNotFound             = "err_not_found"
	CodeErrorTooManyRequests      = "err_too_many_requests"
	CodeErrorServiceUnavailable   = "err_service_unavailable"
	CodeErrorUpstream             = "err_upstream"
	CodeErrorTokenGeneration      = "err_token_generation"
	CodeErrorAuthDatabaseError    = "err_auth_database_error"
	CodeErrorNoAuthHeader         = "err_no_auth_header"
	CodeErrorInvalidTokenFormat   = "err_invalid_token_format"
	CodeErrorJwtInvalidSignMethod = "err_invalid_sign_method"
	CodeErrorJwtTokenExpired      = "err_token_expired"
	CodeErrorJwtInvalidToken      = "err_invalid_token"
	CodeErrorInvalidContentType   = "err_invalid_content_type"
	CodeErrorFileTooLarge         = "err_file_too_large"
	CodeErrorInvalidFileType      = "err_invalid_file_type"
)

// precomputeBasicResponse is executed during initialization (before main()
// runs); the JSON body is marshaled once and stored in the response
// variables. Any writeJsonError(w, response) in the handlers then simply
// writes the precomputed bytes to the response writer, avoiding repeated
// JSON marshaling during request handling.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes
var (
	// errors
	errorInvalidRequest       = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorMissingFields        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingFields, "Required fields are missing")
	errorInvalidEmail         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidEmail, "Email address is not valid")
	errorPasswordComplexity   = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordComplexity, "Password must be at least 8 characters")
	errorEmailConflict        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorEmailConflict, "Email address is already registered")
	errorInvalidCredentials   = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidCredentials, "Invalid credentials provided")
	errorNotVerified          = precomputeBasicResponse(http.StatusForbidden, CodeErrorNotVerified, "Email address is not verified")
	errorUserNotFound         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorUserNotFound, "User not found")
	errorAlreadyVerified      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorAlreadyVerified, "Email already verified")
	errorOtpInvalid           = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOtpInvalid, "Invalid or expired verification code")
	errorNotFound             = precomputeBasicResponse(http.StatusNotFound, CodeErrorNotFound, "Requested resource not found")
	errorTooManyRequests      = precomputeBasicResponse(http.StatusTooManyRequests, CodeErrorTooManyRequests, "Too many requests, please try again later")
	errorServiceUnavailable   = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorServiceUnavailable, "Service is temporarily unavailable")
	errorUpstream             = precomputeBasicResponse(http.StatusBadGateway, CodeErrorUpstream, "Upstream service failed")
	errorTokenGeneration      = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorTokenGeneration, "Failed to generate authentication token")
	errorAuthDatabaseError    = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorAuthDatabaseError, "Database error during authentication")
	errorNoAuthHeader         = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNoAuthHeader, "Authorization header is required")
	errorInvalidTokenFormat   = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidTokenFormat, "Invalid authorization token format")
	errorJwtInvalidSignMethod = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidSignMethod, "Invalid JWT signing method")
	errorJwtTokenExpired      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtTokenExpired, "Authentication token has expired")
	errorJwtInvalidToken      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidToken, "Invalid authentication token")
	errorInvalidContentType   = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorFileTooLarge         = precomputeBasicResponse(http.StatusBadRequest, CodeErrorFileTooLarge, "Uploaded file exceeds the size limit")
	errorInvalidFileType      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidFileType, "Uploaded file type is not supported")

	// oks
	okRegistered  = precomputeBasicResponse(http.StatusCreated, CodeOkRegistered, "Account created. Check your email for the verification code")
	okOtpVerified = precomputeBasicResponse(http.StatusOK, CodeOkOtpVerified, "Email verified successfully")
)

// writeJsonOk writes a precomputed JSON success response
func writeJsonOk(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}

// writeJsonError writes a precomputed JSON error response
func writeJsonError(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}
