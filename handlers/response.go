package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"harvesterbilling/apperrors"
	"harvesterbilling/auth"
	"harvesterbilling/logger"
)

const maxBodySize = 5 << 20 // backups carry every bill of an account

// ApiResponse is the envelope of every JSON response.
type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func ok(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: message, Data: data})
}

func created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, ApiResponse{Success: true, Message: message, Data: data})
}

// writeError maps err onto a status code. Server-side failures are logged and
// reported without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("account_id", auth.AccountID(r.Context())),
			zap.Error(err))
	}
	writeJSON(w, status, ApiResponse{Success: false, Message: apperrors.UserMessage(err)})
}

// readJSON decodes a single JSON value from the body into dst.
func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError), errors.Is(err, io.ErrUnexpectedEOF):
			return apperrors.Validation("malformed JSON")
		case errors.As(err, &typeError):
			return apperrors.Validation("invalid JSON type for " + typeError.Field)
		case errors.As(err, &maxBytesError):
			return apperrors.Validation("request body too large")
		case errors.Is(err, io.EOF):
			return apperrors.Validation("request body is empty")
		default:
			return apperrors.Validation(err.Error())
		}
	}
	if dec.More() {
		return apperrors.Validation("body must contain only a single JSON value")
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, apperrors.Validation("request body too large")
		}
		return nil, err
	}
	return raw, nil
}

func attachment(w http.ResponseWriter, contentType, fileName string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
