package response

import (
	"encoding/json"
	"net/http"

	"github.com/futig/proposal-backend/internal/entity"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(data)
}

// Error writes an entity.ErrorResponse with the status text as error
func Error(w http.ResponseWriter, status int, message string) error {
	return JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// Attachment writes content as a downloadable file
func Attachment(w http.ResponseWriter, contentType, filename string, content []byte) error {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(content)
	return err
}
