package update_appointment_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
)

type fakeService struct {
	got *models.UpdateStatusRequest
	err error
}

func (f *fakeService) UpdateStatus(_ context.Context, _ int64, req *models.UpdateStatusRequest) error {
	f.got = req
	return f.err
}

func serve(svc *fakeService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/appointments/{appointmentId}/status", NewHandler(svc, logger.NewNop()).Handle)

	r := httptest.NewRequest(http.MethodPatch, "/api/v1/appointments/9/status", strings.NewReader(body))
	r = r.WithContext(middleware.WithUser(r.Context(), 10, "beautician"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	svc := &fakeService{}

	rec := serve(svc, `{"status":"CONFIRMED"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CONFIRMED", svc.got.Status)
	assert.Equal(t, models.Actor{UserID: 10, Role: "beautician"}, svc.got.Actor)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "broken body", body: `{`, status: http.StatusBadRequest},
		{name: "bad status", body: `{"status":"DONE"}`, err: appointments.ErrInvalidInput, status: http.StatusBadRequest},
		{name: "bad transition", body: `{"status":"SCHEDULED"}`, err: appointments.ErrInvalidTransition, status: http.StatusBadRequest},
		{name: "forbidden", body: `{"status":"CONFIRMED"}`, err: appointments.ErrAccessDenied, status: http.StatusForbidden},
		{name: "not found", body: `{"status":"CONFIRMED"}`, err: appointments.ErrAppointmentNotFound, status: http.StatusNotFound},
		{name: "internal", body: `{"status":"CONFIRMED"}`, err: appointments.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
