package available_time_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	availableTimeSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/available_time_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type fakeUseCase struct {
	got  *availableTimeSlots.Request
	resp *availableTimeSlots.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *availableTimeSlots.Request) (*availableTimeSlots.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(h *Handler, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/beauticians/{beauticianId}/available-time-slots", h.Handle).Methods(http.MethodGet)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandler_Handle(t *testing.T) {
	uc := &fakeUseCase{resp: &availableTimeSlots.Response{
		BeauticianID: 7,
		Date:         time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Slots: []availableTimeSlots.Slot{
			{ID: "09:00-09:45", StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("09:45")},
		},
	}}

	rec := serve(NewHandler(uc, logger.NewNop()), "/api/v1/beauticians/7/available-time-slots?total_duration=45&date=2026-10-19")

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailableTimeSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(7), body.BeauticianID)
	assert.Equal(t, "2026-10-19", body.Date)
	assert.Equal(t, []SlotResponse{{ID: "09:00-09:45", StartTime: "09:00", EndTime: "09:45"}}, body.Slots)
	assert.Equal(t, 45, uc.got.TotalDuration)
}

func TestHandler_Handle_EmptyListIsOK(t *testing.T) {
	uc := &fakeUseCase{resp: &availableTimeSlots.Response{BeauticianID: 7, Slots: []availableTimeSlots.Slot{}}}

	rec := serve(NewHandler(uc, logger.NewNop()), "/api/v1/beauticians/7/available-time-slots?total_duration=45&date=2026-10-19")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slots":[]`)
}

func TestHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		status int
	}{
		{name: "bad beautician", target: "/api/v1/beauticians/abc/available-time-slots?total_duration=30&date=2026-10-19", status: http.StatusBadRequest},
		{name: "zero duration", target: "/api/v1/beauticians/7/available-time-slots?total_duration=0&date=2026-10-19", status: http.StatusBadRequest},
		{name: "missing date", target: "/api/v1/beauticians/7/available-time-slots?total_duration=30", status: http.StatusBadRequest},
		{name: "bad date", target: "/api/v1/beauticians/7/available-time-slots?total_duration=30&date=tomorrow", status: http.StatusBadRequest},
		{name: "past date", target: "/api/v1/beauticians/7/available-time-slots?total_duration=30&date=2026-10-19", err: availableTimeSlots.ErrInvalidDate, status: http.StatusBadRequest},
		{name: "internal", target: "/api/v1/beauticians/7/available-time-slots?total_duration=30&date=2026-10-19", err: availableTimeSlots.ErrInternal, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler(&fakeUseCase{err: tt.err}, logger.NewNop()), tt.target)

			assert.Equal(t, tt.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Code)
		})
	}
}
