package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/focus"
	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/gorilla/mux"
)

type endpoints struct {
	*restmachinery.BaseEndpoints
	service focus.Service
}

// NewEndpoints returns the focus-record retrieval routes.
func NewEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service focus.Service,
) restmachinery.Endpoints {
	return &endpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// Focus timeline; one page or the full history
	router.HandleFunc(
		"/v2/focus/timeline",
		e.timeline,
	).Methods(http.MethodGet)

	// Focus overview
	router.HandleFunc(
		"/v2/focus/general",
		e.general,
	).Methods(http.MethodGet)

	// Date-ranged focus statistics
	router.HandleFunc(
		"/v2/focus/distribution",
		e.dateRangeStatistic(e.service.Distribution),
	).Methods(http.MethodGet)
	router.HandleFunc(
		"/v2/focus/heatmap",
		e.dateRangeStatistic(e.service.Heatmap),
	).Methods(http.MethodGet)
	router.HandleFunc(
		"/v2/focus/time-distribution",
		e.dateRangeStatistic(e.service.TimeDistribution),
	).Methods(http.MethodGet)
	router.HandleFunc(
		"/v2/focus/hour-distribution",
		e.dateRangeStatistic(e.service.HourDistribution),
	).Methods(http.MethodGet)
}

// dateRangeStatistic adapts one date-ranged service operation into a handler
// that validates the start and end query parameters as YYYYMMDD dates.
func (e *endpoints) dateRangeStatistic(
	statisticFn func(
		ctx context.Context,
		startDate string,
		endDate string,
	) (json.RawMessage, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startDate := r.URL.Query().Get("start")
		endDate := r.URL.Query().Get("end")
		e.ServeRequest(
			restmachinery.InboundRequest{
				W: w,
				R: r,
				EndpointLogic: func() (interface{}, error) {
					for _, date := range []string{startDate, endDate} {
						if _, err := time.Parse("20060102", date); err != nil {
							return nil, dida.NewErrBadRequest(
								`The "start" and "end" query parameters must ` +
									`be dates of the form YYYYMMDD.`,
							)
						}
					}
					return statisticFn(r.Context(), startDate, endDate)
				},
				SuccessCode: http.StatusOK,
			},
		)
	}
}

func (e *endpoints) timeline(w http.ResponseWriter, r *http.Request) {
	// nolint: errcheck
	fullHistory, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				if fullHistory {
					return e.service.TimelineHistory(r.Context())
				}
				toMillis := int64(0)
				if toStr := r.URL.Query().Get("to"); toStr != "" {
					var err error
					if toMillis, err = strconv.ParseInt(toStr, 10, 64); err != nil { // nolint: lll
						return nil, dida.NewErrBadRequest(
							`The "to" query parameter must be a millisecond ` +
								`epoch timestamp.`,
						)
					}
				}
				return e.service.TimelinePage(r.Context(), toMillis)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) general(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.General(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}
