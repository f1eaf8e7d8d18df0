package rest

import (
	"net/http"

	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/2977094657/DidaAPI/apiserver/internal/statistics"
	"github.com/gorilla/mux"
)

type endpoints struct {
	*restmachinery.BaseEndpoints
	service statistics.Service
}

// NewEndpoints returns the statistics retrieval routes.
func NewEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service statistics.Service,
) restmachinery.Endpoints {
	return &endpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// Achievement ranking
	router.HandleFunc(
		"/v2/statistics/ranking",
		e.ranking,
	).Methods(http.MethodGet)

	// Overall task statistics
	router.HandleFunc(
		"/v2/statistics/general",
		e.general,
	).Methods(http.MethodGet)
}

func (e *endpoints) ranking(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.Ranking(r.Context())
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
