package rest

import (
	"net/http"
	"strconv"

	dida "github.com/2977094657/DidaAPI"
	"github.com/2977094657/DidaAPI/apiserver/internal/restmachinery"
	"github.com/2977094657/DidaAPI/apiserver/internal/tasks"
	"github.com/gorilla/mux"
)

const (
	defaultTrashLimit = 50
	defaultTrashType  = 1
)

type endpoints struct {
	*restmachinery.BaseEndpoints
	service tasks.Service
}

// NewEndpoints returns the task-retrieval routes.
func NewEndpoints(
	baseEndpoints *restmachinery.BaseEndpoints,
	service tasks.Service,
) restmachinery.Endpoints {
	return &endpoints{
		BaseEndpoints: baseEndpoints,
		service:       service,
	}
}

func (e *endpoints) Register(router *mux.Router) {
	// All open tasks plus project profiles
	router.HandleFunc(
		"/v2/tasks",
		e.all,
	).Methods(http.MethodGet)

	// Completed or abandoned tasks; one page or the full history
	router.HandleFunc(
		"/v2/tasks/completed",
		e.closed,
	).Methods(http.MethodGet)

	// Trashed tasks
	router.HandleFunc(
		"/v2/tasks/trash",
		e.trash,
	).Methods(http.MethodGet)
}

func (e *endpoints) all(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				return e.service.All(r.Context())
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) closed(w http.ResponseWriter, r *http.Request) {
	// nolint: errcheck
	fullHistory, _ := strconv.ParseBool(r.URL.Query().Get("all"))
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				status := dida.TaskStatus(r.URL.Query().Get("status"))
				switch status {
				case "":
					status = dida.TaskStatusCompleted
				case dida.TaskStatusCompleted, dida.TaskStatusAbandoned:
				default:
					return nil, dida.NewErrBadRequest(
						`The "status" query parameter must be either ` +
							`"Completed" or "Abandoned".`,
					)
				}
				if fullHistory {
					return e.service.ClosedHistory(r.Context(), status)
				}
				return e.service.ClosedPage(
					r.Context(),
					status,
					r.URL.Query().Get("to"),
				)
			},
			SuccessCode: http.StatusOK,
		},
	)
}

func (e *endpoints) trash(w http.ResponseWriter, r *http.Request) {
	e.ServeRequest(
		restmachinery.InboundRequest{
			W: w,
			R: r,
			EndpointLogic: func() (interface{}, error) {
				limit := defaultTrashLimit
				if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
					var err error
					if limit, err = strconv.Atoi(limitStr); err != nil || limit < 1 { // nolint: lll
						return nil, dida.NewErrBadRequest(
							`The "limit" query parameter must be a positive ` +
								`integer.`,
						)
					}
				}
				taskType := defaultTrashType
				if typeStr := r.URL.Query().Get("type"); typeStr != "" {
					var err error
					if taskType, err = strconv.Atoi(typeStr); err != nil {
						return nil, dida.NewErrBadRequest(
							`The "type" query parameter must be an integer.`,
						)
					}
				}
				return e.service.Trash(r.Context(), limit, taskType)
			},
			SuccessCode: http.StatusOK,
		},
	)
}
